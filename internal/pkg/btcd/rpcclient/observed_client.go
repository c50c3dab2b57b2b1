// Package rpcclient wraps the btcd RPC client with metrics and per-call deadlines.
package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Client is the subset of *rpcclient.Client used by the stats service.
	Client interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	}
)

// ObservedClient records every call and abandons calls that outlive the timeout.
type ObservedClient struct {
	client     Client
	rpcMetrics RPCMetrics
	timeout    time.Duration
}

func NewObservedClient(client Client, rpcMetrics RPCMetrics, timeout time.Duration) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		timeout:    timeout,
	}
}

func (r *ObservedClient) GetBlockCount(ctx context.Context) (int64, error) {
	return observe(ctx, r, "get_block_count", r.client.GetBlockCount)
}

func (r *ObservedClient) GetBlockHash(ctx context.Context, blockHeight int64) (*chainhash.Hash, error) {
	return observe(ctx, r, "get_block_hash", func() (*chainhash.Hash, error) {
		return r.client.GetBlockHash(blockHeight)
	})
}

func (r *ObservedClient) GetBlockVerbose(ctx context.Context, blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {
	return observe(ctx, r, "get_block_verbose", func() (*btcjson.GetBlockVerboseResult, error) {
		return r.client.GetBlockVerbose(blockHash)
	})
}

func (r *ObservedClient) GetRawTransactionVerbose(ctx context.Context, txHash *chainhash.Hash) (*btcjson.TxRawResult, error) {
	return observe(ctx, r, "get_raw_transaction_verbose", func() (*btcjson.TxRawResult, error) {
		return r.client.GetRawTransactionVerbose(txHash)
	})
}

// RawRequest issues methods btcd has no typed wrapper for, such as getaddressbalance.
func (r *ObservedClient) RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error) {
	return observe(ctx, r, method, func() (json.RawMessage, error) {
		return r.client.RawRequest(method, params)
	})
}

func observe[T any](ctx context.Context, r *ObservedClient, operation string, call func() (T, error)) (res T, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe(operation, err, started)
	}()

	if err = ctx.Err(); err != nil {
		return res, err
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, callErr := call()
		done <- result{value: value, err: callErr}
	}()

	select {
	case <-ctx.Done():
		err = fmt.Errorf("%s: %w", operation, ctx.Err())
		return res, err
	case out := <-done:
		return out.value, out.err
	}
}
