// Package node fetches block economics, network hashrate and burned balances from a full node.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/ledger"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/safe"
	"github.com/shopspring/decimal"
)

var errNoCoinbase = errors.New("block has no transactions")

// Fetcher turns node RPC responses into block records.
type Fetcher struct {
	rpc            RPCClient
	devFundAddress string
	burnAddresses  []string
}

func NewFetcher(rpc RPCClient, devFundAddress string, burnAddresses []string) *Fetcher {
	return &Fetcher{
		rpc:            rpc,
		devFundAddress: devFundAddress,
		burnAddresses:  burnAddresses,
	}
}

// CurrentHeight returns the node's best block height.
func (f *Fetcher) CurrentHeight(ctx context.Context) (uint64, error) {
	count, err := f.rpc.GetBlockCount(ctx)
	if err != nil {
		return 0, model.TransientFetchError("get block count", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, model.MalformedError("get block count", err)
	}
	return height, nil
}

// BlockHash resolves the hash of the block at height.
func (f *Fetcher) BlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return nil, model.MalformedError("get block hash", err)
	}
	hash, err := f.rpc.GetBlockHash(ctx, h)
	if err != nil {
		return nil, model.TransientFetchError(fmt.Sprintf("get block hash %d", height), err)
	}
	return hash, nil
}

// FetchByHeight builds the record for the block at height.
func (f *Fetcher) FetchByHeight(ctx context.Context, height uint64) (model.BlockRecord, error) {
	hash, err := f.BlockHash(ctx, height)
	if err != nil {
		return model.BlockRecord{}, err
	}
	return f.FetchByHash(ctx, hash)
}

// FetchByHash builds the record for the block with the given hash.
func (f *Fetcher) FetchByHash(ctx context.Context, hash *chainhash.Hash) (model.BlockRecord, error) {
	op := fmt.Sprintf("fetch block %s", hash)

	block, err := f.rpc.GetBlockVerbose(ctx, hash)
	if err != nil {
		return model.BlockRecord{}, model.TransientFetchError(op, err)
	}
	if len(block.Tx) == 0 {
		return model.BlockRecord{}, model.MalformedError(op, errNoCoinbase)
	}

	coinbaseHash, err := chainhash.NewHashFromStr(block.Tx[0])
	if err != nil {
		return model.BlockRecord{}, model.MalformedError(op, fmt.Errorf("coinbase txid: %w", err))
	}
	coinbase, err := f.rpc.GetRawTransactionVerbose(ctx, coinbaseHash)
	if err != nil {
		return model.BlockRecord{}, model.TransientFetchError(op, err)
	}

	outputs, err := OutputsFromVout(coinbase.Vout)
	if err != nil {
		return model.BlockRecord{}, model.MalformedError(op, err)
	}
	record, err := BuildBlockRecord(block, ledger.SplitCoinbase(outputs, f.devFundAddress))
	if err != nil {
		return model.BlockRecord{}, model.MalformedError(op, err)
	}
	return record, nil
}

type miningInfo struct {
	NetworkHashPS json.Number `json:"networkhashps"`
}

// NetworkHashrate returns the node's network hashes per second estimate, rounded to an integer.
func (f *Fetcher) NetworkHashrate(ctx context.Context) (int64, error) {
	raw, err := f.rpc.RawRequest(ctx, "getmininginfo", nil)
	if err != nil {
		return 0, model.TransientFetchError("get mining info", err)
	}
	var info miningInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return 0, model.MalformedError("get mining info", err)
	}
	if info.NetworkHashPS == "" {
		return 0, model.MalformedError("get mining info", errors.New("networkhashps missing"))
	}
	hashps, err := decimal.NewFromString(info.NetworkHashPS.String())
	if err != nil {
		return 0, model.MalformedError("get mining info", err)
	}
	return hashps.Round(0).IntPart(), nil
}

type addressBalance struct {
	Balance *int64 `json:"balance"`
}

// BurnedTotal returns the combined balance of the burn addresses. With no burn addresses
// configured it is zero and the node is not queried.
func (f *Fetcher) BurnedTotal(ctx context.Context) (btcutil.Amount, error) {
	if len(f.burnAddresses) == 0 {
		return 0, nil
	}
	param, err := json.Marshal(struct {
		Addresses []string `json:"addresses"`
	}{Addresses: f.burnAddresses})
	if err != nil {
		return 0, fmt.Errorf("marshal burn addresses: %w", err)
	}

	raw, err := f.rpc.RawRequest(ctx, "getaddressbalance", []json.RawMessage{param})
	if err != nil {
		return 0, model.TransientFetchError("get address balance", err)
	}
	var balance addressBalance
	if err := json.Unmarshal(raw, &balance); err != nil {
		return 0, model.MalformedError("get address balance", err)
	}
	if balance.Balance == nil {
		return 0, model.MalformedError("get address balance", errors.New("balance missing"))
	}
	return btcutil.Amount(*balance.Balance), nil
}
