package syncer

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Fetcher interface {
		CurrentHeight(ctx context.Context) (uint64, error)
		FetchByHeight(ctx context.Context, height uint64) (model.BlockRecord, error)
		FetchByHash(ctx context.Context, hash *chainhash.Hash) (model.BlockRecord, error)
		NetworkHashrate(ctx context.Context) (int64, error)
		BurnedTotal(ctx context.Context) (btcutil.Amount, error)
	}
	HistoryLog interface {
		Replay(ctx context.Context, fn func(model.BlockRecord) error) error
		Append(ctx context.Context, record model.BlockRecord) error
	}
	// Publisher delivers state changes to connected clients.
	Publisher interface {
		PublishCurrent(state model.CurrentState)
		PublishFull(state model.CurrentState, daily model.DailyTable)
		PublishDay(date string, day model.DailyAggregate)
		PublishReload()
	}
	// LiveSource runs until ctx is done, feeding new block hashes back into the controller.
	LiveSource interface {
		Run(ctx context.Context) error
	}
	Metrics interface {
		SetPhase(phase model.Phase)
		SetHeight(height uint64)
		ObserveIngest(phase model.Phase, err error, started time.Time)
	}
)
