package transport

import (
	"context"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/price"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	StateReader interface {
		Snapshot() model.CurrentState
		Daily() model.DailyTable
		Supply() int64
	}
	PhaseReader interface {
		Phase() model.Phase
	}
	PriceFetcher interface {
		Fetch(ctx context.Context) (price.Info, error)
	}
	Metrics interface {
		SetClients(n int)
		ObserveMessage(event string)
	}
)
