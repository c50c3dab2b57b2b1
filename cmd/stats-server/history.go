package main

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/metrics"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/history"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/history/clickhouse"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/syncer"
	"go.uber.org/zap"
)

type historyLog interface {
	syncer.HistoryLog
	Close() error
}

func openHistory(ctx context.Context, cfg config, logger *zap.Logger) (historyLog, error) {
	m := metrics.NewHistoryLog(cfg.HistoryBackend, cfg.Coin, cfg.Network)
	logger = logger.With(zap.String("backend", cfg.HistoryBackend))

	switch cfg.HistoryBackend {
	case "file":
		return history.NewFileLog(cfg.HistoryPath, logger, m)
	case "leveldb":
		return history.NewLevelDBLog(cfg.HistoryPath, cfg.LevelDBSync, logger, m)
	case "clickhouse":
		return clickhouse.NewLog(ctx, clickhouse.Config{
			DSN:          cfg.ClickhouseDSN,
			Coin:         cfg.Coin,
			Network:      cfg.Network,
			FlushRetries: cfg.FlushRetries,
		}, logger, m)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
