// Package clickhouse stores the block history in a ClickHouse table.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/batcher"
	"go.uber.org/zap"
)

// Config controls batching of appended records.
type Config struct {
	DSN           string
	Coin          model.Coin
	Network       model.Network
	FlushSize     int
	FlushInterval time.Duration
	FlushRPS      int
	// FlushRetries keeps a failed insert for this many further attempts.
	FlushRetries int
}

// Log appends records through a batcher and replays them ordered by height.
// Appends still buffered when the process dies are lost.
type Log struct {
	conn    Conn
	metrics Metrics
	logger  *zap.Logger
	coin    model.Coin
	network model.Network
	batch   *batcher.Batcher[model.BlockRecord]
}

func NewLog(ctx context.Context, cfg Config, logger *zap.Logger, metrics Metrics) (*Log, error) {
	if cfg.DSN == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	l := newLog(driverConn{conn: conn}, cfg, logger, metrics)
	l.batch.Start(context.WithoutCancel(ctx))
	return l, nil
}

func newLog(conn Conn, cfg Config, logger *zap.Logger, metrics Metrics) *Log {
	l := &Log{
		conn:    conn,
		metrics: metrics,
		logger:  logger,
		coin:    cfg.Coin,
		network: cfg.Network,
	}
	l.batch = batcher.New(logger, l.insertRecords, batcher.Config{
		Size:     cfg.FlushSize,
		Interval: cfg.FlushInterval,
		RPS:      cfg.FlushRPS,
		Retries:  cfg.FlushRetries,
	})
	return l
}

// Close flushes buffered records and closes the connection.
func (l *Log) Close() error {
	l.batch.Stop()
	return l.conn.Close()
}
