// Package syncer drives state through replay, catch-up and live ingestion.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Config tunes catch-up.
type Config struct {
	// Window is the number of heights fetched concurrently.
	Window int
	// RPS bounds block fetches per second.
	RPS int
	// RetryDelay is the pause after a failed tip query or an unproductive pass.
	RetryDelay time.Duration
	// MaxAttempts bounds fetch attempts per height on transient failures.
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = 8
	}
	if c.RPS <= 0 {
		c.RPS = 50
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	return c
}

type Controller struct {
	fetcher   Fetcher
	history   HistoryLog
	engine    *aggregate.Engine
	publisher Publisher
	metrics   Metrics
	logger    *zap.Logger
	cfg       Config
	rl        ratelimit.Limiter

	phase atomic.Int32
	// commitMu pairs each history append with its ingest.
	commitMu sync.Mutex
	liveMu   sync.Mutex
}

func New(
	fetcher Fetcher,
	history HistoryLog,
	engine *aggregate.Engine,
	publisher Publisher,
	metrics Metrics,
	logger *zap.Logger,
	cfg Config,
) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		fetcher:   fetcher,
		history:   history,
		engine:    engine,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		rl:        ratelimit.New(cfg.RPS),
	}
}

// Phase reports the current lifecycle phase.
func (c *Controller) Phase() model.Phase {
	return model.Phase(c.phase.Load())
}

func (c *Controller) setPhase(p model.Phase) {
	c.phase.Store(int32(p))
	c.metrics.SetPhase(p)
	c.logger.Info("phase changed", zap.Stringer("phase", p))
}

// Run replays history, catches up with the node and then hands over to live. It returns
// when ctx is done or live returns.
func (c *Controller) Run(ctx context.Context, live LiveSource) error {
	if err := c.replay(ctx); err != nil {
		return err
	}
	if err := c.catchUp(ctx); err != nil {
		return err
	}

	c.setPhase(model.PhaseLive)
	c.publisher.PublishReload()
	if err := live.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("live source: %w", err)
	}
	return nil
}

// commit appends the record and folds it into the engine. A history failure is logged and the
// record is still ingested.
func (c *Controller) commit(ctx context.Context, record model.BlockRecord) (model.DailyAggregate, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	if last, ok := c.engine.Height(); ok && record.Height <= last {
		return model.DailyAggregate{}, fmt.Errorf("height %d (last %d): %w", record.Height, last, aggregate.ErrAlreadyIngested)
	}

	if err := c.history.Append(ctx, record); err != nil {
		c.logger.Error("history append failed, keeping record in memory only",
			zap.Uint64("height", record.Height), zap.Error(err))
	}

	day, err := c.engine.Ingest(record)
	if err != nil {
		return model.DailyAggregate{}, err
	}
	c.metrics.SetHeight(record.Height)
	return day, nil
}

func (c *Controller) nextHeight() uint64 {
	last, ok := c.engine.Height()
	if !ok {
		// genesis outputs are unspendable and never counted
		return 1
	}
	return last + 1
}

func (c *Controller) refreshBurned(ctx context.Context) {
	burned, err := c.fetcher.BurnedTotal(ctx)
	if err != nil {
		c.logger.Warn("burned total refresh failed", zap.Error(err))
		return
	}
	c.engine.SetBurned(burned)
}

func (c *Controller) refreshHashrate(ctx context.Context) {
	hashps, err := c.fetcher.NetworkHashrate(ctx)
	if err != nil {
		c.logger.Warn("network hashrate refresh failed", zap.Error(err))
		return
	}
	c.engine.SetNetworkHashrate(hashps)
}

func (c *Controller) publishFull() {
	c.publisher.PublishFull(c.engine.Snapshot(), c.engine.Daily())
}
