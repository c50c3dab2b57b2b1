package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// catchUp ingests every height between the state and the node tip, then refreshes the
// hashrate and publishes a full snapshot. Heights that still fail after retries are skipped.
func (c *Controller) catchUp(ctx context.Context) error {
	c.setPhase(model.PhaseCatchingUp)

	cursor := c.nextHeight()
	for {
		tip, err := c.fetcher.CurrentHeight(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("tip query failed, retrying", zap.Duration("delay", c.cfg.RetryDelay), zap.Error(err))
			if err := clock.SleepWithContext(ctx, c.cfg.RetryDelay); err != nil {
				return err
			}
			continue
		}

		if next := c.nextHeight(); next > cursor {
			cursor = next
		}
		if tip < cursor {
			c.refreshHashrate(ctx)
			c.publishFull()
			return nil
		}

		end := tip
		if window := uint64(c.cfg.Window); end-cursor+1 > window {
			end = cursor + window - 1
		}
		if err := c.catchUpRange(ctx, cursor, end); err != nil {
			return err
		}
		cursor = end + 1
	}
}

// catchUpRange fetches [from, to] concurrently and ingests the results in height order.
func (c *Controller) catchUpRange(ctx context.Context, from, to uint64) error {
	heights := make([]uint64, 0, to-from+1)
	for h := from; h <= to; h++ {
		heights = append(heights, h)
	}
	results, err := workerpool.Map(ctx, c.cfg.Window, heights, c.fetchHeight)
	if err != nil {
		return err
	}

	for i, res := range results {
		started := time.Now()
		if res.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.metrics.ObserveIngest(model.PhaseCatchingUp, res.Err, started)
			c.logger.Error("skipping height",
				zap.Uint64("height", heights[i]),
				zap.Stringer("kind", model.KindOf(res.Err)),
				zap.Error(res.Err),
			)
			continue
		}
		_, err := c.commit(ctx, res.Value)
		c.metrics.ObserveIngest(model.PhaseCatchingUp, err, started)
		if err != nil {
			if !errors.Is(err, aggregate.ErrAlreadyIngested) {
				c.logger.Error("ingest failed", zap.Uint64("height", heights[i]), zap.Error(err))
			}
			continue
		}
		c.publisher.PublishCurrent(c.engine.Snapshot())
	}
	return nil
}

// fetchHeight retries transient failures; malformed blocks fail immediately.
func (c *Controller) fetchHeight(ctx context.Context, height uint64) (model.BlockRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		c.rl.Take()
		record, err := c.fetcher.FetchByHeight(ctx, height)
		if err == nil {
			return record, nil
		}
		lastErr = err
		if model.KindOf(err) != model.KindTransientFetch || attempt == c.cfg.MaxAttempts {
			break
		}
		c.logger.Debug("fetch failed, retrying", zap.Uint64("height", height), zap.Int("attempt", attempt), zap.Error(err))
		if err := clock.SleepWithContext(ctx, c.cfg.RetryDelay); err != nil {
			return model.BlockRecord{}, err
		}
	}
	return model.BlockRecord{}, lastErr
}
