package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// replay folds the stored history into the engine without appending anything.
func (c *Controller) replay(ctx context.Context) error {
	c.setPhase(model.PhaseReplaying)

	started := time.Now()
	var ingested, skipped int
	err := c.history.Replay(ctx, func(record model.BlockRecord) error {
		recordStarted := time.Now()
		_, err := c.engine.Ingest(record)
		if errors.Is(err, aggregate.ErrAlreadyIngested) {
			skipped++
			c.logger.Debug("skipping replayed record", zap.Uint64("height", record.Height), zap.Error(err))
			return nil
		}
		c.metrics.ObserveIngest(model.PhaseReplaying, err, recordStarted)
		if err != nil {
			return err
		}
		ingested++
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		c.logger.Error("history replay stopped early", zap.Int("ingested", ingested), zap.Error(err))
	}

	height, _ := c.engine.Height()
	c.metrics.SetHeight(height)
	c.logger.Info("history replayed",
		zap.Int("ingested", ingested),
		zap.Int("skipped", skipped),
		zap.Uint64("height", height),
		zap.Duration("took", time.Since(started)),
	)

	c.refreshBurned(ctx)
	c.publishFull()
	return nil
}
