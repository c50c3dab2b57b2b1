package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// IngestHash ingests a block announced by the node. Heights missing between the state and the
// announced block are fetched first so the fold stays contiguous. A block at or below the
// state height returns aggregate.ErrAlreadyIngested.
func (c *Controller) IngestHash(ctx context.Context, hash *chainhash.Hash) (err error) {
	c.liveMu.Lock()
	defer c.liveMu.Unlock()

	started := time.Now()
	defer func() {
		if !errors.Is(err, aggregate.ErrAlreadyIngested) {
			c.metrics.ObserveIngest(model.PhaseLive, err, started)
		}
	}()

	record, err := c.fetcher.FetchByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("fetch announced block %s: %w", hash, err)
	}

	filled := false
	if last, ok := c.engine.Height(); ok && record.Height > last+1 {
		c.logger.Info("filling gap before announced block",
			zap.Uint64("from", last+1), zap.Uint64("to", record.Height-1))
		if err = c.catchUpRange(ctx, last+1, record.Height-1); err != nil {
			return err
		}
		filled = true
	}

	day, err := c.commit(ctx, record)
	if err != nil {
		return err
	}

	c.refreshBurned(ctx)
	c.refreshHashrate(ctx)

	c.publisher.PublishCurrent(c.engine.Snapshot())
	c.publisher.PublishDay(record.Date(), day)
	if filled {
		c.publishFull()
	}
	c.logger.Debug("live block ingested", zap.Uint64("height", record.Height), zap.Stringer("hash", hash))
	return nil
}
