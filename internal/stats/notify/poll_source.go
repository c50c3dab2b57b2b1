package notify

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"go.uber.org/zap"
)

// PollSource announces blocks by polling the node tip on an interval.
type PollSource struct {
	chain    ChainTip
	interval time.Duration
	logger   *zap.Logger
}

func NewPollSource(chain ChainTip, interval time.Duration, logger *zap.Logger) *PollSource {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PollSource{chain: chain, interval: interval, logger: logger}
}

// Run treats the tip at start as already known and emits the hash of every later height.
func (s *PollSource) Run(ctx context.Context, out chan<- *chainhash.Hash) error {
	last, err := s.chain.CurrentHeight(ctx)
	if err != nil {
		return err
	}

	return clock.Every(ctx, s.interval, func(ctx context.Context) error {
		tip, err := s.chain.CurrentHeight(ctx)
		if err != nil {
			s.logger.Warn("tip poll failed", zap.Error(err))
			return nil
		}
		for h := last + 1; h <= tip; h++ {
			hash, err := s.chain.BlockHash(ctx, h)
			if err != nil {
				s.logger.Warn("block hash lookup failed", zap.Uint64("height", h), zap.Error(err))
				return nil
			}
			select {
			case out <- hash:
			case <-ctx.Done():
				return ctx.Err()
			}
			last = h
		}
		return nil
	})
}
