// Package notify turns node block announcements into live ingestion calls.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const (
	defaultSeenSize     = 1024
	defaultRestartDelay = 5 * time.Second
)

// Bridge forwards hashes from a Source to the ingester, dropping hashes it has already handled.
type Bridge struct {
	source       Source
	ingester     LiveIngester
	metrics      Metrics
	logger       *zap.Logger
	seen         *lru.Cache
	restartDelay time.Duration
}

func NewBridge(source Source, ingester LiveIngester, metrics Metrics, logger *zap.Logger, seenSize int) (*Bridge, error) {
	if seenSize <= 0 {
		seenSize = defaultSeenSize
	}
	seen, err := lru.New(seenSize)
	if err != nil {
		return nil, fmt.Errorf("create seen cache: %w", err)
	}
	return &Bridge{
		source:       source,
		ingester:     ingester,
		metrics:      metrics,
		logger:       logger,
		seen:         seen,
		restartDelay: defaultRestartDelay,
	}, nil
}

// Run consumes the source until ctx is done. A failing source is restarted after a delay.
func (b *Bridge) Run(ctx context.Context) error {
	hashes := make(chan *chainhash.Hash, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			err := b.source.Run(ctx, hashes)
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("notification source stopped, restarting", zap.Duration("delay", b.restartDelay), zap.Error(err))
			if err := clock.SleepWithContext(ctx, b.restartDelay); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return ctx.Err()
		case hash := <-hashes:
			b.handle(ctx, hash)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, hash *chainhash.Hash) {
	if b.seen.Contains(*hash) {
		b.metrics.ObserveNotification(OutcomeDuplicate)
		b.logger.Debug("dropping duplicate announcement", zap.Stringer("hash", hash))
		return
	}
	b.seen.Add(*hash, struct{}{})

	err := b.ingester.IngestHash(ctx, hash)
	switch {
	case err == nil:
		b.metrics.ObserveNotification(OutcomeIngested)
	case errors.Is(err, aggregate.ErrAlreadyIngested):
		b.metrics.ObserveNotification(OutcomeStale)
		b.logger.Debug("announced block already ingested", zap.Stringer("hash", hash))
	default:
		// allow a later announcement of the same block to retry
		b.seen.Remove(*hash)
		b.metrics.ObserveNotification(OutcomeFailed)
		b.logger.Error("live ingestion failed", zap.Stringer("hash", hash), zap.Error(err))
	}
}
