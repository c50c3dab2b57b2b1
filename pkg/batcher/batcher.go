// Package batcher buffers items in the background and flushes them in batches.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once Stop was called.
var ErrStopped = errors.New("batcher stopped")

type Config struct {
	// Size flushes the buffer once it holds this many items.
	Size int
	// Interval flushes a non-empty buffer at least this often.
	Interval time.Duration
	// RPS bounds flush calls per second.
	RPS int
	// Retries is how many times a failed batch is kept for the next flush before
	// it is dropped.
	Retries int
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = 100
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 10
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	return c
}

// Batcher keeps the order items were added in across flushes.
type Batcher[T any] struct {
	flush  func(context.Context, []T) error
	cfg    Config
	items  chan T
	rl     ratelimit.Limiter
	logger *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

func New[T any](logger *zap.Logger, flush func(context.Context, []T) error, cfg Config) *Batcher[T] {
	cfg = cfg.withDefaults()
	return &Batcher[T]{
		flush:  flush,
		cfg:    cfg,
		items:  make(chan T, cfg.Size*2),
		rl:     ratelimit.New(cfg.RPS),
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start runs the flush loop until ctx is done or Stop is called.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes whatever is queued and waits for the loop to exit.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Add queues item, blocking while the queue is full.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.items <- item:
		return nil
	}
}

type pending[T any] struct {
	buf      []T
	failures int
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	p := &pending[T]{buf: make([]T, 0, b.cfg.Size)}
	for {
		select {
		case <-ctx.Done():
			b.finish(ctx, p)
			return
		case <-b.stop:
			b.finish(ctx, p)
			return
		case item := <-b.items:
			p.buf = append(p.buf, item)
			if len(p.buf) >= b.cfg.Size {
				b.flushPending(ctx, p)
			}
		case <-ticker.C:
			b.flushPending(ctx, p)
		}
	}
}

func (b *Batcher[T]) finish(ctx context.Context, p *pending[T]) {
	for {
		select {
		case item := <-b.items:
			p.buf = append(p.buf, item)
		default:
			b.flushPending(context.WithoutCancel(ctx), p)
			if len(p.buf) > 0 {
				b.logger.Error("batch lost on shutdown", zap.Int("size", len(p.buf)))
			}
			return
		}
	}
}

// flushPending keeps a failed batch for the next call until retries run out.
func (b *Batcher[T]) flushPending(ctx context.Context, p *pending[T]) {
	if len(p.buf) == 0 {
		return
	}

	b.rl.Take()
	if err := b.flush(ctx, p.buf); err != nil {
		p.failures++
		if p.failures <= b.cfg.Retries {
			b.logger.Warn("batch not flushed, will retry",
				zap.Int("size", len(p.buf)), zap.Int("failures", p.failures), zap.Error(err))
			return
		}
		b.logger.Error("batch dropped", zap.Int("size", len(p.buf)), zap.Error(err))
	} else {
		b.logger.Debug("batch flushed", zap.Int("size", len(p.buf)))
	}
	p.buf = p.buf[:0]
	p.failures = 0
}
