//go:build zmq

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

// ZMQSupported reports whether the binary was built with the zmq tag.
const ZMQSupported = true

const pollTimeout = time.Second

// ZMQSource subscribes to the node's hashblock topic.
type ZMQSource struct {
	addr    string
	metrics Metrics
	logger  *zap.Logger
}

func NewZMQSource(addr string, metrics Metrics, logger *zap.Logger) (*ZMQSource, error) {
	if addr == "" {
		return nil, fmt.Errorf("zmq address is required")
	}
	return &ZMQSource{addr: addr, metrics: metrics, logger: logger}, nil
}

func (s *ZMQSource) Run(ctx context.Context, out chan<- *chainhash.Hash) error {
	sub, err := newSubscriber(s.addr, HashBlockTopic)
	if err != nil {
		return fmt.Errorf("connect zmq %s: %w", s.addr, err)
	}
	defer sub.Close()

	poller := zmq4.NewPoller()
	poller.Add(sub, zmq4.POLLIN)

	s.logger.Info("subscribed to block announcements", zap.String("addr", s.addr))
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		polled, err := poller.Poll(pollTimeout)
		if err != nil {
			s.logger.Warn("zmq poll failed", zap.Error(err))
			if err := clock.SleepWithContext(ctx, time.Second); err != nil {
				return err
			}
			continue
		}
		if len(polled) == 0 {
			continue
		}

		parts, err := sub.RecvMessageBytes(0)
		if err != nil {
			s.logger.Warn("zmq recv failed", zap.Error(err))
			continue
		}
		hash, seq, err := DecodeHashBlock(parts)
		if err != nil {
			s.metrics.ObserveNotification(OutcomeMalformed)
			s.logger.Warn("skip malformed zmq message", zap.Int("parts", len(parts)), zap.Error(err))
			continue
		}
		s.logger.Debug("block announced", zap.Stringer("hash", hash), zap.Uint32("seq", seq))

		select {
		case out <- hash:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func newSubscriber(addr string, topics ...string) (*zmq4.Socket, error) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, err
	}

	for _, topic := range topics {
		if err := sub.SetSubscribe(topic); err != nil {
			sub.Close()
			return nil, err
		}
	}

	if err := sub.Connect(addr); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}
