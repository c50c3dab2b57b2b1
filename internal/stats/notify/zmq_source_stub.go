//go:build !zmq

package notify

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"
)

const ZMQSupported = false

var ErrZMQUnsupported = errors.New("built without zmq support")

type ZMQSource struct{}

func NewZMQSource(string, Metrics, *zap.Logger) (*ZMQSource, error) {
	return nil, ErrZMQUnsupported
}

func (s *ZMQSource) Run(context.Context, chan<- *chainhash.Hash) error {
	return ErrZMQUnsupported
}
