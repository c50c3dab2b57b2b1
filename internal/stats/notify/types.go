package notify

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// LiveIngester consumes announced block hashes.
	LiveIngester interface {
		IngestHash(ctx context.Context, hash *chainhash.Hash) error
	}
	// Source emits block hashes until ctx is done or it fails.
	Source interface {
		Run(ctx context.Context, out chan<- *chainhash.Hash) error
	}
	// ChainTip is what the polling source needs from the node.
	ChainTip interface {
		CurrentHeight(ctx context.Context) (uint64, error)
		BlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error)
	}
	Metrics interface {
		ObserveNotification(outcome string)
	}
)

const (
	OutcomeIngested  = "ingested"
	OutcomeDuplicate = "duplicate"
	OutcomeStale     = "stale"
	OutcomeFailed    = "failed"
	OutcomeMalformed = "malformed"
)
