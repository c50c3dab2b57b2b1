package notify

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashBlockTopic is the node's ZMQ topic for new block hashes.
const HashBlockTopic = "hashblock"

var ErrMalformedMessage = errors.New("malformed hashblock message")

// DecodeHashBlock parses a [topic, hash, sequence] message. The hash is in display byte order.
func DecodeHashBlock(parts [][]byte) (*chainhash.Hash, uint32, error) {
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("%w: %d parts", ErrMalformedMessage, len(parts))
	}
	if topic := string(parts[0]); topic != HashBlockTopic {
		return nil, 0, fmt.Errorf("%w: topic %q", ErrMalformedMessage, topic)
	}
	if len(parts[1]) != chainhash.HashSize {
		return nil, 0, fmt.Errorf("%w: body of %d bytes", ErrMalformedMessage, len(parts[1]))
	}
	hash, err := chainhash.NewHashFromStr(hex.EncodeToString(parts[1]))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var seq uint32
	if len(parts) > 2 && len(parts[2]) == 4 {
		seq = binary.LittleEndian.Uint32(parts[2])
	}
	return hash, seq, nil
}
