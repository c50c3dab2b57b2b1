package node

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/ledger"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/safe"
	"github.com/shopspring/decimal"
)

// OutputsFromVout reduces coinbase outputs to address and value pairs.
func OutputsFromVout(vout []btcjson.Vout) ([]ledger.Output, error) {
	outputs := make([]ledger.Output, 0, len(vout))
	for _, v := range vout {
		value, err := btcutil.NewAmount(v.Value)
		if err != nil {
			return nil, fmt.Errorf("vout %d value: %w", v.N, err)
		}
		outputs = append(outputs, ledger.Output{
			Address: firstAddress(v.ScriptPubKey),
			Value:   value,
		})
	}
	return outputs, nil
}

func firstAddress(script btcjson.ScriptPubKeyResult) string {
	if len(script.Addresses) > 0 {
		return script.Addresses[0]
	}
	return script.Address
}

// BuildBlockRecord combines block header fields with the coinbase split.
func BuildBlockRecord(block *btcjson.GetBlockVerboseResult, split ledger.Split) (model.BlockRecord, error) {
	height, err := safe.Uint64(block.Height)
	if err != nil {
		return model.BlockRecord{}, fmt.Errorf("block %s height: %w", block.Hash, err)
	}
	return model.BlockRecord{
		Height:     height,
		Time:       block.Time,
		Difficulty: decimal.NewFromFloat(block.Difficulty).Round(model.DifficultyPlaces),
		Reward:     split.Reward,
		DevFund:    split.DevFund,
		TxFee:      split.TxFee,
	}, nil
}
