// Package model defines domain models for chain economy statistics.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// DifficultyPlaces is the precision difficulty values are kept at.
const DifficultyPlaces = 3

// BlockRecord is the normalized economic view of one block. It is immutable once built.
type BlockRecord struct {
	Height     uint64
	Time       int64
	Difficulty decimal.Decimal
	// Reward is counted in whole coins; the fractional part of reward outputs is in TxFee.
	Reward  int64
	DevFund btcutil.Amount
	TxFee   btcutil.Amount
}

// Date returns the UTC calendar day of the block as YYYY-MM-DD.
func (r BlockRecord) Date() string {
	return DateOf(r.Time)
}

// RewardAmount returns the whole-coin reward in satoshis.
func (r BlockRecord) RewardAmount() btcutil.Amount {
	return btcutil.Amount(r.Reward * btcutil.SatoshiPerBitcoin)
}

// DateOf formats a unix timestamp as a UTC day key.
func DateOf(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.DateOnly)
}

type blockRecordJSON struct {
	Height     uint64      `json:"height"`
	Time       int64       `json:"time"`
	Difficulty json.Number `json:"difficulty"`
	Reward     json.Number `json:"reward"`
	DevFund    json.Number `json:"dev_fund"`
	TxFee      json.Number `json:"tx_fee"`
}

// MarshalJSON encodes amounts as plain coin numbers.
func (r BlockRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockRecordJSON{
		Height:     r.Height,
		Time:       r.Time,
		Difficulty: json.Number(r.Difficulty.String()),
		Reward:     json.Number(fmt.Sprint(r.Reward)),
		DevFund:    json.Number(CoinString(r.DevFund)),
		TxFee:      json.Number(CoinString(r.TxFee)),
	})
}

// UnmarshalJSON decodes a record, accepting exponent notation for small amounts.
func (r *BlockRecord) UnmarshalJSON(data []byte) error {
	var raw blockRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	difficulty, err := parseNumber(raw.Difficulty)
	if err != nil {
		return fmt.Errorf("difficulty: %w", err)
	}
	reward, err := parseNumber(raw.Reward)
	if err != nil {
		return fmt.Errorf("reward: %w", err)
	}
	if !reward.Equal(reward.Truncate(0)) {
		return fmt.Errorf("reward %s is not a whole coin amount", reward)
	}
	devFund, err := parseNumber(raw.DevFund)
	if err != nil {
		return fmt.Errorf("dev_fund: %w", err)
	}
	txFee, err := parseNumber(raw.TxFee)
	if err != nil {
		return fmt.Errorf("tx_fee: %w", err)
	}

	*r = BlockRecord{
		Height:     raw.Height,
		Time:       raw.Time,
		Difficulty: difficulty.Round(DifficultyPlaces),
		Reward:     reward.IntPart(),
		DevFund:    AmountFromDecimal(devFund),
		TxFee:      AmountFromDecimal(txFee),
	}
	return nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(n))
}
