package model

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// CurrentState is the latest-block view together with running totals.
type CurrentState struct {
	Height        uint64
	Time          int64
	Difficulty    decimal.Decimal
	NetworkHashPS int64
	Reward        int64
	DevFund       btcutil.Amount
	TxFee         btcutil.Amount

	TotalRewards  btcutil.Amount
	TotalDevFunds btcutil.Amount
	TotalTxFees   btcutil.Amount
	TotalBurned   btcutil.Amount
}

// Supply returns circulating supply in whole coins.
func (s CurrentState) Supply() int64 {
	return RoundCoins(s.TotalRewards + s.TotalDevFunds - s.TotalBurned)
}

type currentStateJSON struct {
	Height        uint64      `json:"height"`
	Time          int64       `json:"time"`
	NetworkHashPS int64       `json:"networkhashps"`
	Difficulty    json.Number `json:"difficulty"`
	Reward        int64       `json:"reward"`
	DevFund       json.Number `json:"dev_fund"`
	TxFee         json.Number `json:"tx_fee"`
	TotalRewards  int64       `json:"total_rewards"`
	TotalDevFunds int64       `json:"total_dev_funds"`
	TotalTxFees   int64       `json:"total_tx_fees"`
	TotalBurned   int64       `json:"total_burned"`
}

// MarshalJSON keeps the totals in satoshis and the per-block amounts in coins.
func (s CurrentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(currentStateJSON{
		Height:        s.Height,
		Time:          s.Time,
		NetworkHashPS: s.NetworkHashPS,
		Difficulty:    json.Number(s.Difficulty.String()),
		Reward:        s.Reward,
		DevFund:       json.Number(CoinString(s.DevFund)),
		TxFee:         json.Number(CoinString(s.TxFee)),
		TotalRewards:  int64(s.TotalRewards),
		TotalDevFunds: int64(s.TotalDevFunds),
		TotalTxFees:   int64(s.TotalTxFees),
		TotalBurned:   int64(s.TotalBurned),
	})
}

// DailyAggregate sums the blocks of one UTC day.
type DailyAggregate struct {
	Blocks          int
	TotalDifficulty decimal.Decimal
	TotalRewards    int64
}

// MarshalJSON encodes difficulty as a plain number.
func (d DailyAggregate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"blocks":%d,"total_difficulty":%s,"total_rewards":%d}`,
		d.Blocks, d.TotalDifficulty.String(), d.TotalRewards)), nil
}

// DailyTable maps YYYY-MM-DD to the day's aggregate.
type DailyTable map[string]DailyAggregate

// Clone returns an independent copy of the table.
func (t DailyTable) Clone() DailyTable {
	out := make(DailyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
