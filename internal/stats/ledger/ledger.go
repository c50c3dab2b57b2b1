// Package ledger splits coinbase disbursements into reward, dev fund and fee amounts.
package ledger

import "github.com/btcsuite/btcd/btcutil"

// Output is a single coinbase output reduced to its destination and value.
type Output struct {
	Address string
	Value   btcutil.Amount
}

// Split is the economic breakdown of one coinbase transaction.
type Split struct {
	// Reward is in whole coins.
	Reward  int64
	DevFund btcutil.Amount
	TxFee   btcutil.Amount
}

// SplitCoinbase attributes outputs paying devFundAddress to the dev fund. Every other positive
// output contributes its whole-coin part to the reward and its remainder to the fee.
func SplitCoinbase(outputs []Output, devFundAddress string) Split {
	var s Split
	for _, out := range outputs {
		switch {
		case devFundAddress != "" && out.Address == devFundAddress:
			s.DevFund += out.Value
		case out.Value > 0:
			s.Reward += int64(out.Value / btcutil.SatoshiPerBitcoin)
			s.TxFee += out.Value % btcutil.SatoshiPerBitcoin
		}
	}
	return s
}
