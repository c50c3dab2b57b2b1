package model

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

const coinPlaces = 8

// AmountFromDecimal converts a coin amount to satoshis, rounding at the eighth place.
func AmountFromDecimal(d decimal.Decimal) btcutil.Amount {
	return btcutil.Amount(d.Shift(coinPlaces).Round(0).IntPart())
}

// AmountToDecimal converts satoshis to an exact coin amount.
func AmountToDecimal(a btcutil.Amount) decimal.Decimal {
	return decimal.New(int64(a), -coinPlaces)
}

// CoinString renders satoshis as a coin number without trailing zeros.
func CoinString(a btcutil.Amount) string {
	return AmountToDecimal(a).String()
}

// RoundCoins rounds satoshis to whole coins, half up.
func RoundCoins(a btcutil.Amount) int64 {
	sum := int64(a) + btcutil.SatoshiPerBitcoin/2
	coins := sum / btcutil.SatoshiPerBitcoin
	if sum%btcutil.SatoshiPerBitcoin < 0 {
		coins--
	}
	return coins
}
