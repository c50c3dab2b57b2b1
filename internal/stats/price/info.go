package price

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// MarketPrice is the coin/BTC price on one exchange.
type MarketPrice struct {
	Name   string
	Price  decimal.Decimal
	Volume decimal.Decimal
}

func (m MarketPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string      `json:"name"`
		Price  json.Number `json:"price"`
		Volume json.Number `json:"volume"`
	}{m.Name, json.Number(m.Price.String()), json.Number(m.Volume.String())})
}

// Info is the BTC/USD rate plus coin markets sorted by volume, highest first.
type Info struct {
	BTC     decimal.Decimal
	Markets []MarketPrice
	// Symbol keys the market list in JSON, e.g. "rito".
	Symbol string
}

// MarshalJSON renders {"btc": <usd>, "<symbol>": [...]}.
func (i Info) MarshalJSON() ([]byte, error) {
	markets := i.Markets
	if markets == nil {
		markets = []MarketPrice{}
	}
	list, err := json.Marshal(markets)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(strings.ToLower(i.Symbol))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"btc":`)
	buf.WriteString(i.BTC.String())
	if i.Symbol != "" {
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
