// Package metrics exposes application metrics collectors.
package metrics

import "github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"

const namespace = "blockstats7000"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown[T ~string](v T) string {
	if v == "" {
		return "unknown"
	}
	return string(v)
}

type chain struct {
	coin    string
	network string
}

func newChain(coin model.Coin, network model.Network) chain {
	return chain{coin: orUnknown(coin), network: orUnknown(network)}
}
