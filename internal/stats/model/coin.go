package model

type Coin string
type Network string

var (
	BTC  Coin = "BTC"
	LTC  Coin = "LTC"
	RVN  Coin = "RVN"
	RITO Coin = "RITO"
)

var (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)
