package price

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Publisher interface {
		PublishPrices(info Info)
	}
	Metrics interface {
		Observe(source string, err error, started time.Time)
	}
)
