package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	priceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_poller",
		Name:      "requests_total",
		Help:      "Count of market data requests.",
	}, []string{"source", "status"})
	priceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "price_poller",
		Name:      "request_duration_seconds",
		Help:      "Duration of market data requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source", "status"})
)

// PricePoller tracks requests to external market data sources.
type PricePoller struct{}

func NewPricePoller() *PricePoller {
	return &PricePoller{}
}

func (m PricePoller) Observe(source string, err error, started time.Time) {
	s := status(err)
	priceRequestsTotal.WithLabelValues(source, s).Inc()
	priceRequestDuration.WithLabelValues(source, s).Observe(time.Since(started).Seconds())
}
