package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "history_log",
		Name:      "operations_total",
		Help:      "Count of history log operations.",
	}, []string{"backend", "operation", "coin", "network", "status"})
	historyOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "history_log",
		Name:      "operation_duration_seconds",
		Help:      "Duration of history log operations.",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"backend", "operation", "coin", "network", "status"})
)

// HistoryLog tracks append and replay calls of one history backend.
type HistoryLog struct {
	chain
	backend string
}

func NewHistoryLog(backend string, coin model.Coin, network model.Network) *HistoryLog {
	return &HistoryLog{chain: newChain(coin, network), backend: orUnknown(backend)}
}

func (m HistoryLog) Observe(operation string, err error, started time.Time) {
	s := status(err)
	historyOperationsTotal.WithLabelValues(m.backend, operation, m.coin, m.network, s).Inc()
	historyOperationDuration.WithLabelValues(m.backend, operation, m.coin, m.network, s).
		Observe(time.Since(started).Seconds())
}
