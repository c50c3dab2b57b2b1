package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncPhase = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync_controller",
		Name:      "phase",
		Help:      "1 for the phase the controller is in, 0 otherwise.",
	}, []string{"coin", "network", "phase"})

	syncHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync_controller",
		Name:      "height",
		Help:      "Highest block height folded into the aggregates.",
	}, []string{"coin", "network"})

	syncIngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync_controller",
		Name:      "ingest_total",
		Help:      "Count of block ingest attempts.",
	}, []string{"coin", "network", "phase", "status"})

	syncIngestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync_controller",
		Name:      "ingest_duration_seconds",
		Help:      "Duration of fetching and folding a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "phase", "status"})
)

var phases = []model.Phase{model.PhaseReplaying, model.PhaseCatchingUp, model.PhaseLive}

// SyncController tracks the sync controller lifecycle.
type SyncController struct {
	chain
}

func NewSyncController(coin model.Coin, network model.Network) *SyncController {
	return &SyncController{chain: newChain(coin, network)}
}

func (m SyncController) SetPhase(phase model.Phase) {
	for _, p := range phases {
		v := 0.0
		if p == phase {
			v = 1
		}
		syncPhase.WithLabelValues(m.coin, m.network, p.String()).Set(v)
	}
}

func (m SyncController) SetHeight(height uint64) {
	syncHeight.WithLabelValues(m.coin, m.network).Set(float64(height))
}

// ObserveIngest records one block ingest attempt in the given phase.
func (m SyncController) ObserveIngest(phase model.Phase, err error, started time.Time) {
	s := status(err)
	syncIngestTotal.WithLabelValues(m.coin, m.network, phase.String(), s).Inc()
	syncIngestDuration.WithLabelValues(m.coin, m.network, phase.String(), s).
		Observe(time.Since(started).Seconds())
}
