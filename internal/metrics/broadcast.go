package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	broadcastClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "broadcast",
		Name:      "clients",
		Help:      "Number of connected websocket clients.",
	})
	broadcastMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "broadcast",
		Name:      "messages_total",
		Help:      "Count of broadcast messages by event.",
	}, []string{"event"})
)

// Broadcast tracks the websocket hub.
type Broadcast struct{}

func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

func (Broadcast) SetClients(n int) {
	broadcastClients.Set(float64(n))
}

func (Broadcast) ObserveMessage(event string) {
	broadcastMessagesTotal.WithLabelValues(event).Inc()
}
