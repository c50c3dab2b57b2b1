package metrics

import (
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "notification_bridge",
	Name:      "notifications_total",
	Help:      "Count of new block notifications by outcome.",
}, []string{"coin", "network", "outcome"})

type NotificationBridge struct {
	chain
}

func NewNotificationBridge(coin model.Coin, network model.Network) *NotificationBridge {
	return &NotificationBridge{chain: newChain(coin, network)}
}

func (m NotificationBridge) ObserveNotification(outcome string) {
	notificationsTotal.WithLabelValues(m.coin, m.network, outcome).Inc()
}
