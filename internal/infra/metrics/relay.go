package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(relayMessagesTotal, relayDroppedTotal, relayLatency)
}

var (
	relayMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_total",
			Help: "Messages relayed to the operator by branch and result.",
		},
		[]string{"branch", "result"}, // result: 'delivered', 'failed'
	)

	relayDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_dropped_total",
			Help: "Inbound messages not relayed, by reason.",
		},
		[]string{"reason"},
	)

	relayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_latency_seconds",
			Help:    "Time spent delivering one relay to the operator.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"branch"},
	)
)

func ObserveRelay(branch string, delivered bool, took time.Duration) {
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	relayMessagesTotal.WithLabelValues(norm(branch), result).Inc()
	relayLatency.WithLabelValues(norm(branch)).Observe(took.Seconds())
}

func IncRelayDropped(reason string) {
	relayDroppedTotal.WithLabelValues(norm(reason)).Inc()
}
