package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		adminCommandTotal,
		operatorRepliesTotal,
		moderationActionsTotal,
		blocklistSize,
	)
}

var (
	adminCommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_command_total",
			Help: "Tracks attempts to use operator-only commands.",
		},
		[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
	)

	operatorRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operator_replies_total",
			Help: "Operator replies by result (sent/rejected/unreachable/failed).",
		},
		[]string{"result"},
	)

	moderationActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Block and unblock requests by outcome.",
		},
		[]string{"action", "outcome"},
	)

	blocklistSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blocklist_size",
			Help: "Number of currently blocked senders.",
		},
	)
)

func IncAdminCommand(command, status string) {
	adminCommandTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func IncOperatorReply(result string) {
	operatorRepliesTotal.WithLabelValues(norm(result)).Inc()
}

func IncModeration(action, outcome string) {
	moderationActionsTotal.WithLabelValues(norm(action), norm(outcome)).Inc()
}

func SetBlocklistSize(n int) {
	blocklistSize.Set(float64(n))
}
