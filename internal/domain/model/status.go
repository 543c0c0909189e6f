package model

// TransportMode is selected once at startup.
type TransportMode string

const (
	TransportPolling TransportMode = "polling"
	TransportWebhook TransportMode = "webhook"
)

// RuntimeInfo is the immutable part of the status report.
type RuntimeInfo struct {
	CredentialPresent bool
	Mode              TransportMode
}

// StatusReport answers the operator's status query.
type StatusReport struct {
	CredentialPresent bool          `json:"credential_present"`
	OperatorIDValid   bool          `json:"operator_id_valid"`
	Mode              TransportMode `json:"transport_mode"`
	BlocklistSize     int           `json:"blocklist_size"`
}

// BlockOutcome is the idempotent result of a block or unblock request.
type BlockOutcome string

const (
	OutcomeBlocked        BlockOutcome = "blocked"
	OutcomeAlreadyBlocked BlockOutcome = "already_blocked"
	OutcomeUnblocked      BlockOutcome = "unblocked"
	OutcomeNotBlocked     BlockOutcome = "not_blocked"
)

// RouteOutcome records what the router did with an envelope.
type RouteOutcome string

const (
	RouteDroppedBlocked  RouteOutcome = "dropped_blocked"
	RouteDroppedOperator RouteOutcome = "dropped_operator"
	RouteIgnored         RouteOutcome = "ignored"
	RouteRateLimited     RouteOutcome = "rate_limited"
	RouteRelayed         RouteOutcome = "relayed"
	RouteRelayFailed     RouteOutcome = "relay_failed"
)

// Acknowledged reports whether the sender was (or should have been) answered.
func (o RouteOutcome) Acknowledged() bool {
	switch o {
	case RouteRateLimited, RouteRelayed, RouteRelayFailed:
		return true
	default:
		return false
	}
}
