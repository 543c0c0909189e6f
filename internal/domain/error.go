package domain

import "errors"

var (
	// Authorization / validation
	ErrNotAuthorized = errors.New("command is restricted to the operator")
	ErrBadFormat     = errors.New("bad command format")
	ErrInvalidID     = errors.New("identifier is not an integer")
	ErrEmptyBody     = errors.New("reply body is empty")

	// Delivery
	ErrRecipientUnreachable  = errors.New("recipient unreachable")
	ErrTransport             = errors.New("transport failure")
	ErrDeliveryFailed        = errors.New("delivery failed")
	ErrOperatorNotConfigured = errors.New("operator id is not configured")

	// Moderation
	ErrOperatorNotBlockable = errors.New("operator cannot be blocked")
)
