package model

import "strconv"

// Sender is reconstructed from every inbound unit and never stored.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
}

// DisplayName prefers the @username, then the first name, then the numeric id.
func (s Sender) DisplayName() string {
	switch {
	case s.Username != "":
		return "@" + s.Username
	case s.FirstName != "":
		return s.FirstName
	default:
		return strconv.FormatInt(s.ID, 10)
	}
}
