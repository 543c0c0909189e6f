package usecase

import (
	"strconv"
	"strings"
)

// OperatorIdentity answers "is this sender the operator?" for the single
// configured operator id.
type OperatorIdentity struct {
	id    int64
	valid bool
}

// NewOperatorIdentity normalizes the configured id. A blank or non-numeric
// value yields an identity that matches nobody.
func NewOperatorIdentity(raw string) OperatorIdentity {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return OperatorIdentity{}
	}
	return OperatorIdentity{id: id, valid: true}
}

func (o OperatorIdentity) IsOperator(candidate int64) bool {
	return o.valid && candidate == o.id
}

func (o OperatorIdentity) Valid() bool { return o.valid }

// ChatID is the operator's private chat, which equals the operator's user id.
func (o OperatorIdentity) ChatID() int64 { return o.id }
