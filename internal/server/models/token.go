package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivationToken is the one-time proof consumed to move a user from
// unconfirmed to confirmed. Once consumed it stays consumed.
type ActivationToken struct {
	ID         string
	CreatedAt  time.Time
	ConsumedAt *time.Time
}

func NewActivationToken() ActivationToken {
	return ActivationToken{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Matches compares the token against a candidate identifier. Equality is
// by identifier string, never by object identity.
func (t *ActivationToken) Matches(candidateID string) bool {
	return t.ID != "" && t.ID == candidateID
}

func (t *ActivationToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// Consume marks the token used. The consumption timestamp is written once
// and never overwritten, so repeated calls keep the original time.
func (t *ActivationToken) Consume(now time.Time) {
	if t.ConsumedAt != nil {
		return
	}
	t.ConsumedAt = &now
}
