package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Transaction records one payment intent created at the processor. The
// identifier is generated at creation and never reused; the payload is
// the processor's raw intent JSON, immutable once stored. Transactions
// are never deleted.
type Transaction struct {
	ID      string
	Payload json.RawMessage

	// Owner email. May be attached after creation, never removed.
	Email string

	// Reference of the purchased item (e.g. a track URI) for song
	// purchases. Attached on confirmation.
	TrackURI string

	// ConfirmedAt is the confirmation claim: it is set exactly once, by
	// the repository's atomic claim operation.
	ConfirmedAt *time.Time

	CreatedAt time.Time
}

func NewTransaction(payload json.RawMessage) *Transaction {
	return &Transaction{
		ID:        uuid.NewString(),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

func (t *Transaction) IsConfirmed() bool {
	return t.ConfirmedAt != nil
}
