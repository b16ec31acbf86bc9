package payments

import (
	"context"
	"encoding/json"
)

// StatusSucceeded is the only processor status that releases local state
// mutation.
const StatusSucceeded = "succeeded"

// Intent is the processor's view of an attempted charge. Amount is always
// in integer minor units. Raw is the processor's own JSON representation,
// stored with the transaction and treated as immutable.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Raw          json.RawMessage
}

// Processor is the contract with the external payment processor. Calls
// are synchronous and single-attempt; failures surface as
// common.ErrUpstream with no local retry.
type Processor interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
