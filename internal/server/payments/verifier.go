package payments

import (
	"context"
	"fmt"

	"github.com/gramolapp/gramola/internal/common"
)

// Verifier creates payment intents and independently re-verifies them.
// Client-submitted status and amounts are never trusted: verification
// always re-fetches the intent from the processor.
type Verifier struct {
	processor Processor
}

func NewVerifier(p Processor) *Verifier {
	return &Verifier{processor: p}
}

// CreateIntent asks the processor for a new intent. Single attempt;
// processor failures propagate unmodified.
func (v *Verifier) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (*Intent, error) {
	return v.processor.CreateIntent(ctx, amountMinorUnits, currency)
}

// RetrieveAndVerify fetches the intent's current state from the processor
// and checks it against the expected amount. The status must be
// "succeeded" (common.ErrPaymentNotCompleted otherwise) and the
// processor-reported amount must equal expectedAmountMinorUnits
// (common.ErrAmountMismatch otherwise). Status is checked before amount.
func (v *Verifier) RetrieveAndVerify(ctx context.Context, intentID string, expectedAmountMinorUnits int64) (*Intent, error) {
	intent, err := v.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	if intent.Status != StatusSucceeded {
		return nil, fmt.Errorf("%w: intent status is %q", common.ErrPaymentNotCompleted, intent.Status)
	}

	if intent.Amount != expectedAmountMinorUnits {
		return nil, fmt.Errorf("%w: processor reports %d minor units, expected %d",
			common.ErrAmountMismatch, intent.Amount, expectedAmountMinorUnits)
	}

	return intent, nil
}
