package services

import (
	"time"

	"github.com/gramolapp/gramola/internal/server/models"
)

// SubscriptionLedger owns subscription validity on user records. All
// expiry reads and writes in the services go through it.
type SubscriptionLedger struct{}

// Activate stamps the subscription expiry with the confirmation time.
// The stamp is the confirmation time itself, not confirmation time plus
// a billing period.
func (SubscriptionLedger) Activate(u *models.User, now time.Time) {
	u.SubscriptionExpiry = &now
}

func (SubscriptionLedger) SetExpiry(u *models.User, ts time.Time) {
	u.SubscriptionExpiry = &ts
}

// IsActive reports whether u holds a subscription whose expiry is set
// and strictly after now.
func (SubscriptionLedger) IsActive(u *models.User, now time.Time) bool {
	return u.HasActiveSubscription(now)
}
