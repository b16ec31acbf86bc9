package models

import (
	"testing"
	"time"
)

func TestUser_HasActiveSubscription(t *testing.T) {
	now := time.Now()

	u := &User{Email: "a@b.com"}
	if u.HasActiveSubscription(now) {
		t.Fatal("nil expiry must mean inactive")
	}

	past := now.Add(-24 * time.Hour)
	u.SubscriptionExpiry = &past
	if u.HasActiveSubscription(now) {
		t.Fatal("past expiry must mean inactive")
	}

	// expiry == now is not strictly after now
	u.SubscriptionExpiry = &now
	if u.HasActiveSubscription(now) {
		t.Fatal("expiry equal to now must mean inactive")
	}

	future := now.Add(time.Hour)
	u.SubscriptionExpiry = &future
	if !u.HasActiveSubscription(now) {
		t.Fatal("future expiry must mean active")
	}
}

func TestUser_IsActiveFollowsToken(t *testing.T) {
	u := &User{Email: "a@b.com", Token: NewActivationToken()}
	if u.IsActive() {
		t.Fatal("unconfirmed user must not be active")
	}
	u.Token.Consume(time.Now())
	if !u.IsActive() {
		t.Fatal("user with consumed token must be active")
	}
}
