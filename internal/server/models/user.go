package models

import "time"

// User is a registered bar-owner account, keyed by email. The email is
// immutable once set. Credential tokens for the external music service
// are stored encrypted (vault ciphertext, never plaintext).
type User struct {
	Email        string
	PasswordHash string

	// Optional receipt signature blob supplied at registration.
	Signature string

	// Bar metadata. Latitude/Longitude are derived from BarAddress via
	// geocoding and may be absent.
	BarName    string
	BarAddress string
	Latitude   *float64
	Longitude  *float64

	// Per-song purchase price in major units (e.g. euros). Nil means the
	// bar has not configured one.
	SongPrice *float64

	SubscriptionExpiry *time.Time

	// Encrypted external-service credentials (vault ciphertext).
	AccessTokenEnc  string
	RefreshTokenEnc string

	Token     ActivationToken
	CreatedAt time.Time
}

// IsActive reports whether the account has been confirmed, i.e. its
// activation token has been consumed.
func (u *User) IsActive() bool {
	return u.Token.IsConsumed()
}

// HasActiveSubscription reports whether the subscription expiry is set
// and strictly in the future.
func (u *User) HasActiveSubscription(now time.Time) bool {
	return u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now)
}
