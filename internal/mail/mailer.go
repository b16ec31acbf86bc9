// Package mail sends transactional email. Delivery is best effort by
// contract: callers in business flows log failures and move on.
package mail

import "context"

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
