// Package payments is the boundary to the external payment processor:
// intent creation, independent re-verification, and the amount
// conversion shared by both.
package payments

// MinorUnits converts a major-unit amount (e.g. euros) to integer minor
// units (cents) by multiplying by 100 and truncating. Every path that
// talks to the processor goes through this one function, so a client
// claim and a server-side price always truncate identically and amount
// comparisons stay in integers.
func MinorUnits(major float64) int64 {
	return int64(major * 100)
}
