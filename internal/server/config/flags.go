package config

import (
	"flag"
	"os"
	"time"

	"github.com/gramolapp/gramola/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN, or "inmemory"
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-k string   Stripe secret API key
//	-v string   32-byte vault secret
//	-p float    subscription price, major units
//	-r float    proximity radius, meters
//	-g string   Photon geocoding endpoint
//	-m string   SendGrid API key
//	-f string   sender address for outgoing mail
//	-b string   public base URL for activation links
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-v", "-p", "-r", "-g", "-m", "-f", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")

	sessionValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")

	fs.StringVar(&config.StripeSecretKey, "k", config.StripeSecretKey, "Stripe secret key")
	fs.StringVar(&config.VaultSecret, "v", config.VaultSecret, "vault secret (32 bytes)")
	fs.Float64Var(&config.SubscriptionPrice, "p", config.SubscriptionPrice, "subscription price in major units")
	fs.Float64Var(&config.ProximityRadiusMeters, "r", config.ProximityRadiusMeters, "proximity radius in meters")
	fs.StringVar(&config.PhotonEndpoint, "g", config.PhotonEndpoint, "geocoding endpoint")
	fs.StringVar(&config.SendGridAPIKey, "m", config.SendGridAPIKey, "SendGrid API key")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "sender address for outgoing mail")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
