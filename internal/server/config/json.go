package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gramolapp/gramola/internal/flagx"
	"github.com/gramolapp/gramola/internal/timex"
)

// JsonConfig is the DTO for reading JSON configuration files. It uses
// timex.Duration for interval fields so both "24h" strings and integer
// nanoseconds parse. After unmarshalling, its fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	JWTSecret                    string         `json:"jwt_secret"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	StripeSecretKey              string         `json:"stripe_secret_key"`
	VaultSecret                  string         `json:"vault_secret"`
	SubscriptionPrice            float64        `json:"subscription_price"`
	Currency                     string         `json:"currency"`
	ProximityRadiusMeters        float64        `json:"proximity_radius_meters"`
	PhotonEndpoint               string         `json:"photon_endpoint"`
	SendGridAPIKey               string         `json:"sendgrid_api_key"`
	EmailFrom                    string         `json:"email_from"`
	BaseURL                      string         `json:"base_url"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing
// is loaded. An unreadable or invalid file panics: a half-applied config
// must not boot.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.JWTSecret != "" {
		config.JWTSecret = c.JWTSecret
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = time.Duration(c.SessionTokenValidityDuration.Duration)
	}
	if c.StripeSecretKey != "" {
		config.StripeSecretKey = c.StripeSecretKey
	}
	if c.VaultSecret != "" {
		config.VaultSecret = c.VaultSecret
	}
	if c.SubscriptionPrice != 0 {
		config.SubscriptionPrice = c.SubscriptionPrice
	}
	if c.Currency != "" {
		config.Currency = c.Currency
	}
	if c.ProximityRadiusMeters != 0 {
		config.ProximityRadiusMeters = c.ProximityRadiusMeters
	}
	if c.PhotonEndpoint != "" {
		config.PhotonEndpoint = c.PhotonEndpoint
	}
	if c.SendGridAPIKey != "" {
		config.SendGridAPIKey = c.SendGridAPIKey
	}
	if c.EmailFrom != "" {
		config.EmailFrom = c.EmailFrom
	}
	if c.BaseURL != "" {
		config.BaseURL = c.BaseURL
	}
}
