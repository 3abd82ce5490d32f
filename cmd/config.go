package cmd

import "freight/internal/pkg/errs"

// Config carries the flat environment-backed configuration of the
// application. All values are read as strings; parsing happens in the
// composition root.
type Config struct {
	BrokerAPIURL    string
	GoogleAPIKey    string
	RedisAddr       string
	RedisPassword   string
	GeocodeCacheTTL string
}

// Validate checks that the required settings are present. The Redis
// password and the cache TTL may stay empty.
func (c Config) Validate() error {
	if c.BrokerAPIURL == "" {
		return errs.NewValueIsRequiredError("BROKER_API_URL")
	}
	if c.GoogleAPIKey == "" {
		return errs.NewValueIsRequiredError("GOOGLE_API_KEY")
	}
	if c.RedisAddr == "" {
		return errs.NewValueIsRequiredError("REDIS_ADDR")
	}
	return nil
}
