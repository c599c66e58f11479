// Package config supplies the settings the calendar relay needs on every request.
//
// Values are read from the environment each time Load is called. Nothing is cached,
// so rotating GCAL_WEBAPP_SECRET or MCP_API_KEY takes effect on the next request
// without a restart.
package config

import (
	"fmt"
	"os"
)

// Environment variable names.
const (
	EnvWebAppURL         = "GCAL_WEBAPP_URL"
	EnvWebAppSecret      = "GCAL_WEBAPP_SECRET"
	EnvAPIKey            = "MCP_API_KEY"
	EnvDefaultTimezone   = "DEFAULT_TIMEZONE"
	EnvDefaultCalendarID = "DEFAULT_CALENDAR_ID"
)

// Fallback values used when the environment does not provide one.
const (
	DefaultTimezone   = "Europe/London"
	DefaultCalendarID = "primary"
)

// Config holds the relay settings for a single request.
type Config struct {
	// WebAppURL is the Apps Script web app endpoint events are posted to.
	WebAppURL string

	// WebAppSecret is injected into every outbound request. It is never
	// accepted from callers.
	WebAppSecret string

	// APIKey is the bearer key callers must present. Empty means open access.
	APIKey string

	DefaultTimezone   string
	DefaultCalendarID string
}

// Provider returns the current configuration.
type Provider interface {
	Load() Config
}

// EnvProvider reads the configuration from environment variables on every call.
type EnvProvider struct{}

// NewEnvProvider creates an EnvProvider.
func NewEnvProvider() EnvProvider {
	return EnvProvider{}
}

// Load implements Provider.
func (EnvProvider) Load() Config {
	return Config{
		WebAppURL:         os.Getenv(EnvWebAppURL),
		WebAppSecret:      os.Getenv(EnvWebAppSecret),
		APIKey:            os.Getenv(EnvAPIKey),
		DefaultTimezone:   getEnvOrDefault(EnvDefaultTimezone, DefaultTimezone),
		DefaultCalendarID: getEnvOrDefault(EnvDefaultCalendarID, DefaultCalendarID),
	}
}

// Static is a Provider returning a fixed configuration. Empty defaults are
// filled in the same way EnvProvider fills them.
type Static Config

// Load implements Provider.
func (s Static) Load() Config {
	c := Config(s)
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = DefaultTimezone
	}
	if c.DefaultCalendarID == "" {
		c.DefaultCalendarID = DefaultCalendarID
	}
	return c
}

// RequireWebApp checks that the downstream endpoint and its secret are set.
func (c Config) RequireWebApp() error {
	if c.WebAppURL == "" {
		return &Error{Setting: EnvWebAppURL}
	}
	if c.WebAppSecret == "" {
		return &Error{Setting: EnvWebAppSecret}
	}
	return nil
}

// AuthEnabled reports whether callers must present a bearer key.
func (c Config) AuthEnabled() bool {
	return c.APIKey != ""
}

// Error reports a required setting that is missing.
type Error struct {
	Setting string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("Missing %s", e.Setting)
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
