// Package config provides centralized configuration management for the tool.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Keycloak KeycloakConfig
	Sync     SyncConfig
	Logging  LoggingConfig
}

// KeycloakConfig holds connection settings for the Keycloak realm.
type KeycloakConfig struct {
	// Server is the base URL of the Keycloak server (required)
	Server string `env:"KEYCLOAK_SERVER" required:"true"`

	// Realm is the realm whose users are synchronized (required)
	Realm string `env:"KEYCLOAK_REALM" required:"true"`

	// ClientID is the confidential client used for the admin API (required)
	ClientID string `env:"KEYCLOAK_CLIENT_ID" required:"true"`

	// ClientSecret is the client secret for the client-credentials grant (required)
	ClientSecret string `env:"KEYCLOAK_CLIENT_SECRET" required:"true"`

	// HTTPTimeout is the per-request timeout for admin API calls (default: 30s)
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"30s"`

	// ListPageSize is the page size used when listing realm users (default: 100)
	ListPageSize int `env:"LIST_PAGE_SIZE" default:"100"`
}

// SyncConfig holds reconciliation policy settings.
type SyncConfig struct {
	// ProtectedEmails lists accounts that must never be disabled,
	// as a comma-separated list of addresses. The username "admin"
	// is always protected regardless of this list.
	ProtectedEmails []string `env:"PROTECTED_EMAILS"`

	// RequiredUserActions are assigned to newly created accounts
	// (default: webauthn-register-passwordless)
	RequiredUserActions []string `env:"REQUIRED_USER_ACTIONS" default:"webauthn-register-passwordless"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
