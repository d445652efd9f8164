package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOIDC verifies identity-provider credentials via OIDC.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, mock)", v)
	}
}

// OIDCConfig contains the identity-provider verifier configuration.
// The default issuer is Google's, matching the dashboard's sign-in button.
type OIDCConfig struct {
	ClientID string `env:"CLIENT_ID"`
	Issuer   string `env:"ISSUER" envDefault:"https://accounts.google.com"`
}

// DevAuthConfig controls the mock identity returned when AUTH_MODE=mock.
type DevAuthConfig struct {
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oidc"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is how long a persisted session lives.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// CookieName is the session cookie name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.CookieName == "" {
		a.CookieName = "session_id"
	}
}

// AllowlistSourceMode selects where the static allow-list is loaded from.
type AllowlistSourceMode string

const (
	// AllowlistSourceFile loads the allow-list from a JSON file.
	AllowlistSourceFile AllowlistSourceMode = "file"
	// AllowlistSourcePostgres loads the allow-list from a Postgres table.
	AllowlistSourcePostgres AllowlistSourceMode = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for AllowlistSourceMode.
func (m *AllowlistSourceMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "postgres":
		*m = AllowlistSourceMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AllowlistSourceMode: %q (valid options: file, postgres)", v)
	}
}

// AllowlistConfig controls the static allow-list source. The list is loaded
// once at process start and is immutable for the process lifetime.
type AllowlistConfig struct {
	Source AllowlistSourceMode `env:"SOURCE" envDefault:"file"`

	// Path is the JSON file holding the allow-list (Source=file).
	Path string `env:"PATH" envDefault:"users.json"`
}
