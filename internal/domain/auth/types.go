package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal decoded from an IdP
// credential. Adapters map provider-specific claims into this shape; the
// engine only trusts Email for authorization decisions.
type Identity struct {
	Email       string
	DisplayName string
	AvatarURL   string
	SubjectID   string // provider subject, informational only
}

// AllowlistEntry is one entry of the static allow-list. Extra fields in the
// source are passthrough and ignored by the engine.
type AllowlistEntry struct {
	Email string `json:"email"`
}

// Session is the record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
// Only the minimal identity fields are retained; provider token material is
// never stored.
type Session struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity returns the identity captured in the session.
func (s Session) Identity() Identity {
	return Identity{Email: s.Email, DisplayName: s.DisplayName, AvatarURL: s.AvatarURL}
}
