package ports

// Package ports defines interfaces (hexagonal ports) for auth and dataset
// behavior. Implementations live in internal/adapters, internal/data, and
// internal/gateway; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
)

// CredentialVerifier decodes and verifies an opaque signed credential from
// the identity provider into an Identity. It sits outside the engine's
// trust boundary: a successful decode says nothing about the allow-list.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error

	// Restore returns the session for id. Absence of the key and a
	// malformed persisted value both report ok=false with a nil error;
	// malformed bytes are actively deleted so later restores see absence.
	// The returned error is reserved for infrastructure failures.
	Restore(ctx context.Context, id string) (sess domainauth.Session, ok bool, err error)

	// Delete removes the session. Deleting a missing session is a no-op.
	Delete(ctx context.Context, id string) error
}

// AllowlistSource loads the static allow-list snapshot. It is read exactly
// once at process start; the snapshot is immutable for the process lifetime.
type AllowlistSource interface {
	Load(ctx context.Context) ([]domainauth.AllowlistEntry, error)
}
