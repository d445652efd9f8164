package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialVerifier = (*StaticVerifier)(nil)
	_ ports.SessionStore       = (*MemorySessionStore)(nil)
	_ ports.AllowlistSource    = (*StaticAllowlistSource)(nil)
)

// StaticVerifier accepts any non-empty credential and returns a fixed
// identity, or delegates to VerifyFunc when set.
type StaticVerifier struct {
	Identity   domainauth.Identity
	VerifyFunc func(ctx context.Context, credential string) (domainauth.Identity, error)
}

// NewStaticVerifier creates a StaticVerifier with a sensible default identity.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{
		Identity: domainauth.Identity{
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
			SubjectID:   "mock-subject-1",
		},
	}
}

func (v *StaticVerifier) Verify(ctx context.Context, credential string) (domainauth.Identity, error) {
	if v.VerifyFunc != nil {
		return v.VerifyFunc(ctx, credential)
	}
	if credential == "" {
		return domainauth.Identity{}, errors.New("credential is required")
	}
	return v.Identity, nil
}

// MemorySessionStore is an in-memory session store for unit tests. Marking
// a session ID corrupt makes Restore behave like the real store finding
// malformed bytes: the slot is wiped and absence is reported.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
	corrupt  map[string]bool
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
		corrupt:  make(map[string]bool),
	}
}

// Corrupt marks the slot for id as holding malformed bytes.
func (m *MemorySessionStore) Corrupt(id string) {
	m.corrupt[id] = true
}

// Len reports how many sessions the store currently holds.
func (m *MemorySessionStore) Len() int {
	return len(m.sessions)
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	delete(m.corrupt, sess.ID)
	return nil
}

func (m *MemorySessionStore) Restore(_ context.Context, id string) (domainauth.Session, bool, error) {
	if id == "" {
		return domainauth.Session{}, false, nil
	}
	if m.corrupt[id] {
		delete(m.corrupt, id)
		delete(m.sessions, id)
		return domainauth.Session{}, false, nil
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, false, nil
	}
	return sess, true, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	delete(m.corrupt, id)
	return nil
}

// StaticAllowlistSource serves a fixed allow-list, or fails with LoadErr.
type StaticAllowlistSource struct {
	Entries []domainauth.AllowlistEntry
	LoadErr error
}

// NewStaticAllowlistSource builds a source from plain email strings.
func NewStaticAllowlistSource(emails ...string) *StaticAllowlistSource {
	entries := make([]domainauth.AllowlistEntry, 0, len(emails))
	for _, e := range emails {
		entries = append(entries, domainauth.AllowlistEntry{Email: e})
	}
	return &StaticAllowlistSource{Entries: entries}
}

func (s *StaticAllowlistSource) Load(_ context.Context) ([]domainauth.AllowlistEntry, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Entries, nil
}
