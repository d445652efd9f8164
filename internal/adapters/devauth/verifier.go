package devauth

// Package devauth provides a simple, config-driven CredentialVerifier for
// local development. It accepts any non-empty credential and returns the
// configured identity; the allow-list check still applies downstream.

import (
	"context"
	"errors"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
)

// Config controls the dev verifier behavior.
type Config struct {
	Email       string
	DisplayName string
}

// Verifier implements ports.CredentialVerifier for local development.
type Verifier struct {
	identity domainauth.Identity
}

// NewVerifier constructs a dev verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	return &Verifier{
		identity: domainauth.Identity{
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			SubjectID:   "dev-subject",
		},
	}, nil
}

// Verify ignores the credential content and returns the configured identity.
// An empty credential still fails, matching the real verifier's contract.
func (v *Verifier) Verify(_ context.Context, credential string) (domainauth.Identity, error) {
	if credential == "" {
		return domainauth.Identity{}, errors.New("credential is required")
	}
	return v.identity, nil
}
