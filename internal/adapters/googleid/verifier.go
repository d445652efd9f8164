package googleid

// Package googleid verifies signed ID-token credentials from the identity
// provider (Google by default) and maps their claims onto the domain
// Identity. It sits outside the engine's trust boundary; the allow-list
// decision happens in the service layer.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
)

// Config holds configuration for the credential verifier.
type Config struct {
	ClientID   string
	Issuer     string
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// Verifier validates ID-token credentials against the issuer's published
// key set.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewVerifier creates a credential verifier. It performs a single discovery
// fetch against the issuer.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	provider, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// idTokenClaims is the claim shape Google's sign-in credential carries.
type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Sub     string `json:"sub"`
}

// Verify decodes and validates the credential and returns the identity it
// asserts. Only email is required to be present.
func (v *Verifier) Verify(ctx context.Context, credential string) (domainauth.Identity, error) {
	if credential == "" {
		return domainauth.Identity{}, errors.New("credential is required")
	}

	idToken, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify credential: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse credential claims: %w", claimsErr)
	}
	if claims.Email == "" {
		return domainauth.Identity{}, errors.New("credential is missing the email claim")
	}

	return domainauth.Identity{
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
		SubjectID:   claims.Sub,
	}, nil
}
