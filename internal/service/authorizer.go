package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// AuthorizerServiceOptions groups dependencies for AuthorizerService.
type AuthorizerServiceOptions struct {
	Source ports.AllowlistSource // Required: where the allow-list snapshot comes from
	Logger *slog.Logger          // Optional: structured logger
}

// AuthorizerService answers whether a verified identity may use the
// application. The allow-list snapshot is loaded once at construction and is
// immutable for the process lifetime; membership changes require a restart.
type AuthorizerService struct {
	entries []domainauth.AllowlistEntry
	logger  *slog.Logger
}

// NewAuthorizerService loads the allow-list and constructs the service.
func NewAuthorizerService(ctx context.Context, opts AuthorizerServiceOptions) (*AuthorizerService, error) {
	if opts.Source == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("AllowlistSource is required")
	}

	entries, err := opts.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load allow-list: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.InfoContext(ctx, "allow-list loaded", "entries", len(entries))
	}

	return &AuthorizerService{
		entries: entries,
		logger:  opts.Logger,
	}, nil
}

// IsAuthorized reports whether email belongs to an allow-listed identity.
// Comparison is a case-insensitive match of the full address. An empty email
// is never authorized, including against an empty-email allow-list entry.
func (s *AuthorizerService) IsAuthorized(email string) bool {
	if email == "" {
		return false
	}
	for _, entry := range s.entries {
		if strings.EqualFold(entry.Email, email) {
			return true
		}
	}
	return false
}

// Size returns the number of allow-list entries, for startup diagnostics.
func (s *AuthorizerService) Size() int {
	return len(s.entries)
}
