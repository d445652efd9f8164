package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// NotAuthorizedMessage is shown to users whose identity verified cleanly but
// whose email is not on the allow-list.
const NotAuthorizedMessage = "Your email is not authorized to access this dashboard."

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Verifier   ports.CredentialVerifier
	Sessions   ports.SessionStore
	Authorizer *AuthorizerService
	Logger     *slog.Logger // Optional: structured logger
}

// SessionService orchestrates the login, restore, and logout flows by
// coordinating credential verification, allow-list authorization, and
// session persistence.
type SessionService struct {
	verifier   ports.CredentialVerifier
	sessions   ports.SessionStore
	authorizer *AuthorizerService
	logger     *slog.Logger
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Verifier == nil || opts.Sessions == nil || opts.Authorizer == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("Verifier, Sessions, and Authorizer are required")
	}
	return &SessionService{
		verifier:   opts.Verifier,
		sessions:   opts.Sessions,
		authorizer: opts.Authorizer,
		logger:     opts.Logger,
	}
}

// LoginResult contains the outcome of a login attempt whose credential
// verified successfully. Authorized distinguishes allow-list acceptance from
// rejection; Session is set only when Authorized is true.
type LoginResult struct {
	Authorized bool
	Message    string
	Session    *domainauth.Session
}

// Login verifies the provider credential, checks the allow-list, and on
// success persists a new session. A credential that cannot be decoded or
// verified returns a decode-class error; a verified identity that is not on
// the allow-list returns an unauthorized result, not an error, and nothing
// is persisted.
func (s *SessionService) Login(ctx context.Context, credential string) (*LoginResult, error) {
	if credential == "" {
		return nil, apperrors.Decode("credential is required")
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDecode, "verify credential")
	}

	if !s.authorizer.IsAuthorized(identity.Email) {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "login rejected by allow-list", "email", identity.Email)
		}
		return &LoginResult{Authorized: false, Message: NotAuthorizedMessage}, nil
	}

	// Email is persisted exactly as the provider reported it; only the
	// allow-list comparison is case-insensitive.
	session := domainauth.Session{
		ID:          uuid.New().String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		CreatedAt:   time.Now().UTC(),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "session created", "email", session.Email, "session_id", session.ID)
	}

	return &LoginResult{Authorized: true, Session: &session}, nil
}

// Restore retrieves the session for sessionID. An absent or corrupted
// persisted session reports ok=false with a nil error; the caller treats
// either as an anonymous visitor. Infrastructure failures surface as errors.
func (s *SessionService) Restore(ctx context.Context, sessionID string) (*domainauth.Session, bool, error) {
	if sessionID == "" {
		return nil, false, nil
	}

	session, ok, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &session, true, nil
}

// Logout removes the session. Logging out an already-absent session is a
// successful no-op.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "session ended", "session_id", sessionID)
	}
	return nil
}
