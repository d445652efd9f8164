package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	apperrors "github.com/novahq/nova-dashboard/internal/errors"
	"github.com/novahq/nova-dashboard/internal/service"
)

// AuthHandlers provides HTTP handlers for the login, logout, and status
// endpoints.
type AuthHandlers struct {
	Svc          SessionServiceInterface
	Views        *service.ViewRegistry
	CookieName   string
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest carries the signed identity-provider credential.
type loginRequest struct {
	Credential string `json:"credential"`
}

// Login handles the credential login endpoint.
// POST /auth/login with body {"credential": "<signed ID token>"}.
// 200 with a session cookie on success, 403 when the verified identity is
// not allow-listed, 400 when the credential cannot be decoded.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Credential)
	if err != nil {
		if apperrors.IsDecode(err) {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_credential",
				Err:     err,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	if !result.Authorized {
		WriteJSON(w, http.StatusForbidden, map[string]string{
			"error":   "not_authorized",
			"message": result.Message,
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sessionUser(result.Session),
	})
}

// Logout handles the logout endpoint.
// POST /auth/logout. Logging out without a session is still a success.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(h.CookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
		if h.Views != nil {
			h.Views.Drop(sessionCookie.Value)
		}
	}

	h.clearCookie(w, r, h.CookieName)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(h.CookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, ok, err := h.Svc.Restore(r.Context(), sessionCookie.Value)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "session restore failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "session_unavailable",
			Err:     err,
		})
		return
	}
	if !ok {
		// Absent or corrupted server-side session: the cookie is dead weight.
		h.clearCookie(w, r, h.CookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sessionUser(session),
	})
}

// sessionUser is the wire shape of the signed-in user.
func sessionUser(s *domainauth.Session) map[string]any {
	return map[string]any{
		"email":        s.Email,
		"display_name": s.DisplayName,
		"avatar_url":   s.AvatarURL,
	}
}

// setSessionCookie writes the session cookie with the configured TTL.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s *domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.SessionTTL.Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
