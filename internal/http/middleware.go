package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
	"github.com/novahq/nova-dashboard/internal/service"
)

// SessionServiceInterface defines the session operations handlers and
// middleware depend on.
type SessionServiceInterface interface {
	Login(ctx context.Context, credential string) (*service.LoginResult, error)
	Restore(ctx context.Context, sessionID string) (*domainauth.Session, bool, error)
	Logout(ctx context.Context, sessionID string) error
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires a restorable session.
// Anonymous visitors get a 401 Unauthorized response.
func RequireAuth(sessions SessionServiceInterface, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, sessions, cookieName)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getSessionFromRequest restores the session named by the request cookie.
// An absent cookie, an absent session, a corrupted persisted session, and an
// infrastructure failure all read as anonymous here; protected handlers only
// care whether a session could be produced.
func getSessionFromRequest(r *http.Request, sessions SessionServiceInterface, cookieName string) *domainauth.Session {
	sessionCookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	session, ok, err := sessions.Restore(r.Context(), sessionCookie.Value)
	if err != nil || !ok {
		return nil
	}
	return session
}
