package httpx

import (
	"bytes"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/novahq/nova-dashboard/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionServiceInterface
	Views        *service.ViewRegistry
	Datasets     *service.DatasetService
	CookieName   string
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	cookieName := services.CookieName
	if cookieName == "" {
		cookieName = "session_id"
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Sessions,
		Views:        services.Views,
		CookieName:   cookieName,
		CookieDomain: services.CookieDomain,
		SessionTTL:   services.SessionTTL,
		Logger:       services.Logger,
	}
	viewHandlers := &ViewHandlers{
		Views:    services.Views,
		Datasets: services.Datasets,
		Logger:   services.Logger,
	}

	registerAuthRoutes(mux, authHandlers)
	registerViewRoutes(mux, viewHandlers, RequireAuth(services.Sessions, cookieName))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Wrap with the JSON NotFound handler so unmatched routes don't fall
	// through to the mux's plain-text 404.
	return &notFoundHandler{mux: mux}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerViewRoutes(mux *http.ServeMux, h *ViewHandlers, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/dashboard", auth(http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /api/view/mode", auth(http.HandlerFunc(h.SetMode)))
	mux.Handle("POST /api/view/query", auth(http.HandlerFunc(h.SetQuery)))
	mux.Handle("DELETE /api/view/query", auth(http.HandlerFunc(h.ClearQuery)))
	mux.Handle("POST /api/view/page", auth(http.HandlerFunc(h.SetPage)))
	mux.Handle("POST /api/view/page-size", auth(http.HandlerFunc(h.SetPageSize)))
	mux.Handle("POST /api/datasets/refresh", auth(http.HandlerFunc(h.Refresh)))
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux *http.ServeMux
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// If the mux didn't handle the request (404), replace the plain-text
	// body with the JSON error shape the rest of the API uses
	if cw.status == http.StatusNotFound {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("route not found: " + r.URL.Path),
		})
		return
	}

	// Not a 404: write the captured response
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}
