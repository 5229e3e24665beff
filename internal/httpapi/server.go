package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cardgate/cardgate/internal/gate/service"
	"github.com/cardgate/cardgate/internal/gate/types"
	"github.com/cardgate/cardgate/internal/gate/wire"
)

// maxRequestBody caps the scan request body. The largest observed
// reader payload is well under 1 KiB, so 4 KiB is generous.
const maxRequestBody = 4096

type Dependencies struct {
	Logger  *zap.Logger
	Addr    string
	APIKey  string // empty disables the x-api-key check
	Dialect types.Dialect
	Scans   *service.ScanService
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	dialect    types.Dialect
	scans      *service.ScanService
}

func NewServer(d Dependencies) *Server {
	s := &Server{
		logger:  d.Logger,
		dialect: d.Dialect,
		scans:   d.Scans,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(d.Logger))
	r.Use(corsMiddleware)
	r.Use(s.recoverer)

	// The fleet firmware expects a deny-shaped body even on a wrong
	// method, not chi's plain-text default.
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, s.dialect.Deny("method not allowed"))
	})

	r.Get("/v1/healthz", handleHealthz)

	// One scan pipeline behind two routes: /v1/scan is canonical,
	// /api/card-reading is the path older fleet configs still post to.
	r.Group(func(r chi.Router) {
		r.Use(apiKeyMiddleware(d.APIKey, s.dialect))
		r.Post("/v1/scan", s.handleScan)
		r.Post("/api/card-reading", s.handleScan)
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, s.dialect.Deny("invalid request body"))
		return
	}

	scan, err := wire.Decode(body)
	if err != nil {
		// Decode failures short-circuit before any store access. The
		// missing-field diagnostic goes back to the caller — installers
		// debug reader wiring off this message.
		var missing *wire.MissingFieldError
		switch {
		case errors.As(err, &missing):
			writeJSON(w, http.StatusBadRequest, s.dialect.Deny(missing.Error()))
		default:
			writeJSON(w, http.StatusBadRequest, s.dialect.Deny("invalid request body"))
		}
		return
	}

	result := s.scans.Process(r.Context(), scan, remoteIP(r))

	// Deny is not an HTTP error: the request was processed and the
	// hardware gets its relay answer with a 200.
	if result.Verdict.Granted {
		writeJSON(w, http.StatusOK, s.dialect.Admit(result.EmployeeName, result.ReadingID, result.DecidedAt))
		return
	}
	writeJSON(w, http.StatusOK, s.dialect.Deny(result.Verdict.Public))
}

// recoverer converts panics into a generic deny-shaped 500. Internal
// detail goes to the log only — never to unattended hardware.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				writeJSON(w, http.StatusInternalServerError, s.dialect.Deny("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
