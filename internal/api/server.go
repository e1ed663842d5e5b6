// Package api exposes the scan service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codescanhq/codescan/internal/archive"
	"github.com/codescanhq/codescan/internal/auth"
	"github.com/codescanhq/codescan/internal/log"
	"github.com/codescanhq/codescan/internal/mockscan"
	"github.com/codescanhq/codescan/internal/model"
	"github.com/codescanhq/codescan/internal/report"
	"github.com/codescanhq/codescan/internal/scan"
)

// maxUploadBytes caps the size of an uploaded archive.
const maxUploadBytes = 100 << 20

// Server wires the scan orchestrator, the auth service and the mock
// generator behind a single HTTP handler.
type Server struct {
	cfg   model.Config
	scans *scan.Orchestrator
	auth  *auth.Service
	mock  *mockscan.Generator
}

func New(cfg model.Config) *Server {
	return &Server{
		cfg:   cfg,
		scans: scan.New(cfg),
		auth:  auth.NewService(cfg.Auth),
		mock:  mockscan.NewGenerator(),
	}
}

// WithOrchestrator replaces the scan orchestrator. For unit testing only.
func (s *Server) WithOrchestrator(o *scan.Orchestrator) *Server {
	s.scans = o
	return s
}

// WithMock replaces the mock generator. For unit testing only.
func (s *Server) WithMock(g *mockscan.Generator) *Server {
	s.mock = g
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/v1/auth/me", s.authenticated(s.handleMe))
	mux.HandleFunc("POST /api/v1/security-testing", s.guarded(s.handleScan))
	mux.HandleFunc("POST /api/v1/mock-scan", s.guarded(s.handleMockScan))
	mux.HandleFunc("GET /api/v1/dashboard", s.guarded(s.handleDashboard))
	return mux
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Listen, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.InfoContext(ctx, "serving HTTP API", "addr", ln.Addr().String())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// guarded requires a bearer access token when auth is enabled.
func (s *Server) guarded(next http.HandlerFunc) http.HandlerFunc {
	if !s.cfg.Auth.Enabled {
		return next
	}
	return s.authenticated(next)
}

// authenticated always requires a bearer access token.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.Verify(token, auth.TokenTypeAccess)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, user)
		next(w, r.WithContext(ctx))
	}
}

type userKey struct{}

func userFrom(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(userKey{}).(auth.User)
	return u, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	pair, err := s.auth.Tokens(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "issuing tokens", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pair, err := s.auth.Refresh(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, "only ZIP archives are supported")
		return
	}
	upload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload")
		return
	}

	ctx = log.ContextAttrs(ctx, slog.String("upload", header.Filename))
	rep, err := s.scans.Scan(ctx, upload)
	switch {
	case errors.Is(err, model.ErrInvalidArchive):
		writeError(w, http.StatusBadRequest, "invalid or corrupted ZIP archive")
		return
	case err != nil:
		slog.ErrorContext(ctx, "scan failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if r.URL.Query().Get("format") == "cyclonedx" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := report.AsJSON(w, rep); err != nil {
			slog.ErrorContext(ctx, "encoding CycloneDX report", "err", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleMockScan takes the same ZIP upload as the real scan endpoint,
// extracts it through the same archive guard and fabricates findings per
// contained file. Nothing is analyzed.
func (s *Server) handleMockScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, "only ZIP archives are supported")
		return
	}
	upload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload")
		return
	}

	dir, err := os.MkdirTemp(s.cfg.WorkDir, "codescan-mock-")
	if err != nil {
		slog.ErrorContext(ctx, "creating mock scan dir", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer os.RemoveAll(dir)

	if err := archive.Extract(upload, dir); err != nil {
		if errors.Is(err, model.ErrInvalidArchive) {
			writeError(w, http.StatusBadRequest, "invalid or corrupted ZIP archive")
			return
		}
		slog.ErrorContext(ctx, "extracting mock scan upload", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, s.mock.Scan(fileNames(dir)))
}

// fileNames lists the non-directory entries below root, relative to it.
func fileNames(root string) []string {
	var names []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(root, path); err == nil {
			names = append(names, rel)
		}
		return nil
	})
	return names
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mock.Dashboard())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
