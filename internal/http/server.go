// Package http serves a read-only JSON view of the shipment data: the
// series behind both charts and the workbook download.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"shiplog/internal/core"
	applog "shiplog/internal/log"
)

// Loader returns the current mapping. *store.Store satisfies it.
type Loader interface {
	Load(ctx context.Context) core.Mapping
}

type Server struct {
	http.Server
	loader       Loader
	exportPrefix string
	exportLimit  int
	now          func() time.Time

	shutdownOnce sync.Once
}

// Option customises a Server.
type Option func(*Server)

// WithExportPrefix sets the file name prefix of downloaded workbooks.
func WithExportPrefix(prefix string) Option {
	return func(s *Server) { s.exportPrefix = prefix }
}

// WithExportLimit caps workbook downloads per client and minute.
func WithExportLimit(n int) Option {
	return func(s *Server) { s.exportLimit = n }
}

// WithClock replaces time.Now, which picks the default year and the
// export file name.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, loader Loader, logger *applog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP})
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		loader: loader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /api/daily", s.handleDaily)
	mux.HandleFunc("GET /api/monthly", s.handleMonthly)
	limiter := newRateLimiter(s.exportLimit, s.now)
	mux.HandleFunc("GET /api/export.xlsx", limiter.middleware(s.handleExport))

	s.Handler = applog.Middleware(logger)(withSecurityHeaders(mux))
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
