// Package server hosts the sandbox's HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue/internal/middleware"
	routes "github.com/NewtTheWolf/sendblue/internal/router"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps the http.Server running the sandbox routes.
type Server struct {
	http *http.Server
}

// New registers the routes in deps and wraps them with access logging and
// panic recovery. Nothing listens until Start.
func New(addr string, deps routes.AppDeps, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	routes.Register(mux, deps)

	httpLog := logger.With().Str("component", "http").Logger()
	root := middleware.Chain(
		mux,
		middleware.RequestLogger(httpLog),
		middleware.Recover(httpLog),
	)

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           root,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ErrorLog:          stdLogger(httpLog),
		},
	}
}

// Handler exposes the root handler so tests can mount it on httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
