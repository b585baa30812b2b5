// Package server exposes archived snapshots and inspection sessions
// over HTTP/JSON.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/unwind/session"
	"github.com/chazu/unwind/store"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("unwind.server")

// Server is the inspection server wrapping a snapshot archive.
type Server struct {
	archive  *store.Archive
	sessions *session.Store
	mux      *http.ServeMux

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	sessions *session.Store
}

// WithSessionStore sets the session store. Without this, the server
// creates its own empty store.
func WithSessionStore(s *session.Store) Option {
	return func(c *serverConfig) { c.sessions = s }
}

// New creates a Server over the given archive.
func New(archive *store.Archive, opts ...Option) *Server {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.sessions == nil {
		cfg.sessions = session.NewStore()
	}

	s := &Server{
		archive:  archive,
		sessions: cfg.sessions,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /v1/snapshots", s.handleArchiveSnapshot)
	s.mux.HandleFunc("GET /v1/snapshots", s.handleListSnapshots)
	s.mux.HandleFunc("GET /v1/snapshots/{id}", s.handleGetSnapshot)
	s.mux.HandleFunc("GET /v1/snapshots/{id}/traceback", s.handleTraceback)
	s.mux.HandleFunc("DELETE /v1/snapshots/{id}", s.handleDeleteSnapshot)

	s.mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("POST /v1/sessions/{id}/move", s.handleMoveSession)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDestroySession)

	return s
}

// Handler returns the server's HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address and blocks.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.mux}
	log.Noticef("inspection server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts down the server, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
