// Package server exposes msaview sessions over HTTP.
//
// A client uploads FASTA text, receives a session ID and then drives the
// session's viewport with pan, zoom and position requests. Residue tiles
// and consensus chunks are served as raw bytes for upload into textures;
// the view endpoint returns the layout, the deep-link position and the
// camera matrices needed to draw them.
//
// # Routes
//
//	POST   /sessions                    create from a FASTA body
//	GET    /sessions/{id}               alignment summary
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/fasta         the parsed alignment as FASTA
//	GET    /sessions/{id}/tiles         tile map
//	GET    /sessions/{id}/tiles/{index} residue bytes of one tile
//	GET    /sessions/{id}/consensus/{chunk}
//	GET    /sessions/{id}/view          layout, position and matrices
//	POST   /sessions/{id}/pan
//	POST   /sessions/{id}/zoom
//	PUT    /sessions/{id}/position
//	POST   /sessions/{id}/resize
//	POST   /sessions/{id}/reset
//	POST   /sessions/{id}/scroll        drag a thumb or page a track
//	GET    /sessions/{id}/hover?x=&y=
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/msaview/pkg/config"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/upload"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Config   config.Config
	Store    session.Store    // nil creates a MemoryStore with Config.Server.SessionTTL
	Uploader *upload.Uploader // nil serves tiles without a cache
	Logger   *log.Logger      // nil uses log.Default
}

// Server serves the HTTP API.
type Server struct {
	cfg      config.Config
	store    session.Store
	uploader *upload.Uploader
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		store:    opts.Store,
		uploader: opts.Uploader,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(s.cfg.Server.SessionTTL)
	}
	if s.uploader == nil {
		s.uploader = &upload.Uploader{Logger: s.logger}
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleDelete)
			r.Get("/fasta", s.handleFASTA)
			r.Get("/tiles", s.handleTiles)
			r.Get("/tiles/{index}", s.handleTile)
			r.Get("/consensus/{chunk}", s.handleConsensus)
			r.Get("/view", s.handleView)
			r.Post("/pan", s.handlePan)
			r.Post("/zoom", s.handleZoom)
			r.Put("/position", s.handlePosition)
			r.Post("/resize", s.handleResize)
			r.Post("/reset", s.handleReset)
			r.Post("/scroll", s.handleScroll)
			r.Get("/hover", s.handleHover)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully. Expired sessions are dropped once a minute.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) cleanupLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
