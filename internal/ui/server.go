// Package ui serves the SiteCounts site: the public pages with the block
// embedded, block fragments and live block updates.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sitecounts/internal/blocks"
	"github.com/leapstack-labs/sitecounts/internal/i18n"
	"github.com/leapstack-labs/sitecounts/internal/state"
	"github.com/leapstack-labs/sitecounts/internal/ui/features/common"
	"github.com/leapstack-labs/sitecounts/internal/ui/notifier"
	"github.com/leapstack-labs/sitecounts/internal/ui/resources"
	"github.com/leapstack-labs/sitecounts/internal/ui/router"
	"github.com/leapstack-labs/sitecounts/pkg/core"
	"golang.org/x/sync/errgroup"
)

// watchDebounce coalesces bursts of writes to the fixtures file.
const watchDebounce = 100 * time.Millisecond

// Server is the site server.
type Server struct {
	store        core.ContentStore
	blocks       *blocks.Registry
	translator   *i18n.Translator
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	fixtures     string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the server.
type Config struct {
	Store         core.ContentStore
	Blocks        *blocks.Registry
	Translator    *i18n.Translator
	Port          int
	SessionSecret string
	Logger        *slog.Logger
	// Watch re-applies FixturesPath whenever it changes.
	Watch        bool
	FixturesPath string
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		store:        cfg.Store,
		blocks:       cfg.Blocks,
		translator:   cfg.Translator,
		sessionStore: common.NewSessionStore(cfg.SessionSecret),
		port:         cfg.Port,
		watch:        cfg.Watch && cfg.FixturesPath != "",
		fixtures:     cfg.FixturesPath,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the HTTP handler with all middleware and routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := common.Deps{
		Store:      s.store,
		Blocks:     s.blocks,
		Translator: s.translator,
		Sessions:   s.sessionStore,
		Notifier:   s.notifier,
		Logger:     s.logger,
		IsDev:      s.IsDev(),
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFixtures(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether the binary was built with the dev tag.
func (s *Server) IsDev() bool {
	return resources.Dev
}

// Notifier returns the server's notifier for live updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFixtures re-applies the fixtures file after every change to it and
// tells open pages to refresh their block.
func (s *Server) watchFixtures(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save; watching the directory survives that.
	target := filepath.Clean(s.fixtures)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch fixtures", "path", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				s.logger.Debug("fixtures changed, re-applying", "file", target)
				s.reloadFixtures(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadFixtures applies the fixtures file and notifies subscribers.
func (s *Server) reloadFixtures(ctx context.Context) {
	f, err := state.LoadFixtures(s.fixtures)
	if err != nil {
		s.logger.Error("failed to load fixtures", "error", err)
		return
	}
	if _, err := state.ApplyFixtures(ctx, s.store, f, s.logger); err != nil {
		s.logger.Error("failed to apply fixtures", "error", err)
		return
	}
	s.notifier.Broadcast("fixtures")
}
