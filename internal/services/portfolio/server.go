// Package portfolio hosts the bilingual portfolio content service.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mnasrulloh/portfolio/internal/platform/timeouts"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/app"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/ogimage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/session"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage/sqlite"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/translate"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/transport/httpapi"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/uploads"
)

// Config defines startup inputs for the portfolio service.
type Config struct {
	HTTPAddr    string
	DBPath      string
	AutoMigrate bool
	UploadDir   string

	TranslateURL         string
	TranslateAPIKey      string
	TranslateConcurrency int
	OGTimeout            time.Duration

	AuthSecret    string
	AdminEmail    string
	AdminPassword string
	SecureCookies bool
}

// Server hosts the portfolio HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
}

// NewServer validates config, opens storage and composes the handler.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	sessions, err := session.NewManager(cfg.AuthSecret, session.Credentials{
		Email:    strings.TrimSpace(cfg.AdminEmail),
		Password: cfg.AdminPassword,
	}, session.WithSecureCookies(cfg.SecureCookies))
	if err != nil {
		return nil, err
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Printf("admin credentials not set; admin login is disabled")
	}

	store, err := openStore(cfg.DBPath, cfg.AutoMigrate)
	if err != nil {
		return nil, err
	}

	handler := newHandler(cfg, store, sessions)
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

func openStore(path string, autoMigrate bool) (*sqlite.Store, error) {
	if dir := filepath.Dir(filepath.Clean(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	if autoMigrate {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return store, nil
	}
	store, err := sqlite.OpenExisting(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}

func newHandler(cfg Config, store *sqlite.Store, sessions *session.Manager) http.Handler {
	translator := translate.NewClient(translate.Config{
		URL:    cfg.TranslateURL,
		APIKey: cfg.TranslateAPIKey,
	}, resty.New())
	resolver := ogimage.NewResolver(resty.New(), cfg.OGTimeout)
	sink := uploads.NewDiskStore(cfg.UploadDir)

	documents := content.NewTranslator(translator, content.WithConcurrency(cfg.TranslateConcurrency))
	return httpapi.NewHandler(httpapi.Config{
		Content:   app.NewContentService(store, store, documents),
		Projects:  app.NewProjectService(store, translator, resolver, sink),
		Auth:      sessions,
		UploadDir: sink.Dir(),
	})
}

// Handler returns the composed root handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("portfolio server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("portfolio listening addr=%s", s.httpAddr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown portfolio http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve portfolio http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}
}
