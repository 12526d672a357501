// Package httpapi exposes the portfolio over JSON HTTP.
package httpapi

import (
	"context"
	"log"
	"net/http"

	"github.com/mnasrulloh/portfolio/internal/services/portfolio/app"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/session"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/uploads"
)

// ContentService is the content use-case surface the handlers need.
type ContentService interface {
	GetContent(ctx context.Context) (content.Document, error)
	SaveContent(ctx context.Context, source content.Value) (content.Document, error)
	PublicContent(ctx context.Context) (app.PublicView, error)
}

// ProjectService is the project use-case surface the handlers need.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]storage.Project, error)
	CreateProject(ctx context.Context, in app.ProjectInput) (storage.Project, error)
	UpdateProject(ctx context.Context, id int64, in app.ProjectInput) (storage.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Authenticator checks credentials and manages the admin session cookie.
type Authenticator interface {
	ValidateCredentials(email, password string) bool
	Issue(email string) (string, error)
	Authenticate(r *http.Request) (session.Claims, bool)
	WriteCookie(w http.ResponseWriter, token string)
	ClearCookie(w http.ResponseWriter)
}

// Config wires the handler dependencies.
type Config struct {
	Content  ContentService
	Projects ProjectService
	Auth     Authenticator
	// UploadDir is served under uploads.PublicPrefix. Empty disables it.
	UploadDir string
	Logger    *log.Logger
}

type handlers struct {
	content  ContentService
	projects ProjectService
	auth     Authenticator
}

// NewHandler builds the root HTTP handler with the standard middleware.
func NewHandler(cfg Config) http.Handler {
	h := &handlers{content: cfg.Content, projects: cfg.Projects, auth: cfg.Auth}
	admin := RequireAdmin(cfg.Auth)

	mux := http.NewServeMux()
	mux.HandleFunc("/content", h.publicContent)
	mux.Handle("/admin/content", admin(http.HandlerFunc(h.adminContent)))
	mux.HandleFunc("/admin/projects", func(w http.ResponseWriter, r *http.Request) {
		// Preflight stays public.
		if r.Method == http.MethodOptions {
			writeOK(w)
			return
		}
		admin(http.HandlerFunc(h.adminProjects)).ServeHTTP(w, r)
	})
	mux.HandleFunc("/admin/login", h.login)
	mux.HandleFunc("/admin/logout", h.logout)
	if cfg.UploadDir != "" {
		mux.Handle(uploads.PublicPrefix+"/", uploadFiles(cfg.UploadDir))
	}

	return Chain(mux,
		RecoverPanic(),
		RequestID(),
		RequestLogger(cfg.Logger),
	)
}

// uploadFiles serves stored images without directory listings.
func uploadFiles(dir string) http.Handler {
	files := http.StripPrefix(uploads.PublicPrefix+"/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			MethodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		if _, ok := uploads.FileName(r.URL.Path); !ok {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
