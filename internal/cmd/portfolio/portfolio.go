// Package portfolio parses portfolio command flags and launches the service.
package portfolio

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/mnasrulloh/portfolio/internal/platform/cmd"
	"github.com/mnasrulloh/portfolio/internal/platform/config"
	"github.com/mnasrulloh/portfolio/internal/platform/timeouts"
	portfolioserver "github.com/mnasrulloh/portfolio/internal/services/portfolio"
)

// Config holds portfolio command configuration.
type Config struct {
	HTTPAddr    string `env:"PORTFOLIO_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath      string `env:"PORTFOLIO_DB_PATH" envDefault:"data/portfolio.db"`
	AutoMigrate bool   `env:"PORTFOLIO_DB_AUTO_MIGRATE" envDefault:"true"`
	UploadDir   string `env:"PORTFOLIO_UPLOAD_DIR" envDefault:"public/uploads/projects"`

	TranslateURL         string        `env:"PORTFOLIO_TRANSLATE_API_URL"`
	TranslateAPIKey      string        `env:"PORTFOLIO_TRANSLATE_API_KEY"`
	TranslateConcurrency int           `env:"PORTFOLIO_TRANSLATE_CONCURRENCY" envDefault:"8"`
	OGTimeout            time.Duration `env:"PORTFOLIO_OG_TIMEOUT"`

	AuthSecret    string `env:"PORTFOLIO_AUTH_SECRET"`
	AdminEmail    string `env:"PORTFOLIO_ADMIN_EMAIL"`
	AdminPassword string `env:"PORTFOLIO_ADMIN_PASSWORD"`
	SecureCookies bool   `env:"PORTFOLIO_SECURE_COOKIES" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.OGTimeout <= 0 {
		cfg.OGTimeout = timeouts.OGFetch
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&cfg.AutoMigrate, "db-auto-migrate", cfg.AutoMigrate, "Apply schema migrations at startup")
	fs.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "Directory for uploaded project images")
	fs.StringVar(&cfg.TranslateURL, "translate-api-url", cfg.TranslateURL, "Translation API endpoint")
	fs.IntVar(&cfg.TranslateConcurrency, "translate-concurrency", cfg.TranslateConcurrency, "Maximum in-flight translation requests")
	fs.DurationVar(&cfg.OGTimeout, "og-timeout", cfg.OGTimeout, "Timeout for fetching project pages")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Mark the admin session cookie Secure")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the portfolio service and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	if err := config.RequireValues(map[string]string{
		"PORTFOLIO_AUTH_SECRET": cfg.AuthSecret,
	}); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePortfolio, func(ctx context.Context) error {
		server, err := portfolioserver.NewServer(ctx, portfolioserver.Config{
			HTTPAddr:             cfg.HTTPAddr,
			DBPath:               cfg.DBPath,
			AutoMigrate:          cfg.AutoMigrate,
			UploadDir:            cfg.UploadDir,
			TranslateURL:         cfg.TranslateURL,
			TranslateAPIKey:      cfg.TranslateAPIKey,
			TranslateConcurrency: cfg.TranslateConcurrency,
			OGTimeout:            cfg.OGTimeout,
			AuthSecret:           cfg.AuthSecret,
			AdminEmail:           cfg.AdminEmail,
			AdminPassword:        cfg.AdminPassword,
			SecureCookies:        cfg.SecureCookies,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}
