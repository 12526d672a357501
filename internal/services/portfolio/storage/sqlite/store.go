// Package sqlite provides a SQLite-backed portfolio storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/mnasrulloh/portfolio/internal/platform/storage/sqlitemigrate"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists portfolio state in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var (
	_ storage.ContentStore = (*Store)(nil)
	_ storage.ProjectStore = (*Store)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite portfolio store and applies embedded migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// OpenExisting opens a SQLite portfolio store without touching its schema.
// Pending migrations are logged; queries against missing tables fail with
// storage.ErrUnavailable.
func OpenExisting(path string) (*Store, error) {
	sqlDB, err := openDB(path)
	if err != nil {
		return nil, err
	}
	pending, err := sqlitemigrate.PendingMigrations(context.Background(), sqlDB, migrations.FS, "")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("check migrations: %w", err)
	}
	if len(pending) > 0 {
		log.Printf("storage schema incomplete path=%s pending=%s", path, strings.Join(pending, ","))
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func openDB(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// GetSiteContent returns the singleton content row.
func (s *Store) GetSiteContent(ctx context.Context) (storage.SiteContent, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SiteContent{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT content_id, content_en, updated_at FROM site_content WHERE id = 1`)
	content, err := scanSiteContent(row)
	if err != nil {
		return storage.SiteContent{}, mapError("get site content", err)
	}
	return content, nil
}

// EnsureSiteContent seeds the content row when it is missing.
func (s *Store) EnsureSiteContent(ctx context.Context, seed storage.SiteContent) (storage.SiteContent, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SiteContent{}, err
	}
	updatedAt := seed.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO site_content (id, content_id, content_en, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		seed.Source, seed.Translated, toMillis(updatedAt),
	)
	if err != nil {
		return storage.SiteContent{}, mapError("seed site content", err)
	}
	return s.GetSiteContent(ctx)
}

// PutSiteContent upserts both locales in one statement.
func (s *Store) PutSiteContent(ctx context.Context, content storage.SiteContent) (storage.SiteContent, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SiteContent{}, err
	}
	updatedAt := content.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO site_content (id, content_id, content_en, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content_id = excluded.content_id,
		   content_en = excluded.content_en,
		   updated_at = excluded.updated_at
		 RETURNING content_id, content_en, updated_at`,
		content.Source, content.Translated, toMillis(updatedAt),
	)
	stored, err := scanSiteContent(row)
	if err != nil {
		return storage.SiteContent{}, mapError("put site content", err)
	}
	return stored, nil
}

func scanSiteContent(row *sql.Row) (storage.SiteContent, error) {
	var content storage.SiteContent
	var updatedAt int64
	if err := row.Scan(&content.Source, &content.Translated, &updatedAt); err != nil {
		return storage.SiteContent{}, err
	}
	content.UpdatedAt = fromMillis(updatedAt)
	return content, nil
}

// mapError translates driver errors into storage sentinels.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if isMissingSchema(err) {
		return fmt.Errorf("%s: %w: %v", op, storage.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isMissingSchema(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff != sqlite3lib.SQLITE_ERROR {
		return false
	}
	return sqlitemigrate.IsMissingTableError(err)
}
