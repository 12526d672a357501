// Package storage defines persistence contracts for portfolio content and
// project records.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable indicates the schema is not in place yet.
	ErrUnavailable = errors.New("storage not initialized")
)

// SiteContent is the singleton bilingual document row. Both locales are
// stored as serialized JSON.
type SiteContent struct {
	Source     string
	Translated string
	UpdatedAt  time.Time
}

// Project is one portfolio entry with both locales of its text fields.
type Project struct {
	ID            int64
	Name          string
	NameEn        string
	Description   string
	DescriptionEn string
	Link          string
	// ImageURL is empty when the project has no image.
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentStore persists the site content document.
type ContentStore interface {
	// GetSiteContent returns the stored row or ErrNotFound.
	GetSiteContent(ctx context.Context) (SiteContent, error)
	// EnsureSiteContent inserts seed when no row exists and returns the
	// stored row either way.
	EnsureSiteContent(ctx context.Context, seed SiteContent) (SiteContent, error)
	// PutSiteContent writes both locales in one statement and returns the
	// stored row.
	PutSiteContent(ctx context.Context, content SiteContent) (SiteContent, error)
}

// ProjectStore persists project records.
type ProjectStore interface {
	// ListProjects returns projects newest first.
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	// CreateProject inserts a project and returns it with its assigned ID.
	CreateProject(ctx context.Context, project Project) (Project, error)
	// UpdateProject overwrites the mutable fields of project.ID and returns
	// the stored row, or ErrNotFound.
	UpdateProject(ctx context.Context, project Project) (Project, error)
	DeleteProject(ctx context.Context, id int64) error
}
