package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
)

const projectColumns = `id, name, name_en, description, description_en, link, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (storage.Project, error) {
	var (
		project   storage.Project
		imageURL  sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.NameEn,
		&project.Description,
		&project.DescriptionEn,
		&project.Link,
		&imageURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Project{}, err
	}
	project.ImageURL = imageURL.String
	project.CreatedAt = fromMillis(createdAt)
	project.UpdatedAt = fromMillis(updatedAt)
	return project, nil
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// ListProjects returns projects newest first.
func (s *Store) ListProjects(ctx context.Context) ([]storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+projectColumns+`
		   FROM projects
		  ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapError("list projects", err)
	}
	defer rows.Close()

	projects := make([]storage.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list projects", err)
	}
	return projects, nil
}

// GetProject returns one project by ID.
func (s *Store) GetProject(ctx context.Context, id int64) (storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		return storage.Project{}, mapError("get project", err)
	}
	return project, nil
}

// CreateProject inserts one project.
func (s *Store) CreateProject(ctx context.Context, project storage.Project) (storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	createdAt := project.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	updatedAt := project.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO projects (name, name_en, description, description_en, link, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+projectColumns,
		project.Name,
		project.NameEn,
		project.Description,
		project.DescriptionEn,
		project.Link,
		nullableString(project.ImageURL),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	stored, err := scanProject(row)
	if err != nil {
		return storage.Project{}, mapError("create project", err)
	}
	return stored, nil
}

// UpdateProject overwrites the mutable fields of one project.
func (s *Store) UpdateProject(ctx context.Context, project storage.Project) (storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	if project.ID <= 0 {
		return storage.Project{}, fmt.Errorf("project id is required")
	}
	updatedAt := project.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`UPDATE projects
		    SET name = ?, name_en = ?, description = ?, description_en = ?,
		        link = ?, image_url = ?, updated_at = ?
		  WHERE id = ?
		 RETURNING `+projectColumns,
		project.Name,
		project.NameEn,
		project.Description,
		project.DescriptionEn,
		project.Link,
		nullableString(project.ImageURL),
		toMillis(updatedAt),
		project.ID,
	)
	stored, err := scanProject(row)
	if err != nil {
		return storage.Project{}, mapError("update project", err)
	}
	return stored, nil
}

// DeleteProject removes one project.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return mapError("delete project", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
