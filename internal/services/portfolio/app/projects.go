package app

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
	"github.com/mnasrulloh/portfolio/internal/platform/otel"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/ogimage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/uploads"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ImageResolver finds a preview image for a project link.
type ImageResolver interface {
	Resolve(ctx context.Context, pageURL string) ogimage.Result
}

// ImageUpload is an image file attached to a project form.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ProjectInput is the admin-submitted part of a project.
type ProjectInput struct {
	Name        string
	Link        string
	Description string
	// Image is nil when no file was attached.
	Image *ImageUpload
}

// ProjectService keeps project records and their English mirrors in sync.
type ProjectService struct {
	store  storage.ProjectStore
	text   content.TextTranslator
	images ImageResolver
	sink   uploads.Sink
}

// NewProjectService wires the project store with its collaborators.
func NewProjectService(store storage.ProjectStore, text content.TextTranslator, images ImageResolver, sink uploads.Sink) *ProjectService {
	return &ProjectService{store: store, text: text, images: images, sink: sink}
}

// NormalizeLink trims link and adds https:// when it has no http(s) scheme.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	return "https://" + link
}

func (in ProjectInput) normalize() (ProjectInput, error) {
	out := ProjectInput{
		Name:        strings.TrimSpace(in.Name),
		Link:        NormalizeLink(in.Link),
		Description: strings.TrimSpace(in.Description),
		Image:       in.Image,
	}
	if out.Name == "" || out.Link == "" || out.Description == "" {
		return ProjectInput{}, apperrors.Validation(MsgProjectFieldsRequired)
	}
	if out.Image != nil {
		if !uploads.AllowedType(out.Image.ContentType) {
			return ProjectInput{}, apperrors.Validation(MsgImageFormat)
		}
		if len(out.Image.Data) > uploads.MaxImageBytes {
			return ProjectInput{}, apperrors.Validation(MsgImageTooLarge)
		}
	}
	return out, nil
}

// ListProjects returns all projects newest first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]storage.Project, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("project service is not configured")
	}
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, storeError("list projects", err)
	}
	return projects, nil
}

// CreateProject validates in, translates its text, resolves its image and
// stores the record in one write.
func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput) (storage.Project, error) {
	if s == nil || s.store == nil {
		return storage.Project{}, errors.New("project service is not configured")
	}
	in, err := in.normalize()
	if err != nil {
		return storage.Project{}, err
	}

	ctx, span := otel.Tracer("app").Start(ctx, "projects.Create")
	defer span.End()

	derived, err := s.derive(ctx, in, "")
	if err != nil {
		span.RecordError(err)
		return storage.Project{}, err
	}
	span.SetAttributes(attribute.Bool("project.uploaded", derived.uploaded))

	project, err := s.store.CreateProject(ctx, storage.Project{
		Name:          in.Name,
		NameEn:        derived.nameEn,
		Description:   in.Description,
		DescriptionEn: derived.descriptionEn,
		Link:          in.Link,
		ImageURL:      derived.imageURL,
	})
	if err != nil {
		span.RecordError(err)
		s.discardUpload(ctx, derived)
		return storage.Project{}, storeError("create project", err)
	}
	return project, nil
}

// UpdateProject rewrites project id from in. Without a new image the stored
// one is kept, or scraped from the link when the project has none.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, in ProjectInput) (storage.Project, error) {
	if s == nil || s.store == nil {
		return storage.Project{}, errors.New("project service is not configured")
	}
	if id <= 0 {
		return storage.Project{}, apperrors.Validation(MsgInvalidID)
	}
	in, err := in.normalize()
	if err != nil {
		return storage.Project{}, err
	}

	ctx, span := otel.Tracer("app").Start(ctx, "projects.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("project.id", id))

	existing, err := s.store.GetProject(ctx, id)
	if err != nil {
		return storage.Project{}, storeError("get project", err)
	}

	derived, err := s.derive(ctx, in, existing.ImageURL)
	if err != nil {
		span.RecordError(err)
		return storage.Project{}, err
	}
	span.SetAttributes(attribute.Bool("project.uploaded", derived.uploaded))

	project, err := s.store.UpdateProject(ctx, storage.Project{
		ID:            id,
		Name:          in.Name,
		NameEn:        derived.nameEn,
		Description:   in.Description,
		DescriptionEn: derived.descriptionEn,
		Link:          in.Link,
		ImageURL:      derived.imageURL,
	})
	if err != nil {
		span.RecordError(err)
		s.discardUpload(ctx, derived)
		return storage.Project{}, storeError("update project", err)
	}
	if derived.uploaded && existing.ImageURL != "" && existing.ImageURL != project.ImageURL {
		s.removeStoredImage(ctx, existing.ImageURL)
	}
	return project, nil
}

// DeleteProject removes project id and its uploaded image, if any.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	if s == nil || s.store == nil {
		return errors.New("project service is not configured")
	}
	if id <= 0 {
		return apperrors.Validation(MsgInvalidID)
	}
	existing, err := s.store.GetProject(ctx, id)
	if err != nil {
		return storeError("get project", err)
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return storeError("delete project", err)
	}
	s.removeStoredImage(ctx, existing.ImageURL)
	return nil
}

type derivedFields struct {
	nameEn        string
	descriptionEn string
	imageURL      string
	uploaded      bool
}

// derive runs both translations and the image step concurrently. Only the
// upload can fail; translations and scraping degrade in place.
func (s *ProjectService) derive(ctx context.Context, in ProjectInput, existingImage string) (derivedFields, error) {
	var out derivedFields
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		out.nameEn = s.translate(groupCtx, in.Name)
		return nil
	})
	group.Go(func() error {
		out.descriptionEn = s.translate(groupCtx, in.Description)
		return nil
	})
	group.Go(func() error {
		switch {
		case in.Image != nil:
			if s.sink == nil {
				return errors.New("upload store is not configured")
			}
			ext := uploads.Extension(in.Image.FileName, in.Image.ContentType)
			publicPath, err := s.sink.Save(groupCtx, in.Image.Data, ext)
			if err != nil {
				return err
			}
			out.imageURL = publicPath
			out.uploaded = true
		case existingImage != "":
			out.imageURL = existingImage
		case s.images != nil:
			if res := s.images.Resolve(groupCtx, in.Link); res.Found {
				out.imageURL = res.URL
			}
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return derivedFields{}, err
	}
	return out, nil
}

func (s *ProjectService) translate(ctx context.Context, text string) string {
	if s.text == nil {
		return text
	}
	return s.text.TranslateText(ctx, text)
}

func (s *ProjectService) discardUpload(ctx context.Context, derived derivedFields) {
	if !derived.uploaded {
		return
	}
	s.removeStoredImage(ctx, derived.imageURL)
}

// removeStoredImage deletes an image this service uploaded earlier. Scraped
// and external URLs are left alone.
func (s *ProjectService) removeStoredImage(ctx context.Context, publicPath string) {
	if s.sink == nil {
		return
	}
	if _, ok := uploads.FileName(publicPath); !ok {
		return
	}
	if err := s.sink.Remove(context.WithoutCancel(ctx), publicPath); err != nil {
		log.Printf("remove project image failed path=%s err=%v", publicPath, err)
	}
}
