package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
	"github.com/mnasrulloh/portfolio/internal/platform/locale"
	"github.com/mnasrulloh/portfolio/internal/platform/otel"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ContentService reads and writes the bilingual site document.
type ContentService struct {
	store      storage.ContentStore
	projects   storage.ProjectStore
	translator *content.Translator
}

// NewContentService wires the content store, the project store used by the
// public view, and the document translator.
func NewContentService(store storage.ContentStore, projects storage.ProjectStore, translator *content.Translator) *ContentService {
	return &ContentService{store: store, projects: projects, translator: translator}
}

// GetContent returns both locales, seeding the store from the built-in
// defaults on first use. A locale that no longer parses is replaced by its
// default.
func (s *ContentService) GetContent(ctx context.Context) (content.Document, error) {
	if s == nil || s.store == nil {
		return content.Document{}, errors.New("content service is not configured")
	}
	seed, err := encodeDocument(content.Defaults())
	if err != nil {
		return content.Document{}, err
	}
	row, err := s.store.EnsureSiteContent(ctx, seed)
	if err != nil {
		return content.Document{}, storeError("load content", err)
	}
	return decodeDocument(row), nil
}

// SaveContent stores source as the Indonesian document and derives the
// English mirror from it. Both locales are written together.
func (s *ContentService) SaveContent(ctx context.Context, source content.Value) (content.Document, error) {
	if s == nil || s.store == nil || s.translator == nil {
		return content.Document{}, errors.New("content service is not configured")
	}
	if source.Kind() != content.KindObject {
		return content.Document{}, apperrors.Validation(MsgContentRequired)
	}

	ctx, span := otel.Tracer("app").Start(ctx, "content.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("content.sections", source.Len()))

	translated := s.translator.Translate(ctx, source)
	row, err := encodeDocument(content.Document{Source: source, Translated: translated})
	if err != nil {
		return content.Document{}, err
	}
	stored, err := s.store.PutSiteContent(ctx, row)
	if err != nil {
		span.RecordError(err)
		return content.Document{}, storeError("save content", err)
	}
	return decodeDocument(stored), nil
}

// LocalizedProject is a project as shown to visitors of one locale.
type LocalizedProject struct {
	ID          int64
	Name        string
	Description string
	Link        string
	ImageURL    string
}

// PublicView is the visitor payload keyed by locale ("id", "en").
type PublicView struct {
	Content  map[string]content.Value
	Projects map[string][]LocalizedProject
}

// Narrow keeps only the given locale.
func (v PublicView) Narrow(tag language.Tag) PublicView {
	key := locale.Key(tag)
	out := PublicView{
		Content:  map[string]content.Value{},
		Projects: map[string][]LocalizedProject{},
	}
	if doc, ok := v.Content[key]; ok {
		out.Content[key] = doc
	}
	if projects, ok := v.Projects[key]; ok {
		out.Projects[key] = projects
	}
	return out
}

// PublicContent returns the document and the project list split by locale.
func (s *ContentService) PublicContent(ctx context.Context) (PublicView, error) {
	if s == nil || s.projects == nil {
		return PublicView{}, errors.New("content service is not configured")
	}
	var (
		doc      content.Document
		projects []storage.Project
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		doc, err = s.GetContent(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		projects, err = s.projects.ListProjects(groupCtx)
		return storeError("list projects", err)
	})
	if err := group.Wait(); err != nil {
		return PublicView{}, err
	}

	source, target := locale.Key(locale.Source), locale.Key(locale.Target)
	view := PublicView{
		Content: map[string]content.Value{
			source: doc.Source,
			target: doc.Translated,
		},
		Projects: map[string][]LocalizedProject{
			source: make([]LocalizedProject, 0, len(projects)),
			target: make([]LocalizedProject, 0, len(projects)),
		},
	}
	for _, p := range projects {
		view.Projects[source] = append(view.Projects[source], LocalizedProject{
			ID: p.ID, Name: p.Name, Description: p.Description, Link: p.Link, ImageURL: p.ImageURL,
		})
		view.Projects[target] = append(view.Projects[target], LocalizedProject{
			ID: p.ID, Name: p.NameEn, Description: p.DescriptionEn, Link: p.Link, ImageURL: p.ImageURL,
		})
	}
	return view, nil
}

func encodeDocument(doc content.Document) (storage.SiteContent, error) {
	source, err := json.Marshal(doc.Source)
	if err != nil {
		return storage.SiteContent{}, fmt.Errorf("encode source content: %w", err)
	}
	translated, err := json.Marshal(doc.Translated)
	if err != nil {
		return storage.SiteContent{}, fmt.Errorf("encode translated content: %w", err)
	}
	return storage.SiteContent{Source: string(source), Translated: string(translated)}, nil
}

func decodeDocument(row storage.SiteContent) content.Document {
	defaults := content.Defaults()
	source, ok := content.ParseOr(row.Source, defaults.Source)
	if !ok {
		log.Printf("stored content unreadable locale=%s, using defaults", locale.Key(locale.Source))
	}
	translated, ok := content.ParseOr(row.Translated, defaults.Translated)
	if !ok {
		log.Printf("stored content unreadable locale=%s, using defaults", locale.Key(locale.Target))
	}
	return content.Document{Source: source, Translated: translated}
}
