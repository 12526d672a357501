package app

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
	"github.com/mnasrulloh/portfolio/internal/platform/locale"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
)

func newContentService(store *fakeContentStore, projects *fakeProjectStore) (*ContentService, *recordingTranslator) {
	text := &recordingTranslator{}
	return NewContentService(store, projects, content.NewTranslator(text)), text
}

func TestGetContentSeedsDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeContentStore{}
	svc, _ := newContentService(store, newFakeProjectStore())

	doc, err := svc.GetContent(context.Background())
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if len(store.seedLog) != 1 {
		t.Fatalf("seed calls = %d, want 1", len(store.seedLog))
	}
	want, _ := content.Defaults().Source.Lookup("nav", "about")
	got, _ := doc.Source.Lookup("nav", "about")
	if mustStr(t, got) != mustStr(t, want) {
		t.Fatalf("nav.about = %q, want %q", mustStr(t, got), mustStr(t, want))
	}

	if _, err := svc.GetContent(context.Background()); err != nil {
		t.Fatalf("GetContent() second call error = %v", err)
	}
	if len(store.seedLog) != 1 {
		t.Fatalf("seed calls = %d, want 1 after second read", len(store.seedLog))
	}
}

func TestGetContentFallsBackPerLocale(t *testing.T) {
	t.Parallel()

	store := &fakeContentStore{row: &storage.SiteContent{Source: `{"nav":{"about":"Tentang"}}`, Translated: `{broken`}}
	svc, _ := newContentService(store, newFakeProjectStore())

	doc, err := svc.GetContent(context.Background())
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	about, _ := doc.Source.Lookup("nav", "about")
	if mustStr(t, about) != "Tentang" {
		t.Fatalf("source nav.about = %q", mustStr(t, about))
	}
	if diff := sameKeys(doc.Translated, content.Defaults().Translated); diff != "" {
		t.Fatalf("translated should be defaults: %s", diff)
	}
}

func TestSaveContentTranslatesAndStoresBoth(t *testing.T) {
	t.Parallel()

	store := &fakeContentStore{}
	svc, text := newContentService(store, newFakeProjectStore())
	source, err := content.Parse([]byte(`{"hero":{"title":"Halo","imageUrl":"/a.png"},"count":2}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	doc, err := svc.SaveContent(context.Background(), source)
	if err != nil {
		t.Fatalf("SaveContent() error = %v", err)
	}
	if store.puts != 1 {
		t.Fatalf("puts = %d, want 1", store.puts)
	}
	title, _ := doc.Translated.Lookup("hero", "title")
	if mustStr(t, title) != "en:Halo" {
		t.Fatalf("translated title = %q", mustStr(t, title))
	}
	image, _ := doc.Translated.Lookup("hero", "imageUrl")
	if mustStr(t, image) != "/a.png" {
		t.Fatalf("translated imageUrl = %q, want verbatim", mustStr(t, image))
	}
	if text.count() != 1 {
		t.Fatalf("translator calls = %d, want 1", text.count())
	}
	if store.row.Source != `{"count":2,"hero":{"imageUrl":"/a.png","title":"Halo"}}` {
		t.Fatalf("stored source = %s", store.row.Source)
	}
}

func TestSaveContentRejectsNonObject(t *testing.T) {
	t.Parallel()

	store := &fakeContentStore{}
	svc, text := newContentService(store, newFakeProjectStore())

	for _, v := range []content.Value{content.Null(), content.String("x"), content.Array()} {
		_, err := svc.SaveContent(context.Background(), v)
		if apperrors.KindOf(err) != apperrors.KindInvalidInput {
			t.Fatalf("SaveContent(%v) kind = %v, want invalid input", v.Kind(), apperrors.KindOf(err))
		}
		if err.Error() != MsgContentRequired {
			t.Fatalf("message = %q", err.Error())
		}
	}
	if store.puts != 0 || text.count() != 0 {
		t.Fatalf("puts=%d translations=%d, want no side effects", store.puts, text.count())
	}
}

func TestContentStoreUnavailable(t *testing.T) {
	t.Parallel()

	store := &fakeContentStore{err: storage.ErrUnavailable}
	svc, _ := newContentService(store, newFakeProjectStore())

	_, err := svc.GetContent(context.Background())
	if apperrors.KindOf(err) != apperrors.KindStoreUnavailable {
		t.Fatalf("kind = %v, want store unavailable", apperrors.KindOf(err))
	}
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatal("expected cause to be kept")
	}
}

func TestPublicContentSplitsProjectsByLocale(t *testing.T) {
	t.Parallel()

	projects := newFakeProjectStore()
	projects.projects[1] = storage.Project{ID: 1, Name: "Nama", NameEn: "Name", Description: "Desk", DescriptionEn: "Desc", Link: "https://a", ImageURL: "/i.png"}
	svc, _ := newContentService(&fakeContentStore{}, projects)

	view, err := svc.PublicContent(context.Background())
	if err != nil {
		t.Fatalf("PublicContent() error = %v", err)
	}
	id := view.Projects["id"]
	en := view.Projects["en"]
	if len(id) != 1 || len(en) != 1 {
		t.Fatalf("projects = %v / %v", id, en)
	}
	if id[0].Name != "Nama" || en[0].Name != "Name" || en[0].Description != "Desc" {
		t.Fatalf("localized = %+v / %+v", id[0], en[0])
	}
	if en[0].Link != id[0].Link || en[0].ImageURL != "/i.png" {
		t.Fatalf("shared fields differ: %+v / %+v", id[0], en[0])
	}
	if _, ok := view.Content["en"]; !ok {
		t.Fatal("expected en content")
	}

	narrowed := view.Narrow(locale.Target)
	if _, ok := narrowed.Content["id"]; ok {
		t.Fatal("narrowed view kept id content")
	}
	if len(narrowed.Projects["en"]) != 1 || len(narrowed.Projects) != 1 {
		t.Fatalf("narrowed projects = %v", narrowed.Projects)
	}
}

func mustStr(t *testing.T, v content.Value) string {
	t.Helper()
	s, ok := v.Str()
	if !ok {
		t.Fatalf("value kind = %v, want string", v.Kind())
	}
	return s
}

func sameKeys(a, b content.Value) string {
	ak, bk := a.Keys(), b.Keys()
	if len(ak) != len(bk) {
		return "key count differs"
	}
	for i := range ak {
		if ak[i] != bk[i] {
			return "key " + ak[i] + " differs"
		}
	}
	return ""
}
