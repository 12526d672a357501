package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/ogimage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
)

type fakeContentStore struct {
	mu      sync.Mutex
	row     *storage.SiteContent
	err     error
	puts    int
	seedLog []storage.SiteContent
}

func (f *fakeContentStore) GetSiteContent(context.Context) (storage.SiteContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.SiteContent{}, f.err
	}
	if f.row == nil {
		return storage.SiteContent{}, storage.ErrNotFound
	}
	return *f.row, nil
}

func (f *fakeContentStore) EnsureSiteContent(_ context.Context, seed storage.SiteContent) (storage.SiteContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.SiteContent{}, f.err
	}
	if f.row == nil {
		f.seedLog = append(f.seedLog, seed)
		row := seed
		f.row = &row
	}
	return *f.row, nil
}

func (f *fakeContentStore) PutSiteContent(_ context.Context, c storage.SiteContent) (storage.SiteContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.SiteContent{}, f.err
	}
	f.puts++
	c.UpdatedAt = time.Unix(1, 0)
	f.row = &c
	return c, nil
}

type fakeProjectStore struct {
	mu        sync.Mutex
	nextID    int64
	projects  map[int64]storage.Project
	err       error
	writeErr  error
	deleteErr error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[int64]storage.Project{}}
}

func (f *fakeProjectStore) ListProjects(context.Context) ([]storage.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]storage.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeProjectStore) GetProject(_ context.Context, id int64) (storage.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.Project{}, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return storage.Project{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) CreateProject(_ context.Context, p storage.Project) (storage.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.Project{}, f.err
	}
	if f.writeErr != nil {
		return storage.Project{}, f.writeErr
	}
	f.nextID++
	p.ID = f.nextID
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectStore) UpdateProject(_ context.Context, p storage.Project) (storage.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return storage.Project{}, f.writeErr
	}
	if _, ok := f.projects[p.ID]; !ok {
		return storage.Project{}, storage.ErrNotFound
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectStore) DeleteProject(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

type recordingTranslator struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingTranslator) TranslateText(_ context.Context, text string) string {
	r.mu.Lock()
	r.calls = append(r.calls, text)
	r.mu.Unlock()
	return "en:" + text
}

func (r *recordingTranslator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

var _ content.TextTranslator = (*recordingTranslator)(nil)

type fakeResolver struct {
	mu    sync.Mutex
	url   string
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, pageURL string) ogimage.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageURL)
	if f.url == "" {
		return ogimage.Result{Reason: "no_match"}
	}
	return ogimage.Result{URL: f.url, Found: true}
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSink struct {
	mu      sync.Mutex
	n       int
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newFakeSink() *fakeSink {
	return &fakeSink{saved: map[string][]byte{}}
}

func (f *fakeSink) Save(_ context.Context, data []byte, ext string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.n++
	path := fmt.Sprintf("/uploads/projects/project-%d%s", f.n, ext)
	f.saved[path] = data
	return path, nil
}

func (f *fakeSink) Remove(_ context.Context, publicPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasPrefix(publicPath, "/uploads/projects/") {
		return errors.New("foreign path")
	}
	f.removed = append(f.removed, publicPath)
	delete(f.saved, publicPath)
	return nil
}

func (f *fakeSink) removedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}
