// Package uploads stores project images and hands back their public paths.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/projects"

// filePrefix starts every stored file name.
const filePrefix = "project-"

// Sink persists image bytes.
type Sink interface {
	// Save writes data under a fresh unique name ending in ext and returns
	// the public path of the stored file.
	Save(ctx context.Context, data []byte, ext string) (string, error)
	// Remove deletes a file previously returned by Save. Missing files are
	// not an error.
	Remove(ctx context.Context, publicPath string) error
}

// DiskStore keeps images in one directory on local disk.
type DiskStore struct {
	dir     string
	newName func() string
}

var _ Sink = (*DiskStore)(nil)

// NewDiskStore returns a store rooted at dir. The directory is created on
// first Save.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		dir:     filepath.Clean(dir),
		newName: func() string { return uuid.NewString() },
	}
}

// Dir returns the directory files are written to.
func (s *DiskStore) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// Save writes data to a new file named project-<uuid><ext>.
func (s *DiskStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.dir == "" {
		return "", fmt.Errorf("upload store is not configured")
	}
	ext = normalizeExt(ext)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := filePrefix + s.newName() + ext
	target := filepath.Join(s.dir, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a file previously returned by Save.
func (s *DiskStore) Remove(ctx context.Context, publicPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.dir == "" {
		return fmt.Errorf("upload store is not configured")
	}
	name, ok := FileName(publicPath)
	if !ok {
		return fmt.Errorf("not an upload path: %q", publicPath)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// FileName extracts the stored file name from a public upload path. It
// rejects anything that would leave the upload directory.
func FileName(publicPath string) (string, bool) {
	rest, ok := strings.CutPrefix(publicPath, PublicPrefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	if strings.ContainsAny(rest, `/\`) || rest == "." || rest == ".." {
		return "", false
	}
	return rest, true
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
