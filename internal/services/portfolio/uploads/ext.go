package uploads

import (
	"path/filepath"
	"strings"
)

// MaxImageBytes is the largest accepted image upload.
const MaxImageBytes = 5 << 20

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// AllowedType reports whether contentType is an accepted image type.
func AllowedType(contentType string) bool {
	_, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// Extension picks the stored file extension: the one in fileName when
// present, otherwise one derived from contentType.
func Extension(fileName, contentType string) string {
	if ext := filepath.Ext(strings.TrimSpace(fileName)); ext != "" && ext != "." {
		return strings.ToLower(ext)
	}
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
