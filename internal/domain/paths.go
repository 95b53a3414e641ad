package domain

import (
	"path"
	"strings"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/google/uuid"
)

// DerivePath maps an uploaded filename to the media storage path: its base
// name with directories stripped. Matching is case-sensitive.
func DerivePath(filename string) (string, error) {
	name := strings.TrimSpace(strings.ReplaceAll(filename, `\`, "/"))
	if name == "" {
		return "", apperr.NullField("file")
	}
	base := path.Base(path.Clean("/" + name))
	if base == "/" || base == "." || base == ".." {
		return "", apperr.NullField("file")
	}
	return base, nil
}

// BlobKey addresses media content by id, never by path.
func BlobKey(mediaID uuid.UUID) string {
	return "media/" + mediaID.String()
}
