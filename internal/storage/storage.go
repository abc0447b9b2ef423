// Package storage persists submission videos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrObjectNotFound is returned when a key has no stored object.
var ErrObjectNotFound = errors.New("object not found")

// ErrObjectExists is returned when an upload targets a key that is already
// stored. Uploads never overwrite.
var ErrObjectExists = errors.New("object already exists")

// VideoStore uploads a video and returns the URL reviewers use to watch it.
// Upload is create-only and fails with ErrObjectExists for a taken key.
type VideoStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// VideoKey is the object key for a submission's recording.
func VideoKey(submissionID, contentType string) string {
	return fmt.Sprintf("submissions/%s/video%s", submissionID, Extension(contentType))
}

// Extension maps an accepted video MIME type to a file extension.
func Extension(contentType string) string {
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	switch mediaType {
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	default:
		return ".webm"
	}
}
