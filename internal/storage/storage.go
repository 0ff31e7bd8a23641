package storage

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	KindProduction = "production"
	KindPhotos     = "photos"
	KindProcessed  = "processed"
	KindBackground = "backgrounds"

	defaultFilename = "file"
	maxFilenameLen  = 128
)

// ErrObjectNotFound is returned by Fetch when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type Object struct {
	Data        []byte
	ContentType string
}

// BatchResult reports the outcome of a best-effort multi-key delete.
type BatchResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

func (r *BatchResult) Merge(other BatchResult) {
	r.Succeeded = append(r.Succeeded, other.Succeeded...)
	r.Failed = append(r.Failed, other.Failed...)
}

func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// ObjectStore is a put/get/delete/presign boundary over opaque keys.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType, cacheControl string) (UploadResult, error)
	Fetch(ctx context.Context, key string) (Object, error)
	DeleteMany(ctx context.Context, keys []string) BatchResult
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	DeletePrefix(ctx context.Context, prefix string) BatchResult
}

// Key builds {prefix}/{kind}/{id}/{filename}.
func Key(prefix, kind, id, filename string) string {
	return path.Join(strings.Trim(prefix, "/"), kind, strings.ReplaceAll(id, "/", ""), SanitizeFilename(filename))
}

func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return defaultFilename
	}
	if len(name) > maxFilenameLen {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:maxFilenameLen-len(ext)] + ext
	}
	return name
}

// ContentTypeFor guesses a content type from the filename when the client
// did not send one.
func ContentTypeFor(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".zip":
		return "application/zip"
	case ".mp4":
		return "video/mp4"
	}
	return "application/octet-stream"
}
