// Package storage uploads images to a hosted store and hands back public
// URLs the providers can fetch.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gelehaus/tryon/internal/domain"
)

// Store is implemented by every image store backend.
type Store interface {
	Name() string
	HasCredentials() bool
	Upload(ctx context.Context, src Source, opts UploadOptions) (*Object, error)
}

// UploadOptions places an upload. PublicID excludes the folder and extension.
type UploadOptions struct {
	Folder   string
	PublicID string
}

// Object describes an uploaded image.
type Object struct {
	URL   string
	Key   string
	MIME  string
	Bytes int
}

// Folders under the configured root.
const (
	FolderReferences = "references"
	FolderResults    = "results"
	FolderMannequins = "mannequins"
	FolderGarments   = "garments"
)

// Folder joins a sub folder onto root. An empty sub returns root.
func Folder(root, sub string) string {
	root = strings.Trim(root, "/")
	if sub == "" {
		return root
	}
	return path.Join(root, sub)
}

// NewPublicID returns `{prefix}-{unix millis}-{8 hex}`.
func NewPublicID(prefix string) string {
	if prefix == "" {
		prefix = "image"
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

func uploadErr(folder string, err error) error {
	return &domain.UploadError{Folder: folder, Err: err}
}

func normalize(opts UploadOptions) UploadOptions {
	opts.Folder = strings.Trim(strings.TrimSpace(opts.Folder), "/")
	opts.PublicID = strings.TrimSpace(opts.PublicID)
	if opts.PublicID == "" {
		opts.PublicID = NewPublicID("image")
	}
	return opts
}
