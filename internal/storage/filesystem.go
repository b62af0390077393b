package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists images onto the local filesystem and serves them from
// baseURL. It is intended for development and test environments where a
// hosted store is not available.
type FileStore struct {
	basePath   string
	baseURL    string
	httpClient *http.Client
}

// NewFileStore initializes a FileStore rooted at basePath whose objects are
// reachable under baseURL.
func NewFileStore(basePath, baseURL string, httpClient *http.Client) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FileStore{
		basePath:   basePath,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}, nil
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) Name() string { return "filesystem" }

// HasCredentials is always true; the local disk needs none.
func (s *FileStore) HasCredentials() bool { return s != nil }

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Upload stores the decoded source as {folder}/{publicID}{ext}.
func (s *FileStore) Upload(ctx context.Context, src Source, opts UploadOptions) (*Object, error) {
	opts = normalize(opts)
	if s == nil {
		return nil, uploadErr(opts.Folder, errors.New("storage: no store configured"))
	}
	blob, err := src.Load(ctx, s.httpClient)
	if err != nil {
		return nil, uploadErr(opts.Folder, err)
	}
	key, err := s.Write(ctx, opts.Folder+"/"+opts.PublicID+Extension(blob.MIME), blob.Data)
	if err != nil {
		return nil, uploadErr(opts.Folder, err)
	}
	return &Object{
		URL:   s.baseURL + "/" + key,
		Key:   key,
		MIME:  blob.MIME,
		Bytes: len(blob.Data),
	}, nil
}

// Write persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// Handler serves stored objects read-only.
func (s *FileStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.basePath))
}

// SanitizeKey normalizes a key and prevents escaping the storage root.
func SanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
