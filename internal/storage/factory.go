package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gelehaus/tryon/internal/infra"
)

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg infra.StoreConfig, httpClient *http.Client, logger *infra.Logger) (Store, error) {
	switch cfg.Backend {
	case infra.StoreCloudinary:
		return NewCloudinaryStore(CloudinaryOptions{
			CloudName:  cfg.Cloudinary.CloudName,
			APIKey:     cfg.Cloudinary.APIKey,
			APISecret:  cfg.Cloudinary.APISecret,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	case infra.StoreS3:
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			HTTPClient:      httpClient,
			Logger:          logger,
		})
	case infra.StoreFilesystem:
		return NewFileStore(cfg.Filesystem.Path, cfg.Filesystem.BaseURL, httpClient)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
