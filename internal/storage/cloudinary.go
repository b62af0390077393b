package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
)

// CloudinaryOptions configures the Cloudinary backend. APIPrefix overrides
// the upload API origin and is only set in tests.
type CloudinaryOptions struct {
	CloudName  string
	APIKey     string
	APISecret  string
	APIPrefix  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// CloudinaryStore uploads through the Cloudinary upload API. Cloudinary may
// re-encode images, so a fetched object is not guaranteed to be byte
// identical to the upload.
type CloudinaryStore struct {
	cld        *cloudinary.Cloudinary
	httpClient *http.Client
	logger     *infra.Logger
}

var _ Store = (*CloudinaryStore)(nil)

// NewCloudinaryStore builds the client when all three credentials are set.
func NewCloudinaryStore(opts CloudinaryOptions) (*CloudinaryStore, error) {
	store := &CloudinaryStore{
		httpClient: opts.HTTPClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
	if store.httpClient == nil {
		store.httpClient = http.DefaultClient
	}
	if opts.CloudName == "" || opts.APIKey == "" || opts.APISecret == "" {
		return store, nil
	}
	cfg, err := config.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary config: %w", err)
	}
	cfg.URL.Secure = true
	if prefix := strings.TrimRight(opts.APIPrefix, "/"); prefix != "" {
		cfg.API.UploadPrefix = prefix
	}
	// Every sub-API keeps its own copy, so the config is final before this.
	cld, err := cloudinary.NewFromConfiguration(*cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary client: %w", err)
	}
	store.cld = cld
	return store, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

func (s *CloudinaryStore) HasCredentials() bool { return s != nil && s.cld != nil }

// Upload sends remote URLs as-is for Cloudinary to fetch; every other form is
// decoded, validated and sent as a data URL.
func (s *CloudinaryStore) Upload(ctx context.Context, src Source, opts UploadOptions) (*Object, error) {
	opts = normalize(opts)
	if !s.HasCredentials() {
		return nil, uploadErr(opts.Folder, fmt.Errorf("storage: cloudinary credentials missing: %w", domain.ErrStoreNotConfigured))
	}
	var (
		file any
		mime string
		size int
	)
	if src.Kind() == KindURL {
		file = src.URL
	} else {
		blob, err := src.Load(ctx, s.httpClient)
		if err != nil {
			return nil, uploadErr(opts.Folder, err)
		}
		file = EncodeDataURL(blob.Data, blob.MIME)
		mime, size = blob.MIME, len(blob.Data)
	}
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   opts.Folder,
		PublicID: opts.PublicID,
	})
	if err != nil {
		return nil, uploadErr(opts.Folder, fmt.Errorf("storage: cloudinary upload: %w", err))
	}
	if resp == nil {
		return nil, uploadErr(opts.Folder, errors.New("storage: cloudinary returned no result"))
	}
	if msg := strings.TrimSpace(resp.Error.Message); msg != "" {
		return nil, uploadErr(opts.Folder, fmt.Errorf("storage: cloudinary: %s", msg))
	}
	if resp.SecureURL == "" {
		return nil, uploadErr(opts.Folder, errors.New("storage: cloudinary returned no secure_url"))
	}
	s.logger.Debug().Str("public_id", resp.PublicID).Str("url", resp.SecureURL).Msg("storage: uploaded to cloudinary")
	if size == 0 {
		size = resp.Bytes
	}
	if mime == "" && resp.Format != "" {
		mime = "image/" + resp.Format
	}
	return &Object{URL: resp.SecureURL, Key: resp.PublicID, MIME: mime, Bytes: size}, nil
}
