package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
)

// S3Options configures an S3 compatible bucket (AWS S3 or Cloudflare R2).
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	HTTPClient      *http.Client
	Logger          *infra.Logger
}

// S3Store uploads objects with PutObject and exposes them through a public
// base URL (bucket website, R2 public domain or CDN).
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
	httpClient *http.Client
	logger     *infra.Logger
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds the client. Missing credentials leave the store
// constructed but unusable so the request path can report it.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	store := &S3Store{
		bucket:     strings.TrimSpace(opts.Bucket),
		publicBase: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
	if opts.AccessKeyID == "" || opts.SecretAccessKey == "" || store.bucket == "" {
		return store, nil
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}
	// The SDK keeps its own buildable client so AWS_CA_BUNDLE can extend
	// its root CAs. httpClient only downloads remote sources.
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(httpClient.Timeout)),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(endpoint)
		}
		o.UsePathStyle = true
	})
	if store.publicBase == "" && endpoint != "" {
		store.publicBase = endpoint + "/" + store.bucket
	}
	return store, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) HasCredentials() bool { return s != nil && s.client != nil }

// Upload puts the decoded image at {folder}/{publicID}{ext}. Remote URL
// sources are downloaded first.
func (s *S3Store) Upload(ctx context.Context, src Source, opts UploadOptions) (*Object, error) {
	opts = normalize(opts)
	if !s.HasCredentials() {
		return nil, uploadErr(opts.Folder, fmt.Errorf("storage: s3 credentials missing: %w", domain.ErrStoreNotConfigured))
	}
	blob, err := src.Load(ctx, s.httpClient)
	if err != nil {
		return nil, uploadErr(opts.Folder, err)
	}
	key, err := SanitizeKey(opts.Folder + "/" + opts.PublicID + Extension(blob.MIME))
	if err != nil {
		return nil, uploadErr(opts.Folder, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob.Data),
		ContentType:   aws.String(blob.MIME),
		ContentLength: int64(len(blob.Data)),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, uploadErr(opts.Folder, fmt.Errorf("storage: put object: %w", err))
	}
	s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(blob.Data)).Msg("storage: uploaded object")
	return &Object{
		URL:   s.publicBase + "/" + key,
		Key:   key,
		MIME:  blob.MIME,
		Bytes: len(blob.Data),
	}, nil
}
