package tryon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/storage"
)

// Options wires a Pipeline. Everything is constructed once at startup.
type Options struct {
	Provider   Provider
	Store      storage.Store
	Resolver   *Resolver
	Setting    prompt.Setting
	FolderRoot string
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Pipeline is the single try-on flow, parameterized by its provider. It holds
// no per-request state and is safe for concurrent use.
type Pipeline struct {
	provider  Provider
	store     storage.Store
	resolver  *Resolver
	publisher *Publisher
	setting   prompt.Setting
	folder    string
	timeout   time.Duration
	logger    *infra.Logger
}

func NewPipeline(opts Options) (*Pipeline, error) {
	switch {
	case opts.Provider == nil:
		return nil, errors.New("tryon: provider is required")
	case opts.Store == nil:
		return nil, errors.New("tryon: image store is required")
	case opts.Resolver == nil:
		return nil, errors.New("tryon: resolver is required")
	}
	root := opts.FolderRoot
	if root == "" {
		root = "try-on"
	}
	return &Pipeline{
		provider:  opts.Provider,
		store:     opts.Store,
		resolver:  opts.Resolver,
		publisher: NewPublisher(opts.Store, root),
		setting:   opts.Setting,
		folder:    root,
		timeout:   opts.Timeout,
		logger:    infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// ProviderName reports the configured provider.
func (p *Pipeline) ProviderName() string { return p.provider.Name() }

// Variation describes the active prompt mode.
func (p *Pipeline) Variation() string { return p.setting.Variation() }

// Preflight fails with a ConfigurationError when the provider or the store
// cannot run. It makes no network calls.
func (p *Pipeline) Preflight() error {
	if !p.provider.HasCredentials() {
		return &domain.ConfigurationError{Component: p.provider.Name(), Message: "API configuration error"}
	}
	if !p.store.HasCredentials() {
		return &domain.ConfigurationError{Component: p.store.Name(), Message: "Image upload configuration error"}
	}
	return nil
}

// Run executes one try-on. Stages run strictly in order and the first failure
// is returned as-is.
func (p *Pipeline) Run(ctx context.Context, req domain.TryOnRequest) (*domain.TryOnResult, error) {
	req.UserImage = strings.TrimSpace(req.UserImage)
	req.StyleID = strings.TrimSpace(req.StyleID)
	if req.UserImage == "" || req.StyleID == "" {
		return nil, &domain.ValidationError{}
	}
	if err := p.Preflight(); err != nil {
		return nil, err
	}
	style, err := p.resolver.Style(req.StyleID)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	log := p.logger.With().
		Str("request_id", req.RequestID).
		Str("style_id", style.ID).
		Str("provider", p.provider.Name()).
		Logger()
	started := time.Now()

	log.Debug().Str("stage", "upload_user").Msg("tryon: uploading user photo")
	userObj, err := p.store.Upload(ctx, storage.FromString(req.UserImage), storage.UploadOptions{
		Folder:   p.folder,
		PublicID: storage.NewPublicID("try-on"),
	})
	if err != nil {
		log.Error().Err(err).Str("stage", "upload_user").Msg("tryon: user photo upload failed")
		return nil, err
	}

	log.Debug().Str("stage", "resolve_reference").Msg("tryon: resolving reference")
	refURL, err := p.resolver.ResolveStyle(ctx, style, req.StyleReferenceURL, p.provider.ReferenceFolder())
	if err != nil {
		log.Error().Err(err).Str("stage", "resolve_reference").Msg("tryon: reference resolution failed")
		return nil, err
	}

	instruction := prompt.Build(prompt.Request{
		StyleName:   style.Name,
		ColorDetail: style.ColorDetail,
		Setting:     p.setting,
		Dialect:     p.provider.Dialect(),
	})

	log.Debug().Str("stage", "generate").Str("reference_url", refURL).Msg("tryon: calling provider")
	out, err := p.provider.Generate(ctx, GenerateInput{
		UserImageURL: userObj.URL,
		ReferenceURL: refURL,
		Prompt:       instruction,
		StyleName:    style.Name,
		RequestID:    req.RequestID,
	})
	if err != nil {
		log.Error().Err(err).Str("stage", "generate").Msg("tryon: generation failed")
		return nil, err
	}

	resultURL, err := p.publisher.Publish(ctx, out, "result-"+p.provider.Name())
	if err != nil {
		log.Error().Err(err).Str("stage", "publish").Msg("tryon: result upload failed")
		return nil, err
	}
	log.Info().Dur("elapsed", time.Since(started)).Str("result_url", resultURL).Msg("tryon: completed")

	return &domain.TryOnResult{
		ResultImage:  resultURL,
		Message:      p.provider.Message() + " - " + p.setting.Variation(),
		UserImageURL: userObj.URL,
		ReferenceURL: refURL,
		Provider:     p.provider.Name(),
		StyleID:      style.ID,
	}, nil
}
