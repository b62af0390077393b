// Package bootstrap wires configuration into the try-on components shared by
// the API server and the operator CLI.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gelehaus/tryon/internal/catalog"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/providers"
	"github.com/gelehaus/tryon/internal/storage"
	"github.com/gelehaus/tryon/internal/tryon"
)

// Overrides replace configuration values for a single run.
type Overrides struct {
	Provider   string
	PromptMode string
}

// Components is everything a request path needs.
type Components struct {
	Catalog    *catalog.Catalog
	Store      storage.Store
	Provider   tryon.Provider
	Resolver   *tryon.Resolver
	Pipeline   *tryon.Pipeline
	Mannequins *tryon.MannequinService
	// Static serves stored objects when the filesystem backend is active.
	Static http.Handler
}

// Build constructs the components once at startup. Missing credentials do
// not fail here; requests report them as configuration errors.
func Build(ctx context.Context, cfg *infra.Config, logger *infra.Logger, o Overrides) (*Components, error) {
	cat := catalog.Default()
	if cfg.TryOn.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.TryOn.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	mode := cfg.TryOn.PromptMode
	if o.PromptMode != "" {
		mode = o.PromptMode
	}
	setting, err := prompt.ParseSetting(mode)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}
	store, err := storage.New(ctx, cfg.Store, httpClient, logger)
	if err != nil {
		return nil, err
	}
	provider, err := providers.New(ctx, cfg, o.Provider, httpClient, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := tryon.NewResolver(tryon.ResolverOptions{
		Catalog:    cat,
		Store:      store,
		AssetsDir:  cfg.TryOn.AssetsDir,
		FolderRoot: cfg.Store.Folder,
		LocalHosts: cfg.TryOn.LocalAssetHosts,
	})
	if err != nil {
		return nil, err
	}
	pipeline, err := tryon.NewPipeline(tryon.Options{
		Provider:   provider,
		Store:      store,
		Resolver:   resolver,
		Setting:    setting,
		FolderRoot: cfg.Store.Folder,
		Timeout:    cfg.TryOn.RequestTimeout,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	mannequins, err := tryon.NewMannequinService(providers.NewConverter(cfg, httpClient, logger), store, resolver, cfg.Store.Folder, logger)
	if err != nil {
		return nil, err
	}

	c := &Components{
		Catalog:    cat,
		Store:      store,
		Provider:   provider,
		Resolver:   resolver,
		Pipeline:   pipeline,
		Mannequins: mannequins,
	}
	if fs, ok := store.(*storage.FileStore); ok {
		c.Static = fs.Handler()
	}
	return c, nil
}

// CredentialReport lists which credentials are present, never their values.
func CredentialReport(cfg *infra.Config) []Credential {
	return []Credential{
		{Component: "gemini", Env: "GEMINI_API_KEY", Present: cfg.Gemini.APIKey != ""},
		{Component: "fal", Env: "FAL_KEY", Present: cfg.Fal.APIKey != ""},
		{Component: "seedream", Env: "SEEDREAM_API_KEY", Present: cfg.Seedream.APIKey != ""},
		{Component: "seedream", Env: "SEEDREAM_API_URL", Present: cfg.Seedream.BaseURL != ""},
		{Component: "cloudinary", Env: "CLOUDINARY_CLOUD_NAME", Present: cfg.Store.Cloudinary.CloudName != ""},
		{Component: "cloudinary", Env: "CLOUDINARY_API_KEY", Present: cfg.Store.Cloudinary.APIKey != ""},
		{Component: "cloudinary", Env: "CLOUDINARY_API_SECRET", Present: cfg.Store.Cloudinary.APISecret != ""},
		{Component: "s3", Env: "S3_BUCKET", Present: cfg.Store.S3.Bucket != ""},
		{Component: "s3", Env: "S3_ACCESS_KEY_ID", Present: cfg.Store.S3.AccessKeyID != ""},
		{Component: "s3", Env: "S3_SECRET_ACCESS_KEY", Present: cfg.Store.S3.SecretAccessKey != ""},
		{Component: "sentry", Env: "SENTRY_DSN", Present: cfg.SentryDSN != ""},
	}
}

// Credential is one row of CredentialReport.
type Credential struct {
	Component string `json:"component"`
	Env       string `json:"env"`
	Present   bool   `json:"present"`
}

// Describe summarises the active deployment for logs and the CLI.
func Describe(c *Components) string {
	return fmt.Sprintf("provider=%s store=%s mode=%s styles=%d", c.Provider.Name(), c.Store.Name(), c.Pipeline.Variation(), c.Catalog.Len())
}
