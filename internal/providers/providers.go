// Package providers builds the generative backend selected for a deployment.
package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/providers/fal"
	"github.com/gelehaus/tryon/internal/providers/gemini"
	"github.com/gelehaus/tryon/internal/providers/seedream"
	"github.com/gelehaus/tryon/internal/tryon"
)

// New returns the provider named by cfg.TryOn.Provider. Missing credentials
// are not an error; the returned provider reports HasCredentials false.
func New(ctx context.Context, cfg *infra.Config, name string, httpClient *http.Client, logger *infra.Logger) (tryon.Provider, error) {
	if name == "" {
		name = cfg.TryOn.Provider
	}
	switch name {
	case infra.ProviderGemini:
		return gemini.New(ctx, gemini.Options{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			BaseURL:    cfg.Gemini.BaseURL,
			HTTPClient: httpClient,
			Logger:     scoped(logger, name),
		})
	case infra.ProviderFashn:
		return fal.NewFashn(falClient(cfg, httpClient, scoped(logger, name)), fal.FashnOptions{
			Model: cfg.Fal.FashnModel,
		}), nil
	case infra.ProviderFlux:
		return fal.NewFlux(falClient(cfg, httpClient, scoped(logger, name)), fal.FluxOptions{
			Model: cfg.Fal.FluxModel,
		}), nil
	default:
		return nil, fmt.Errorf("providers: unknown provider %q", name)
	}
}

// NewConverter returns the mannequin conversion client.
func NewConverter(cfg *infra.Config, httpClient *http.Client, logger *infra.Logger) *seedream.Client {
	return seedream.NewClient(seedream.Options{
		APIKey:     cfg.Seedream.APIKey,
		BaseURL:    cfg.Seedream.BaseURL,
		Model:      cfg.Seedream.Model,
		HTTPClient: httpClient,
		Logger:     scoped(logger, "seedream"),
	})
}

func falClient(cfg *infra.Config, httpClient *http.Client, logger *infra.Logger) *fal.Client {
	return fal.NewClient(fal.Options{
		APIKey:       cfg.Fal.APIKey,
		QueueURL:     cfg.Fal.QueueURL,
		PollInterval: cfg.Fal.PollInterval,
		PollTimeout:  cfg.Fal.PollTimeout,
		HTTPClient:   httpClient,
		Logger:       logger,
	})
}

func scoped(logger *infra.Logger, provider string) *infra.Logger {
	if logger == nil {
		return nil
	}
	l := logger.With().Str("provider", provider).Logger()
	return &l
}
