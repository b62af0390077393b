// Package gemini adapts the Gemini image editing models ("Nano Banana") to
// the try-on provider contract.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/prompt"
	"github.com/gelehaus/tryon/internal/storage"
	"github.com/gelehaus/tryon/internal/tryon"
)

// ErrMissingAPIKey indicates that the adapter was configured without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash-image-preview"
)

// Options configures the Gemini adapter.
type Options struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
}

// Adapter sends the user photo, the reference image and the instruction as
// inline parts of one GenerateContent call.
type Adapter struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
	genConfig  *genai.GenerateContentConfig
	logger     *infra.Logger
}

var _ tryon.Provider = (*Adapter)(nil)

// New constructs the adapter. Without an API key the adapter is returned
// unusable and HasCredentials reports false.
func New(ctx context.Context, opts Options) (*Adapter, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.4
	}
	topK := opts.TopK
	if topK == 0 {
		topK = 32
	}
	topP := opts.TopP
	if topP == 0 {
		topP = 1
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	a := &Adapter{
		model:      model,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
		genConfig: &genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			Temperature:        genai.Ptr(temperature),
			TopK:               genai.Ptr(topK),
			TopP:               genai.Ptr(topP),
			MaxOutputTokens:    maxTokens,
		},
	}
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return a, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	a.client = client
	return a, nil
}

func (a *Adapter) Name() string { return providerName }

// HasCredentials reports whether the adapter can perform remote calls.
func (a *Adapter) HasCredentials() bool { return a.client != nil }

func (a *Adapter) Dialect() prompt.Dialect { return prompt.MultiImage }

func (a *Adapter) ReferenceFolder() string { return storage.FolderReferences }

func (a *Adapter) Message() string {
	return "Virtual try-on completed with Google Gemini (Nano Banana)"
}

// Model returns the configured model identifier.
func (a *Adapter) Model() string { return a.model }

// Generate downloads both images, sends them inline and extracts the first
// inline image of the response.
func (a *Adapter) Generate(ctx context.Context, in tryon.GenerateInput) (*tryon.GenerateOutput, error) {
	if !a.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, &domain.GenerationError{Provider: providerName, Message: "Prompt is empty", Reason: domain.ReasonMalformed}
	}
	user, err := a.fetch(ctx, in.UserImageURL)
	if err != nil {
		return nil, inputErr("user image", err)
	}
	ref, err := a.fetch(ctx, in.ReferenceURL)
	if err != nil {
		return nil, inputErr("reference image", err)
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: user.MIME, Data: user.Data}},
		{InlineData: &genai.Blob{MIMEType: ref.MIME, Data: ref.Data}},
		genai.NewPartFromText(in.Prompt),
	}
	started := time.Now()
	resp, err := a.client.Models.GenerateContent(ctx, a.model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, a.genConfig)
	if err != nil {
		reason := domain.ReasonUpstream
		if ctx.Err() != nil {
			reason = domain.ReasonTimeout
		}
		return nil, &domain.GenerationError{
			Provider: providerName,
			Message:  "Failed to generate image with Gemini",
			Reason:   reason,
			Details:  err.Error(),
			Err:      err,
		}
	}
	out, err := extractImage(resp)
	if err != nil {
		a.logger.Warn().Err(err).Str("request_id", in.RequestID).Msg("gemini: response rejected")
		return nil, err
	}
	a.logger.Debug().
		Str("model", a.model).
		Str("request_id", in.RequestID).
		Int("bytes", len(out.Data)).
		Dur("elapsed", time.Since(started)).
		Msg("gemini: generated image")
	return out, nil
}

func (a *Adapter) fetch(ctx context.Context, rawURL string) (*storage.Blob, error) {
	if !storage.IsRemoteURL(rawURL) {
		return nil, fmt.Errorf("gemini: invalid image url %q", rawURL)
	}
	return storage.FromURL(rawURL).Load(ctx, a.httpClient)
}

func inputErr(what string, err error) error {
	return &domain.GenerationError{
		Provider: providerName,
		Message:  "Failed to fetch " + what,
		Reason:   domain.ReasonInputFetch,
		Err:      err,
	}
}
