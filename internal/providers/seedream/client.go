// Package seedream calls the Seedream (SeedEdit) image-to-image endpoint used
// to turn product photos into mannequin references.
package seedream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/infra"
	"github.com/gelehaus/tryon/internal/tryon"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("seedream: api key is required")

const providerName = "seedream"

// Options configures the Seedream client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	GuidanceScale  float64
	Size           string
	NoWatermark    bool
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Seedream endpoint.
type Client struct {
	apiKey        string
	baseURL       string
	model         string
	guidanceScale float64
	size          string
	watermark     bool
	httpClient    *http.Client
	logger        *infra.Logger
}

var _ tryon.Converter = (*Client)(nil)

type editRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	Image          string  `json:"image"`
	ResponseFormat string  `json:"response_format"`
	Size           string  `json:"size"`
	GuidanceScale  float64 `json:"guidance_scale"`
	Watermark      bool    `json:"watermark"`
}

type editResponse struct {
	Model string `json:"model"`
	Data  []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with defaults applied. A missing base URL is
// not an error; HasCredentials reports false instead.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "seededit-3-0-i2i-250628"
	}
	guidance := opts.GuidanceScale
	if guidance == 0 {
		guidance = 5.5
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = "adaptive"
	}
	return &Client{
		apiKey:        strings.TrimSpace(opts.APIKey),
		baseURL:       strings.TrimSpace(opts.BaseURL),
		model:         model,
		guidanceScale: guidance,
		size:          size,
		watermark:     !opts.NoWatermark,
		httpClient:    httpClient,
		logger:        infra.LoggerOrDiscard(opts.Logger),
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

// Convert edits the image at imageURL following instruction and returns the
// URL of the edited image.
func (c *Client) Convert(ctx context.Context, imageURL, instruction string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return "", errors.New("seedream: instruction is required")
	}
	body, err := json.Marshal(editRequest{
		Model:          c.model,
		Prompt:         instruction,
		Image:          imageURL,
		ResponseFormat: "url",
		Size:           c.size,
		GuidanceScale:  c.guidanceScale,
		Watermark:      c.watermark,
	})
	if err != nil {
		return "", fmt.Errorf("seedream: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("seedream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.GenerationError{Provider: providerName, Message: "Failed to convert to mannequin", Reason: domain.ReasonUpstream, Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("seedream: read response: %w", err)
	}

	var decoded editResponse
	decodeErr := json.Unmarshal(raw, &decoded)
	if resp.StatusCode >= 300 || decoded.Error != nil {
		details := any(strings.TrimSpace(string(raw)))
		if decodeErr == nil && decoded.Error != nil {
			details = decoded.Error
		}
		return "", &domain.GenerationError{
			Provider: providerName,
			Message:  "Failed to convert to mannequin",
			Reason:   domain.ReasonUpstream,
			Details:  details,
		}
	}
	if decodeErr != nil {
		return "", &domain.GenerationError{Provider: providerName, Message: "Malformed provider response", Reason: domain.ReasonMalformed, Err: decodeErr}
	}
	for _, d := range decoded.Data {
		if u := strings.TrimSpace(d.URL); u != "" {
			c.logger.Debug().Str("model", c.model).Str("url", u).Msg("seedream: converted image")
			return u, nil
		}
	}
	return "", &domain.GenerationError{
		Provider: providerName,
		Message:  "No mannequin image generated",
		Reason:   domain.ReasonNoImage,
		Details:  map[string]int{"data": len(decoded.Data)},
	}
}
