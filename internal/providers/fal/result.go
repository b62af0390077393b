package fal

import (
	"errors"
	"strings"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/tryon"
)

type imageFile struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type imagesResult struct {
	Images          []imageFile `json:"images"`
	HasNSFWConcepts []bool      `json:"has_nsfw_concepts"`
	Seed            int64       `json:"seed"`
	Description     string      `json:"description"`
}

// Diagnostic is attached to GenerationErrors raised from a queue result.
type Diagnostic struct {
	RequestID string `json:"requestId,omitempty"`
	Model     string `json:"model,omitempty"`
	Images    int    `json:"images"`
	NSFW      bool   `json:"nsfw,omitempty"`
}

// firstImage validates the result payload and returns its first image URL.
func firstImage(provider string, job *Job, res *imagesResult) (*tryon.GenerateOutput, error) {
	diag := Diagnostic{Images: len(res.Images)}
	if job != nil {
		diag.RequestID, diag.Model = job.RequestID, job.Model
	}
	for _, flagged := range res.HasNSFWConcepts {
		diag.NSFW = diag.NSFW || flagged
	}
	if diag.NSFW {
		return nil, &domain.GenerationError{Provider: provider, Message: "No image generated", Reason: domain.ReasonSafety, Details: diag}
	}
	for _, img := range res.Images {
		if u := strings.TrimSpace(img.URL); u != "" {
			out := &tryon.GenerateOutput{URL: u, MIME: img.ContentType, Provider: provider}
			if job != nil {
				out.JobID = job.RequestID
			}
			return out, nil
		}
	}
	reason := domain.ReasonNoImage
	if len(res.Images) == 0 {
		reason = domain.ReasonNoContent
	}
	return nil, &domain.GenerationError{Provider: provider, Message: "No image generated", Reason: reason, Details: diag}
}

// tagProvider stamps the provider name on generation errors raised by the
// shared queue client.
func tagProvider(provider string, err error) error {
	var gen *domain.GenerationError
	if errors.As(err, &gen) && gen.Provider == "" {
		gen.Provider = provider
	}
	return err
}
