package gemini

import (
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/tryon"
)

// Diagnostic is the operator-facing summary attached to a GenerationError.
type Diagnostic struct {
	Candidates   int    `json:"candidates"`
	FinishReason string `json:"finishReason,omitempty"`
	BlockReason  string `json:"blockReason,omitempty"`
	BlockMessage string `json:"blockMessage,omitempty"`
	Text         string `json:"text,omitempty"`
	ModelVersion string `json:"modelVersion,omitempty"`
}

// extractImage validates the response shape before reading from it. Every
// missing level becomes a GenerationError instead of a nil dereference.
func extractImage(resp *genai.GenerateContentResponse) (*tryon.GenerateOutput, error) {
	if resp == nil {
		return nil, noImage(domain.ReasonMalformed, Diagnostic{})
	}
	diag := Diagnostic{Candidates: len(resp.Candidates), ModelVersion: resp.ModelVersion}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		diag.BlockReason = string(fb.BlockReason)
		diag.BlockMessage = fb.BlockReasonMessage
		return nil, noImage(domain.ReasonBlocked, diag)
	}
	if len(resp.Candidates) == 0 {
		return nil, noImage(domain.ReasonNoCandidates, diag)
	}

	var texts []string
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if diag.FinishReason == "" {
			diag.FinishReason = string(cand.FinishReason)
		}
		switch cand.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, "IMAGE_SAFETY":
			return nil, noImage(domain.ReasonSafety, diag)
		case genai.FinishReasonRecitation:
			return nil, noImage(domain.ReasonRecitation, diag)
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = http.DetectContentType(part.InlineData.Data)
				}
				return &tryon.GenerateOutput{
					Data:     part.InlineData.Data,
					MIME:     mime,
					Provider: providerName,
				}, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	diag.Text = strings.Join(texts, "\n")
	if diag.Text == "" {
		return nil, noImage(domain.ReasonNoContent, diag)
	}
	return nil, noImage(domain.ReasonNoImage, diag)
}

func noImage(reason string, diag Diagnostic) error {
	return &domain.GenerationError{
		Provider: providerName,
		Message:  "No image generated",
		Reason:   reason,
		Details:  diag,
	}
}
