// Package tryon runs the try-on flow: upload the user photo, resolve the
// style reference, build the prompt, call the configured provider and
// republish the generated image.
package tryon

import (
	"context"

	"github.com/gelehaus/tryon/internal/prompt"
)

// GenerateInput is what every provider receives. Both images are public URLs
// in the image store.
type GenerateInput struct {
	UserImageURL string
	ReferenceURL string
	Prompt       string
	StyleName    string
	RequestID    string
}

// GenerateOutput carries either inline image bytes or a URL to the generated
// image.
type GenerateOutput struct {
	Data     []byte
	MIME     string
	URL      string
	JobID    string
	Provider string
}

// Provider is a generative image backend.
type Provider interface {
	Name() string
	HasCredentials() bool
	Dialect() prompt.Dialect
	// ReferenceFolder is the store sub folder local reference assets are
	// uploaded to for this provider.
	ReferenceFolder() string
	// Message is the success message returned to the caller.
	Message() string
	Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error)
}

// Converter turns a worn-gele product photo into a mannequin reference.
type Converter interface {
	HasCredentials() bool
	Convert(ctx context.Context, imageURL, instruction string) (string, error)
}
