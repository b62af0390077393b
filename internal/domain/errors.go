package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrNoImageGenerated   = errors.New("no image generated")
	ErrProviderFailure    = errors.New("provider failure")
	ErrStoreNotConfigured = errors.New("image store not configured")
)

// ValidationError reports a malformed or incomplete request.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "Missing required fields"
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrMissingFields }

// ConfigurationError reports credentials or settings missing for one
// component. It fails the current request only.
type ConfigurationError struct {
	Component string
	Message   string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Component + " configuration error"
}

// UploadError wraps a rejection from the image store.
type UploadError struct {
	Folder string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upload to %s failed", e.Folder)
	}
	return fmt.Sprintf("upload to %s failed: %v", e.Folder, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// UnknownStyleError reports a style id with no catalog entry.
type UnknownStyleError struct {
	StyleID string
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style %q", e.StyleID)
}

// Generation failure reasons.
const (
	ReasonNoCandidates = "no_candidates"
	ReasonBlocked      = "blocked"
	ReasonSafety       = "safety"
	ReasonRecitation   = "recitation"
	ReasonNoContent    = "no_content"
	ReasonNoImage      = "no_image"
	ReasonMalformed    = "malformed_response"
	ReasonJobFailed    = "job_failed"
	ReasonTimeout      = "timeout"
	ReasonUpstream     = "upstream_error"
	ReasonInputFetch   = "input_fetch"
)

// GenerationError reports that a provider returned no usable image. Details
// carries the upstream diagnostic for operators.
type GenerationError struct {
	Provider string
	Message  string
	Reason   string
	Details  any
	Err      error
}

func (e *GenerationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "generation failed"
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the cause, or ErrNoImageGenerated when the provider answered
// without a usable image, or ErrProviderFailure otherwise.
func (e *GenerationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.Reason {
	case ReasonNoCandidates, ReasonBlocked, ReasonSafety, ReasonRecitation, ReasonNoContent, ReasonNoImage:
		return ErrNoImageGenerated
	default:
		return ErrProviderFailure
	}
}

// HTTPStatus maps an error from the try-on flow to a response status.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		unknown    *UnknownStyleError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &unknown):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Describe returns the status, public message and optional diagnostic payload
// for err.
func Describe(err error) (int, string, any) {
	var (
		validation *ValidationError
		unknown    *UnknownStyleError
		cfgErr     *ConfigurationError
		upload     *UploadError
		gen        *GenerationError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error(), nil
	case errors.As(err, &unknown):
		return http.StatusBadRequest, "Unknown style", map[string]string{"styleId": unknown.StyleID}
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, cfgErr.Error(), nil
	case errors.As(err, &upload):
		var details any
		if upload.Err != nil {
			details = upload.Err.Error()
		}
		return http.StatusInternalServerError, "Failed to upload image", details
	case errors.As(err, &gen):
		msg := gen.Message
		if msg == "" {
			msg = "Failed to generate image"
		}
		details := gen.Details
		if details == nil && gen.Err != nil {
			details = gen.Err.Error()
		}
		return http.StatusInternalServerError, msg, details
	default:
		return http.StatusInternalServerError, "Failed to process image", err.Error()
	}
}
