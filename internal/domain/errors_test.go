package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: &ValidationError{}, want: http.StatusBadRequest},
		{name: "unknown style", err: &UnknownStyleError{StyleID: "999"}, want: http.StatusBadRequest},
		{name: "configuration", err: &ConfigurationError{Component: "gemini"}, want: http.StatusInternalServerError},
		{name: "upload", err: &UploadError{Folder: "try-on"}, want: http.StatusInternalServerError},
		{name: "generation", err: &GenerationError{Provider: "gemini"}, want: http.StatusInternalServerError},
		{name: "wrapped unknown style", err: fmt.Errorf("resolve: %w", &UnknownStyleError{StyleID: "x"}), want: http.StatusBadRequest},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestDescribeGenerationErrorCarriesDetails(t *testing.T) {
	details := map[string]any{"finishReason": "SAFETY"}
	err := fmt.Errorf("pipeline: %w", &GenerationError{
		Provider: "gemini",
		Message:  "No image generated",
		Reason:   ReasonSafety,
		Details:  details,
	})

	status, msg, got := Describe(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "No image generated", msg)
	assert.Equal(t, details, got)
}

func TestDescribeUploadErrorUsesCause(t *testing.T) {
	status, msg, details := Describe(&UploadError{Folder: "try-on", Err: errors.New("quota exceeded")})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to upload image", msg)
	assert.Equal(t, "quota exceeded", details)
}

func TestDescribeValidationDefaultMessage(t *testing.T) {
	status, msg, details := Describe(&ValidationError{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", msg)
	assert.Nil(t, details)
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("http 503")
	err := &GenerationError{Provider: "fal", Message: "queue submit failed", Err: cause}
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "fal: queue submit failed: http 503", err.Error())

	bare := &GenerationError{Provider: "fal"}
	assert.ErrorIs(t, bare, ErrProviderFailure)
}

func TestGenerationErrorWithoutImage(t *testing.T) {
	for _, reason := range []string{ReasonNoCandidates, ReasonBlocked, ReasonSafety, ReasonRecitation, ReasonNoContent, ReasonNoImage} {
		err := &GenerationError{Provider: "gemini", Message: "No image generated", Reason: reason}
		assert.ErrorIs(t, err, ErrNoImageGenerated, reason)
		assert.NotErrorIs(t, err, ErrProviderFailure, reason)
	}
	timeout := &GenerationError{Provider: "fal", Reason: ReasonTimeout}
	assert.ErrorIs(t, timeout, ErrProviderFailure)
	assert.NotErrorIs(t, timeout, ErrNoImageGenerated)
}
