package fal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gelehaus/tryon/internal/domain"
	"github.com/gelehaus/tryon/internal/tryon"
)

// fakeQueue serves one app's queue endpoints. statuses are returned in
// order; the last one repeats.
type fakeQueue struct {
	mu        sync.Mutex
	app       string
	statuses  []string
	statusErr string
	result    any
	polls     int
	cancelled int
	submitted map[string]any
	auth      string
}

func (f *fakeQueue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")
	prefix := "/" + f.app + "/requests/req-42"
	switch {
	case r.Method == http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &f.submitted)
		writeJSON(w, http.StatusOK, map[string]any{"request_id": "req-42"})
	case r.Method == http.MethodGet && r.URL.Path == prefix+"/status":
		status := f.statuses[len(f.statuses)-1]
		if f.polls < len(f.statuses) {
			status = f.statuses[f.polls]
		}
		f.polls++
		body := map[string]any{"status": status, "logs": []any{map[string]any{"message": "step"}}}
		if f.statusErr != "" {
			body["error"] = f.statusErr
		}
		writeJSON(w, http.StatusAccepted, body)
	case r.Method == http.MethodGet && r.URL.Path == prefix:
		writeJSON(w, http.StatusOK, f.result)
	case r.Method == http.MethodPut && r.URL.Path == prefix+"/cancel":
		f.cancelled++
		writeJSON(w, http.StatusAccepted, map[string]any{"status": "CANCELLATION_REQUESTED"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found: " + r.URL.Path})
	}
}

func (f *fakeQueue) counts() (polls, cancelled int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls, f.cancelled
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fake *fakeQueue, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:       "fal-test",
		QueueURL:     srv.URL,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  timeout,
		HTTPClient:   srv.Client(),
	})
}

func imagesPayload(url string) map[string]any {
	return map[string]any{"images": []any{map[string]any{"url": url, "content_type": "image/jpeg"}}}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from     State
		upstream string
		want     State
		wantErr  bool
	}{
		{StateSubmitted, "IN_QUEUE", StateInProgress, false},
		{StateSubmitted, "IN_PROGRESS", StateInProgress, false},
		{StateInProgress, "IN_PROGRESS", StateInProgress, false},
		{StateInProgress, "COMPLETED", StateCompleted, false},
		{StateInProgress, "FAILED", StateFailed, false},
		{StateCompleted, "IN_PROGRESS", StateCompleted, false},
		{StateFailed, "COMPLETED", StateFailed, false},
		{StateInProgress, "WAT", StateInProgress, true},
	}
	for _, tc := range tests {
		got, err := tc.from.next(tc.upstream)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s + %s: err = %v", tc.from, tc.upstream, err)
		}
		if got != tc.want {
			t.Fatalf("%s + %s = %s, want %s", tc.from, tc.upstream, got, tc.want)
		}
	}
}

func TestRunPollsUntilCompleted(t *testing.T) {
	fake := &fakeQueue{
		app:      "fal-ai/fashn",
		statuses: []string{"IN_QUEUE", "IN_PROGRESS", "IN_PROGRESS", "COMPLETED"},
		result:   imagesPayload("https://cdn.fal.media/out.jpg"),
	}
	client := newTestClient(t, fake, time.Second)

	var res imagesResult
	job, err := client.Run(context.Background(), "fal-ai/fashn/tryon/v1.6", map[string]any{"x": 1}, &res)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if job.State != StateCompleted || job.RequestID != "req-42" {
		t.Fatalf("job = %+v", job)
	}
	if len(res.Images) != 1 || res.Images[0].URL != "https://cdn.fal.media/out.jpg" {
		t.Fatalf("result = %+v", res)
	}
	if polls, cancelled := fake.counts(); polls != 4 || cancelled != 0 {
		t.Fatalf("polls=%d cancelled=%d", polls, cancelled)
	}
	if fake.auth != "Key fal-test" {
		t.Fatalf("Authorization = %q", fake.auth)
	}
}

func TestRunFailedJob(t *testing.T) {
	fake := &fakeQueue{app: "fal-ai/fashn", statuses: []string{"IN_PROGRESS", "COMPLETED"}, statusErr: "person not detected"}
	client := newTestClient(t, fake, time.Second)

	_, err := client.Run(context.Background(), "fal-ai/fashn/tryon/v1.6", map[string]any{}, &imagesResult{})
	var gen *domain.GenerationError
	if !errors.As(err, &gen) || gen.Reason != domain.ReasonJobFailed {
		t.Fatalf("expected job failure, got %v", err)
	}
	if gen.Details != "person not detected" {
		t.Fatalf("details = %v", gen.Details)
	}
	if _, cancelled := fake.counts(); cancelled != 0 {
		t.Fatalf("terminal job was cancelled %d times", cancelled)
	}
}

func TestRunTimesOut(t *testing.T) {
	fake := &fakeQueue{app: "fal-ai/fashn", statuses: []string{"IN_PROGRESS"}}
	client := newTestClient(t, fake, 20*time.Millisecond)

	_, err := client.Run(context.Background(), "fal-ai/fashn/tryon/v1.6", map[string]any{}, &imagesResult{})
	var gen *domain.GenerationError
	if !errors.As(err, &gen) || gen.Reason != domain.ReasonTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if _, cancelled := fake.counts(); cancelled != 1 {
		t.Fatalf("expected one upstream cancel after the poll deadline, got %d", cancelled)
	}
}

func TestRunCancelsUpstreamWhenContextEnds(t *testing.T) {
	fake := &fakeQueue{app: "fal-ai/flux-pro", statuses: []string{"IN_PROGRESS"}}
	client := newTestClient(t, fake, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			if polls, _ := fake.counts(); polls >= 2 {
				cancel()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	_, err := client.Run(ctx, "fal-ai/flux-pro/kontext", map[string]any{}, &imagesResult{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, cancelled := fake.counts(); cancelled != 1 {
		t.Fatalf("expected one upstream cancel, got %d", cancelled)
	}
}

func TestSubmitWithoutKey(t *testing.T) {
	client := NewClient(Options{})
	if client.HasCredentials() {
		t.Fatalf("expected no credentials")
	}
	if _, err := client.Submit(context.Background(), "fal-ai/fashn/tryon/v1.6", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSubmitUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid key"})
	}))
	defer srv.Close()
	client := NewClient(Options{APIKey: "bad", QueueURL: srv.URL, HTTPClient: srv.Client()})

	_, err := client.Submit(context.Background(), "fal-ai/fashn/tryon/v1.6", map[string]any{})
	var gen *domain.GenerationError
	if !errors.As(err, &gen) || gen.Reason != domain.ReasonUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if gen.Details != "Invalid key" {
		t.Fatalf("details = %v", gen.Details)
	}
}

func TestAppID(t *testing.T) {
	cases := map[string]string{
		"fal-ai/flux-pro/kontext": "fal-ai/flux-pro",
		"fal-ai/fashn/tryon/v1.6": "fal-ai/fashn",
		"fal-ai/flux":             "fal-ai/flux",
	}
	for in, want := range cases {
		if got := appID(in); got != want {
			t.Fatalf("appID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFashnPayload(t *testing.T) {
	fake := &fakeQueue{app: "fal-ai/fashn", statuses: []string{"COMPLETED"}, result: imagesPayload("https://cdn.fal.media/fashn.jpg")}
	fashn := NewFashn(newTestClient(t, fake, time.Second), FashnOptions{Seed: 7})

	out, err := fashn.Generate(context.Background(), tryon.GenerateInput{
		UserImageURL: "https://res.cloudinary.com/demo/user.jpg",
		ReferenceURL: "https://res.cloudinary.com/demo/garment.jpg",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.URL != "https://cdn.fal.media/fashn.jpg" || out.JobID != "req-42" || out.Provider != "fashn" {
		t.Fatalf("out = %+v", out)
	}
	want := map[string]any{
		"model_image":          "https://res.cloudinary.com/demo/user.jpg",
		"garment_image":        "https://res.cloudinary.com/demo/garment.jpg",
		"category":             "tops",
		"num_images":           float64(1),
		"guidance_scale":       float64(2),
		"num_inference_steps":  float64(50),
		"seed":                 float64(7),
		"enable_safety_checks": true,
	}
	for k, v := range want {
		if fake.submitted[k] != v {
			t.Fatalf("payload[%s] = %v, want %v", k, fake.submitted[k], v)
		}
	}
}

func TestFluxPayload(t *testing.T) {
	fake := &fakeQueue{app: "fal-ai/flux-pro", statuses: []string{"IN_QUEUE", "COMPLETED"}, result: imagesPayload("https://cdn.fal.media/flux.jpg")}
	flux := NewFlux(newTestClient(t, fake, time.Second), FluxOptions{})

	out, err := flux.Generate(context.Background(), tryon.GenerateInput{
		UserImageURL: "https://res.cloudinary.com/demo/user.jpg",
		ReferenceURL: "https://res.cloudinary.com/demo/mannequin.jpg",
		Prompt:       "Make this person wear the gele",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.URL != "https://cdn.fal.media/flux.jpg" {
		t.Fatalf("out = %+v", out)
	}
	if fake.submitted["prompt"] != "Make this person wear the gele" || fake.submitted["image_url"] != "https://res.cloudinary.com/demo/user.jpg" {
		t.Fatalf("payload = %v", fake.submitted)
	}
	refs, _ := fake.submitted["reference_images"].([]any)
	if len(refs) != 1 {
		t.Fatalf("reference_images = %v", fake.submitted["reference_images"])
	}
	ref := refs[0].(map[string]any)
	if ref["image_url"] != "https://res.cloudinary.com/demo/mannequin.jpg" || ref["weight"] != float64(3) {
		t.Fatalf("reference = %v", ref)
	}
	if fake.submitted["output_format"] != "jpeg" || fake.submitted["safety_tolerance"] != float64(2) || fake.submitted["num_inference_steps"] != float64(28) {
		t.Fatalf("payload = %v", fake.submitted)
	}
}

func TestResultValidation(t *testing.T) {
	tests := []struct {
		name   string
		result map[string]any
		reason string
	}{
		{"no images", map[string]any{"images": []any{}}, domain.ReasonNoContent},
		{"blank url", map[string]any{"images": []any{map[string]any{"url": " "}}}, domain.ReasonNoImage},
		{"nsfw", map[string]any{"images": []any{map[string]any{"url": "https://x/y.jpg"}}, "has_nsfw_concepts": []any{true}}, domain.ReasonSafety},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeQueue{app: "fal-ai/flux-pro", statuses: []string{"COMPLETED"}, result: tc.result}
			flux := NewFlux(newTestClient(t, fake, time.Second), FluxOptions{})
			_, err := flux.Generate(context.Background(), tryon.GenerateInput{Prompt: "p", UserImageURL: "https://x/u.jpg", ReferenceURL: "https://x/r.jpg"})
			var gen *domain.GenerationError
			if !errors.As(err, &gen) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if gen.Reason != tc.reason || gen.Provider != "flux" || !strings.Contains(gen.Error(), "No image generated") {
				t.Fatalf("unexpected error %+v", gen)
			}
		})
	}
}
