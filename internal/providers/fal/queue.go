// Package fal talks to the fal.ai queue API and adapts the FASHN and FLUX
// Kontext models to the try-on provider contract.
package fal

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
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("fal: api key is required")

// State is the lifecycle of a queued job. Completed and Failed are terminal.
type State string

const (
	StateSubmitted  State = "submitted"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool { return s == StateCompleted || s == StateFailed }

// next applies an upstream status to the current state. Terminal states
// never move.
func (s State) next(upstream string) (State, error) {
	if s.Terminal() {
		return s, nil
	}
	switch strings.ToUpper(strings.TrimSpace(upstream)) {
	case "IN_QUEUE", "IN_PROGRESS":
		return StateInProgress, nil
	case "COMPLETED", "OK":
		return StateCompleted, nil
	case "FAILED", "ERROR", "CANCELLED", "CANCELED":
		return StateFailed, nil
	default:
		return s, fmt.Errorf("fal: unexpected job status %q", upstream)
	}
}

// Options configures the queue client.
type Options struct {
	APIKey         string
	QueueURL       string
	PollInterval   time.Duration
	PollTimeout    time.Duration
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client submits jobs to the fal.ai queue and waits for them.
type Client struct {
	apiKey       string
	queueURL     string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

// Job identifies a queued request.
type Job struct {
	Model       string
	RequestID   string
	StatusURL   string
	ResponseURL string
	CancelURL   string
	State       State
}

type submitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
	CancelURL   string `json:"cancel_url"`
}

type statusResponse struct {
	Status        string `json:"status"`
	QueuePosition *int   `json:"queue_position,omitempty"`
	Error         string `json:"error,omitempty"`
	Logs          []struct {
		Message string `json:"message"`
	} `json:"logs,omitempty"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// NewClient constructs a queue client with defaults applied.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	queueURL := strings.TrimRight(strings.TrimSpace(opts.QueueURL), "/")
	if queueURL == "" {
		queueURL = "https://queue.fal.run"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = 150 * time.Second
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		queueURL:     queueURL,
		pollInterval: interval,
		pollTimeout:  timeout,
		httpClient:   httpClient,
		logger:       infra.LoggerOrDiscard(opts.Logger),
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool { return c != nil && c.apiKey != "" }

// Run submits input to model, waits for a terminal state and decodes the
// job result into out. A job left non-terminal by a poll timeout, a status
// error or an ended ctx is cancelled upstream.
func (c *Client) Run(ctx context.Context, model string, input, out any) (*Job, error) {
	job, err := c.Submit(ctx, model, input)
	if err != nil {
		return nil, err
	}
	if err := c.Wait(ctx, job); err != nil {
		if !job.State.Terminal() {
			c.cancelDetached(job)
		}
		return job, err
	}
	if err := c.Result(ctx, job, out); err != nil {
		return job, err
	}
	return job, nil
}

// Submit enqueues a job and returns it in the Submitted state.
func (c *Client) Submit(ctx context.Context, model string, input any) (*Job, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	model = strings.Trim(strings.TrimSpace(model), "/")
	if model == "" {
		return nil, errors.New("fal: model is required")
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("fal: encode request: %w", err)
	}
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, c.queueURL+"/"+model, body, &resp); err != nil {
		return nil, err
	}
	if resp.RequestID == "" {
		return nil, &domain.GenerationError{
			Message: "Job submission returned no request id",
			Reason:  domain.ReasonMalformed,
		}
	}
	job := &Job{
		Model:       model,
		RequestID:   resp.RequestID,
		StatusURL:   resp.StatusURL,
		ResponseURL: resp.ResponseURL,
		CancelURL:   resp.CancelURL,
		State:       StateSubmitted,
	}
	base := c.queueURL + "/" + appID(model) + "/requests/" + resp.RequestID
	if job.StatusURL == "" {
		job.StatusURL = base + "/status"
	}
	if job.ResponseURL == "" {
		job.ResponseURL = base
	}
	if job.CancelURL == "" {
		job.CancelURL = base + "/cancel"
	}
	c.logger.Debug().Str("model", model).Str("fal_request_id", job.RequestID).Msg("fal: job submitted")
	return job, nil
}

// Wait polls the job until it is terminal, the poll deadline passes or ctx
// ends. A Failed job is returned as a GenerationError.
func (c *Client) Wait(ctx context.Context, job *Job) error {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		st, err := c.Status(ctx, job)
		if err != nil {
			return err
		}
		switch job.State {
		case StateCompleted:
			return nil
		case StateFailed:
			msg := st.Error
			if msg == "" {
				msg = "job " + strings.ToLower(st.Status)
			}
			return &domain.GenerationError{
				Message: "Generation job failed",
				Reason:  domain.ReasonJobFailed,
				Details: msg,
			}
		}
		if time.Now().After(deadline) {
			return &domain.GenerationError{
				Message: "Generation job timed out",
				Reason:  domain.ReasonTimeout,
				Details: fmt.Sprintf("job %s still %s after %s", job.RequestID, job.State, c.pollTimeout),
			}
		}
		select {
		case <-ctx.Done():
			return &domain.GenerationError{
				Message: "Generation cancelled",
				Reason:  domain.ReasonTimeout,
				Err:     ctx.Err(),
			}
		case <-time.After(c.pollInterval):
		}
	}
}

// Status fetches the upstream status once and advances job.State.
func (c *Client) Status(ctx context.Context, job *Job) (*statusResponse, error) {
	var st statusResponse
	if err := c.do(ctx, http.MethodGet, job.StatusURL+"?logs=1", nil, &st); err != nil {
		return nil, err
	}
	next, err := job.State.next(st.Status)
	if err != nil {
		return nil, &domain.GenerationError{
			Message: "Unexpected job status",
			Reason:  domain.ReasonMalformed,
			Details: st.Status,
			Err:     err,
		}
	}
	if next == StateCompleted && st.Error != "" {
		next = StateFailed
	}
	job.State = next
	ev := c.logger.Debug().Str("fal_request_id", job.RequestID).Str("status", st.Status)
	if st.QueuePosition != nil {
		ev = ev.Int("queue_position", *st.QueuePosition)
	}
	if n := len(st.Logs); n > 0 {
		ev = ev.Str("last_log", st.Logs[n-1].Message)
	}
	ev.Msg("fal: job status")
	return &st, nil
}

// Result decodes the completed job's payload into out.
func (c *Client) Result(ctx context.Context, job *Job, out any) error {
	if job.State != StateCompleted {
		return fmt.Errorf("fal: job %s is %s, not completed", job.RequestID, job.State)
	}
	return c.do(ctx, http.MethodGet, job.ResponseURL, nil, out)
}

// Cancel asks the queue to drop the job. Errors are returned but callers
// usually only log them.
func (c *Client) Cancel(ctx context.Context, job *Job) error {
	if job == nil || job.State.Terminal() {
		return nil
	}
	return c.do(ctx, http.MethodPut, job.CancelURL, nil, nil)
}

func (c *Client) cancelDetached(job *Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Cancel(ctx, job); err != nil {
		c.logger.Warn().Err(err).Str("fal_request_id", job.RequestID).Msg("fal: cancel job")
		return
	}
	c.logger.Info().Str("fal_request_id", job.RequestID).Msg("fal: job cancelled")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("fal: build request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reason := domain.ReasonUpstream
		if ctx.Err() != nil {
			reason = domain.ReasonTimeout
		}
		return &domain.GenerationError{Message: "Provider request failed", Reason: reason, Details: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fal: read response: %w", err)
	}
	// The status endpoint answers 202 while the job is queued.
	if resp.StatusCode >= 300 {
		return &domain.GenerationError{
			Message: fmt.Sprintf("Provider returned status %d", resp.StatusCode),
			Reason:  domain.ReasonUpstream,
			Details: errorDetail(raw),
		}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.GenerationError{Message: "Malformed provider response", Reason: domain.ReasonMalformed, Err: err}
	}
	return nil
}

func errorDetail(raw []byte) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Error != "" {
			return detail.Error
		}
		if len(detail.Detail) > 0 {
			var s string
			if json.Unmarshal(detail.Detail, &s) == nil {
				return s
			}
			return string(detail.Detail)
		}
	}
	return strings.TrimSpace(string(raw))
}

// appID trims a model path to owner/app, which is how the queue addresses
// requests for models with sub paths such as fal-ai/flux-pro/kontext.
func appID(model string) string {
	parts := strings.Split(model, "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}
