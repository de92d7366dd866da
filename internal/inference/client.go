// Package inference calls the external generative service with
// schema-constrained or search-augmented requests and owns the retry/backoff
// state machine around those calls.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the generative service's REST endpoint root
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// defaultModel is the generation model used for extraction
	defaultModel = "gemini-2.5-flash-preview-09-2025"
	// defaultCallTimeout bounds a single generateContent HTTP call. Vision
	// requests with several attached images routinely run tens of seconds.
	defaultCallTimeout = 60 * time.Second
	// defaultOverallTimeout bounds one Generate call across all retries
	defaultOverallTimeout = 3 * time.Minute
	// defaultMaxAttempts is the retry budget per Generate call
	defaultMaxAttempts = 5
	// defaultBackoffBase is the exponential backoff unit
	defaultBackoffBase = time.Second
)

// Client talks to the external generative service
type Client struct {
	apiKey         string
	model          string
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	backoffBase    time.Duration
	callTimeout    time.Duration
	overallTimeout time.Duration
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the service endpoint root, mainly for tests
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel overrides the generation model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxAttempts overrides the retry budget
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoffBase overrides the exponential backoff unit, mainly for tests
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

// WithCallTimeout overrides the per-call HTTP timeout
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithOverallTimeout overrides the wall-clock budget across retries
func WithOverallTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.overallTimeout = d
		}
	}
}

// New creates a client for the generative service. The API key is mandatory;
// startup fails without it rather than every request failing later.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:         apiKey,
		model:          defaultModel,
		baseURL:        defaultBaseURL,
		httpClient:     &http.Client{},
		maxAttempts:    defaultMaxAttempts,
		backoffBase:    defaultBackoffBase,
		callTimeout:    defaultCallTimeout,
		overallTimeout: defaultOverallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Image is one inline attachment for a vision request
type Image struct {
	// MIMEType is the image content type, sniffed when empty
	MIMEType string
	// Data is the raw image bytes
	Data []byte
}

// Request describes one generation call
type Request struct {
	// Prompt is the instruction and content text
	Prompt string
	// Images are optional inline attachments for vision requests
	Images []Image
	// Schema requests schema-constrained JSON output; ignored when
	// EnableSearch is set because the service cannot combine the two
	Schema *Schema
	// EnableSearch grants the live web-search tool; output downgrades to
	// free text and relies on downstream recovery
	EnableSearch bool
}

// Result is a successful generation outcome
type Result struct {
	// Text is the first candidate's text
	Text string
	// Attempts is the ordered attempt log for the call
	Attempts []Attempt
}

// wire types for the generateContent endpoint

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inline_data,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wireContent struct {
	Parts []wirePart `json:"parts"`
}

type wireGenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type wireTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type wireRequest struct {
	Contents         []wireContent         `json:"contents"`
	GenerationConfig *wireGenerationConfig `json:"generationConfig,omitempty"`
	Tools            []wireTool            `json:"tools,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one request through the retry state machine and returns the
// model's text output. Rate limits and transient failures are retried with
// exponential backoff; other upstream statuses fail immediately.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, c.overallTimeout)
	defer cancel()

	payload, err := json.Marshal(c.buildPayload(req))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	machine := newRetryMachine(c.maxAttempts, c.backoffBase)

	var delay time.Duration

	for machine.next() {
		outcome := c.doCall(ctx, payload)
		machine.record(delay, outcome.status, outcome.err)

		switch {
		case outcome.err == nil && outcome.status >= http.StatusOK && outcome.status < http.StatusMultipleChoices:
			machine.succeed()

			text, err := candidateText(outcome.body)
			if err != nil {
				return nil, err
			}

			return &Result{Text: text, Attempts: machine.log}, nil

		case outcome.status == http.StatusTooManyRequests:
			machine.rateLimited()

		case outcome.err != nil || outcome.status >= http.StatusInternalServerError:
			machine.transient(outcome.status)

		default:
			// Non-retryable status, e.g. a 400 for a malformed schema.
			machine.exhaust()

			return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, outcome.status, snippet(outcome.body))
		}

		if machine.attempt >= c.maxAttempts {
			// No budget left; skip the pointless final wait.
			continue
		}

		delay = machine.backoffDelay(machine.attempt-1, outcome.retryAfter)

		log.Debug().
			Int("attempt", machine.attempt).
			Int("status", outcome.status).
			Dur("delay", delay).
			Msg("retrying inference call")

		if err := sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
	}

	if machine.wasRateLimited() {
		return nil, fmt.Errorf("%w: %w after %d attempts", ErrRateLimited, ErrExhausted, machine.attempt)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrExhausted, machine.attempt)
}

// callOutcome is the classified result of one HTTP attempt
type callOutcome struct {
	status     int
	body       []byte
	retryAfter time.Duration
	err        error
}

// doCall performs a single HTTP attempt under the per-call timeout. A timeout
// of the individual call counts as a transient failure; only the overall
// budget aborts the whole Generate.
func (c *Client) doCall(ctx context.Context, payload []byte) callOutcome {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return callOutcome{err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return callOutcome{err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return callOutcome{status: resp.StatusCode, err: err}
	}

	return callOutcome{
		status:     resp.StatusCode,
		body:       body,
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// buildPayload assembles the wire request. Live search and response schemas
// are mutually exclusive on the service side; search wins and the output
// downgrades to free text.
func (c *Client) buildPayload(req Request) wireRequest {
	parts := []wirePart{{Text: req.Prompt}}

	for _, img := range req.Images {
		mime := img.MIMEType
		if mime == "" {
			mime = http.DetectContentType(img.Data)
		}

		parts = append(parts, wirePart{
			InlineData: &wireInlineData{
				MIMEType: mime,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	wire := wireRequest{Contents: []wireContent{{Parts: parts}}}

	if req.EnableSearch {
		wire.Tools = []wireTool{{}}

		return wire
	}

	if req.Schema != nil {
		wire.GenerationConfig = &wireGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}

	return wire
}

// candidateText pulls the first candidate's text out of a success response
func candidateText(body []byte) (string, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// snippetLimit caps how much upstream error body lands in our error messages
const snippetLimit = 200

func snippet(body []byte) string {
	if len(body) > snippetLimit {
		body = body[:snippetLimit]
	}

	return string(body)
}
