// Package ocr extracts text from flyer images via an external OCR service and
// turns recognized lines into candidate merchandise and benefit entries.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/theopenlane/httpsling"
)

const (
	// recognizePath is the OCR service path for text recognition
	recognizePath = "/recognize"
	// defaultRequestTimeout bounds a single OCR call. Dense flyer images can
	// take several seconds to recognize.
	defaultRequestTimeout = 30 * time.Second
	// defaultLanguages is the recognition language hint sent to the service
	defaultLanguages = "kor+eng"
)

// Client talks to the external OCR sidecar service
type Client struct {
	baseURL    string
	languages  string
	httpClient *http.Client
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for the OCR client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLanguages overrides the recognition language hint
func WithLanguages(languages string) Option {
	return func(c *Client) {
		if languages != "" {
			c.languages = languages
		}
	}
}

// New creates a new OCR client for the given service base URL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	client := &Client{
		baseURL:    baseURL,
		languages:  defaultLanguages,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// recognizeRequest is the request body for the OCR recognition endpoint
type recognizeRequest struct {
	Image     string `json:"image"`
	Languages string `json:"languages,omitempty"`
}

// recognizeResponse is the OCR service response wrapper
type recognizeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// ExtractText runs optical character recognition over one image and returns
// the raw multi-line text the service recognized.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}

	body := recognizeRequest{
		Image:     base64.StdEncoding.EncodeToString(image),
		Languages: c.languages,
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+recognizePath),
		httpsling.Post(),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var ocrResp recognizeResponse

	resp, err := requester.ReceiveWithContext(ctx, &ocrResp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !ocrResp.Success {
		return "", fmt.Errorf("%w: %s", ErrRecognitionFailed, ocrResp.Error)
	}

	return ocrResp.Text, nil
}
