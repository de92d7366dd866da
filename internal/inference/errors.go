package inference

import "errors"

var (
	// ErrMissingAPIKey is returned when no API credential is configured
	ErrMissingAPIKey = errors.New("inference api key is required")
	// ErrEmptyPrompt is returned when a request carries no prompt text
	ErrEmptyPrompt = errors.New("prompt text is required")
	// ErrRateLimited is returned when the service kept rate-limiting until attempts ran out
	ErrRateLimited = errors.New("inference service rate limited")
	// ErrUpstream is returned when the service answers with a non-retryable status
	ErrUpstream = errors.New("inference service error")
	// ErrExhausted is returned when the retry budget is spent without a success
	ErrExhausted = errors.New("inference retry attempts exhausted")
	// ErrTimeout is returned when the overall wall-clock budget for a call expires
	ErrTimeout = errors.New("inference call timed out")
	// ErrEmptyResponse is returned when a successful response carries no candidate text
	ErrEmptyResponse = errors.New("inference response contained no text")
)
