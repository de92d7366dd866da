package config

import "errors"

var (
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrAPIKeyRequired is returned when no inference API key is configured
	ErrAPIKeyRequired = errors.New("inference api key is required")
)
