package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrLinkRequired is returned when an analyze request carries no link
	ErrLinkRequired = errors.New("link is required")
	// ErrImagesRequired is returned when an image analysis request carries no images
	ErrImagesRequired = errors.New("at least one image is required")
	// ErrEventTitleRequired is returned when a past-event search carries no title
	ErrEventTitleRequired = errors.New("event_title is required")
	// ErrInvalidImageEncoding is returned when an image payload is not valid base64
	ErrInvalidImageEncoding = errors.New("invalid image encoding")
)
