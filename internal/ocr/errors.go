package ocr

import "errors"

var (
	// ErrMissingBaseURL is returned when the OCR service URL is not configured
	ErrMissingBaseURL = errors.New("ocr service url is required")
	// ErrRequestFailed is returned when the OCR service request cannot be completed
	ErrRequestFailed = errors.New("ocr request failed")
	// ErrUnexpectedStatus is returned when the OCR service responds with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected ocr service status")
	// ErrRecognitionFailed is returned when the OCR service reports failure
	ErrRecognitionFailed = errors.New("ocr recognition failed")
	// ErrEmptyImage is returned when an empty image payload is submitted
	ErrEmptyImage = errors.New("empty image payload")
)
