package analyzer

import "errors"

var (
	// ErrValidation is returned when the request input is missing or malformed
	ErrValidation = errors.New("invalid request input")
	// ErrInsufficientContent is returned when the page yields too little text
	// to extract anything meaningful from
	ErrInsufficientContent = errors.New("insufficient content extracted")
)
