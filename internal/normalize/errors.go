package normalize

import "errors"

var (
	// ErrNotAnObject is returned when the recovered document is not a JSON object
	ErrNotAnObject = errors.New("recovered document is not a JSON object")
)
