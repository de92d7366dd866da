package recovery

import "errors"

var (
	// ErrParseRecoveryFailed is returned when every recovery stage fails to
	// produce valid JSON from the model output
	ErrParseRecoveryFailed = errors.New("unable to recover JSON from model output")
)
