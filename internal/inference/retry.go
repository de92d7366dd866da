package inference

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// state is a node in the retry state machine. One machine lives for exactly
// one Generate call and is discarded when the call resolves.
type state int

const (
	stateIdle state = iota
	stateRequesting
	stateSuccess
	stateRateLimited
	stateTransientError
	stateExhausted
)

// Attempt is one entry in the ordered attempt log for a single call
type Attempt struct {
	// Number is the 1-based attempt number
	Number int
	// Delay is the backoff wait that preceded this attempt
	Delay time.Duration
	// Status is the HTTP status received, 0 when the call never completed
	Status int
	// Err is the transport error text, empty on an HTTP-level response
	Err string
}

// retryMachine drives the Idle -> Requesting -> {Success | RateLimited |
// TransientError | Exhausted} transitions for one inference call.
type retryMachine struct {
	state           state
	attempt         int
	maxAttempts     int
	base            time.Duration
	log             []Attempt
	lastRetryStatus int
}

func newRetryMachine(maxAttempts int, base time.Duration) *retryMachine {
	return &retryMachine{
		state:       stateIdle,
		maxAttempts: maxAttempts,
		base:        base,
	}
}

// next reports whether another request attempt may start, moving the machine
// into Requesting when it does.
func (m *retryMachine) next() bool {
	switch m.state {
	case stateIdle, stateRateLimited, stateTransientError:
		if m.attempt >= m.maxAttempts {
			m.state = stateExhausted
			return false
		}

		m.state = stateRequesting
		m.attempt++

		return true
	default:
		return false
	}
}

// record appends the outcome of the in-flight attempt to the log
func (m *retryMachine) record(delay time.Duration, status int, err error) {
	entry := Attempt{Number: m.attempt, Delay: delay, Status: status}
	if err != nil {
		entry.Err = err.Error()
	}

	m.log = append(m.log, entry)
}

// succeed moves the machine to its terminal Success state
func (m *retryMachine) succeed() {
	m.state = stateSuccess
}

// rateLimited marks a 429 outcome; the next attempt waits out the delay
func (m *retryMachine) rateLimited() {
	m.state = stateRateLimited
	m.lastRetryStatus = http.StatusTooManyRequests
}

// transient marks a network failure, 5xx, or per-call timeout outcome
func (m *retryMachine) transient(status int) {
	m.state = stateTransientError
	m.lastRetryStatus = status
}

// exhaust moves the machine to its terminal failure state. Non-retryable
// statuses land here directly without burning the remaining budget.
func (m *retryMachine) exhaust() {
	m.state = stateExhausted
}

// wasRateLimited reports whether the most recent retryable outcome was a 429
func (m *retryMachine) wasRateLimited() bool {
	return m.lastRetryStatus == http.StatusTooManyRequests
}

// backoffDelay computes the wait before retry n (0-based): exponential with
// up to one base unit of jitter, capped by the server hint when one is given
// and smaller.
func (m *retryMachine) backoffDelay(retry int, hint time.Duration) time.Duration {
	delay := m.base*(1<<retry) + time.Duration(rand.Int64N(int64(m.base)))

	if hint > 0 && hint < delay {
		delay = hint
	}

	return delay
}

// parseRetryAfter reads a Retry-After response header as either delay seconds
// or an HTTP date, returning 0 when absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(header); err == nil {
		if until := time.Until(at); until > 0 {
			return until
		}
	}

	return 0
}

// sleep waits out a backoff delay, aborting early when the context is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
