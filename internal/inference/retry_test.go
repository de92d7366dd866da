package inference

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelay_WithinJitterWindow(t *testing.T) {
	m := newRetryMachine(5, time.Second)

	for retry := 0; retry < 4; retry++ {
		lower := time.Second * (1 << retry)
		upper := lower + time.Second

		for i := 0; i < 50; i++ {
			delay := m.backoffDelay(retry, 0)
			assert.GreaterOrEqual(t, delay, lower, "retry %d", retry)
			assert.LessOrEqual(t, delay, upper, "retry %d", retry)
		}
	}
}

func TestBackoffDelay_ServerHintCaps(t *testing.T) {
	m := newRetryMachine(5, time.Second)

	delay := m.backoffDelay(3, 500*time.Millisecond)

	assert.Equal(t, 500*time.Millisecond, delay)
}

func TestBackoffDelay_LargerHintIgnored(t *testing.T) {
	m := newRetryMachine(5, time.Second)

	delay := m.backoffDelay(0, time.Hour)

	assert.LessOrEqual(t, delay, 2*time.Second)
}

func TestRetryMachine_AttemptBudget(t *testing.T) {
	m := newRetryMachine(3, time.Second)

	for i := 1; i <= 3; i++ {
		require.True(t, m.next(), "attempt %d should start", i)
		assert.Equal(t, stateRequesting, m.state)
		m.transient(0)
	}

	assert.False(t, m.next(), "budget spent")
	assert.Equal(t, stateExhausted, m.state)
}

func TestRetryMachine_SuccessIsTerminal(t *testing.T) {
	m := newRetryMachine(3, time.Second)

	require.True(t, m.next())
	m.succeed()

	assert.False(t, m.next())
	assert.Equal(t, stateSuccess, m.state)
}

func TestRetryMachine_ExhaustIsTerminal(t *testing.T) {
	m := newRetryMachine(3, time.Second)

	require.True(t, m.next())
	m.exhaust()

	assert.False(t, m.next())
}

func TestRetryMachine_RecordsAttemptLog(t *testing.T) {
	m := newRetryMachine(3, time.Second)

	require.True(t, m.next())
	m.record(0, 429, nil)
	m.rateLimited()

	require.True(t, m.next())
	m.record(1500*time.Millisecond, 200, nil)
	m.succeed()

	require.Len(t, m.log, 2)
	assert.Equal(t, 1, m.log[0].Number)
	assert.Equal(t, 429, m.log[0].Status)
	assert.Equal(t, 2, m.log[1].Number)
	assert.Equal(t, 1500*time.Millisecond, m.log[1].Delay)
}

func TestParseRetryAfter_Seconds(t *testing.T) {
	assert.Equal(t, 7*time.Second, parseRetryAfter("7"))
}

func TestParseRetryAfter_Empty(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
}

func TestParseRetryAfter_Garbage(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	at := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)

	d := parseRetryAfter(at)

	assert.Greater(t, d, 20*time.Second)
	assert.LessOrEqual(t, d, 30*time.Second)
}
