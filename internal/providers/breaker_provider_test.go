package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_ClosedAllowsRequests(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 10; i++ {
		assert.NoError(t, b.Allow())
		b.RecordSuccess()
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Allow())
		b.RecordFailure()
	}

	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute, 1)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	current = current.Add(2 * time.Minute)
	assert.NoError(t, b.Allow())

	// only one probe allowed while half-open
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(2 * time.Minute)
	require.NoError(t, b.Allow())

	b.RecordSuccess()

	assert.NoError(t, b.Allow())
	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(2 * time.Minute)
	require.NoError(t, b.Allow())

	b.RecordFailure()

	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestNewCircuitBreaker_AppliesDefaults(t *testing.T) {
	b := NewCircuitBreaker(0, 0, 0)

	assert.Equal(t, 3, b.failureThreshold)
	assert.Equal(t, 30*time.Second, b.openTimeout)
	assert.Equal(t, 1, b.halfOpenMaxReq)
}
