package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("redis", Config{FailureThreshold: 3, RecoveryTimeout: time.Hour})
	boom := errors.New("connection refused")

	for i := 0; i < 3; i++ {
		err := b.Call(func() error { return boom })
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, StateOpen, b.State())

	var open *ErrOpen
	err := b.Call(func() error { return nil })
	require.ErrorAs(t, err, &open)
	assert.Equal(t, "redis", open.Name)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("redis", Config{FailureThreshold: 2, RecoveryTimeout: time.Hour})
	boom := errors.New("timeout")

	require.Error(t, b.Call(func() error { return boom }))
	require.NoError(t, b.Call(func() error { return nil }))
	require.Error(t, b.Call(func() error { return boom }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker("redis", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Millisecond,
		SuccessThreshold: 2,
	})

	require.Error(t, b.Call(func() error { return errors.New("down") }))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(5 * time.Millisecond)

	require.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Call(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerProbeFailureReopens(t *testing.T) {
	b := NewBreaker("redis", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Millisecond,
	})

	require.Error(t, b.Call(func() error { return errors.New("down") }))
	time.Sleep(5 * time.Millisecond)
	require.Error(t, b.Call(func() error { return errors.New("still down") }))
	assert.Equal(t, StateOpen, b.State())
}
