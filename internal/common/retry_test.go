package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/service"
)

func fastRetryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry_SucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return NewTransportError("fetch", errors.New("connection reset"))
		}
		return nil
	}, fastRetryOptions())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_ValidationErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return NewValidationError("bad input", ErrEmptySelection)
	}, fastRetryOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return NewTransportError("fetch", errors.New("still down"))
	}, fastRetryOptions())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return NewTransportError("fetch", errors.New("down"))
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Minute})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport error", NewTransportError("fetch", errors.New("reset")), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"validation error", NewValidationError("bad", ErrEmptySelection), false},
		{"context canceled", context.Canceled, false},
		{"plain error", errors.New("whatever"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	validation := NewValidationError("document b2 is not fully processed", ErrNotSelectable)
	assert.ErrorIs(t, validation, ErrNotSelectable)
	assert.Contains(t, validation.Error(), "not fully processed")

	transport := NewTransportError("submit analysis", errors.New("502"))
	assert.Contains(t, transport.Error(), "submit analysis")
	assert.ErrorContains(t, transport, "502")
}
