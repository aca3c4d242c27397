package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/credifraud/fraud-api-go/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreaker(t *testing.T, timeout time.Duration) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:            "test",
		MaxRequestsFail: 3,
		Timeout:         timeout,
		MaxRequests:     1,
	}, testutils.TestLogger(t), nil)
}

func TestCircuitBreaker_Execute(t *testing.T) {
	ctx := context.Background()
	failure := errors.New("downstream failure")

	t.Run("passes through while closed", func(t *testing.T) {
		cb := newBreaker(t, time.Minute)

		err := cb.Execute(ctx, func(ctx context.Context) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, resilience.StateClose, cb.GetState())
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb := newBreaker(t, time.Minute)

		for i := 0; i < 3; i++ {
			err := cb.Execute(ctx, func(ctx context.Context) error { return failure })
			require.ErrorIs(t, err, failure)
		}

		assert.Equal(t, resilience.StateOpen, cb.GetState())

		err := cb.Execute(ctx, func(ctx context.Context) error { return nil })
		require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		cb := newBreaker(t, time.Minute)

		for i := 0; i < 2; i++ {
			_ = cb.Execute(ctx, func(ctx context.Context) error { return failure })
		}
		require.NoError(t, cb.Execute(ctx, func(ctx context.Context) error { return nil }))

		// Mais duas falhas não devem abrir o circuito após o reset
		for i := 0; i < 2; i++ {
			_ = cb.Execute(ctx, func(ctx context.Context) error { return failure })
		}
		assert.Equal(t, resilience.StateClose, cb.GetState())
	})

	t.Run("half open closes on success", func(t *testing.T) {
		cb := newBreaker(t, 10*time.Millisecond)

		for i := 0; i < 3; i++ {
			_ = cb.Execute(ctx, func(ctx context.Context) error { return failure })
		}
		require.Equal(t, resilience.StateOpen, cb.GetState())

		time.Sleep(20 * time.Millisecond)

		require.NoError(t, cb.Execute(ctx, func(ctx context.Context) error { return nil }))
		assert.Equal(t, resilience.StateClose, cb.GetState())
	})

	t.Run("half open reopens on failure", func(t *testing.T) {
		cb := newBreaker(t, 10*time.Millisecond)

		for i := 0; i < 3; i++ {
			_ = cb.Execute(ctx, func(ctx context.Context) error { return failure })
		}

		time.Sleep(20 * time.Millisecond)

		require.ErrorIs(t, cb.Execute(ctx, func(ctx context.Context) error { return failure }), failure)
		assert.Equal(t, resilience.StateOpen, cb.GetState())
	})

	t.Run("reset closes the circuit", func(t *testing.T) {
		cb := newBreaker(t, time.Minute)

		for i := 0; i < 3; i++ {
			_ = cb.Execute(ctx, func(ctx context.Context) error { return failure })
		}
		require.Equal(t, resilience.StateOpen, cb.GetState())

		cb.Reset()
		assert.Equal(t, resilience.StateClose, cb.GetState())
	})
}
