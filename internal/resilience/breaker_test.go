package resilience_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/motortemp/internal/resilience"
)

var errSink = errors.New("sink unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fail(cb *resilience.CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errSink })
	}
}

func succeed(cb *resilience.CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		cfg           resilience.CircuitBreakerConfig
		setup         func(cb *resilience.CircuitBreaker, clock *fakeClock)
		expectedState resilience.State
	}{
		{
			name:          "success keeps circuit closed",
			cfg:           resilience.CircuitBreakerConfig{MaxFailures: 3},
			setup:         func(cb *resilience.CircuitBreaker, _ *fakeClock) { succeed(cb, 5) },
			expectedState: resilience.StateClosed,
		},
		{
			name:          "opens after max consecutive failures",
			cfg:           resilience.CircuitBreakerConfig{MaxFailures: 3},
			setup:         func(cb *resilience.CircuitBreaker, _ *fakeClock) { fail(cb, 3) },
			expectedState: resilience.StateOpen,
		},
		{
			name: "success resets the failure streak",
			cfg:  resilience.CircuitBreakerConfig{MaxFailures: 3},
			setup: func(cb *resilience.CircuitBreaker, _ *fakeClock) {
				fail(cb, 2)
				succeed(cb, 1)
				fail(cb, 2)
			},
			expectedState: resilience.StateClosed,
		},
		{
			name: "half-open after cooldown",
			cfg:  resilience.CircuitBreakerConfig{MaxFailures: 2, Cooldown: time.Minute, HalfOpenSuccesses: 2},
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				fail(cb, 2)
				clock.Advance(time.Minute)
				succeed(cb, 1)
			},
			expectedState: resilience.StateHalfOpen,
		},
		{
			name: "closes after enough trial successes",
			cfg:  resilience.CircuitBreakerConfig{MaxFailures: 2, Cooldown: time.Minute, HalfOpenSuccesses: 2},
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				fail(cb, 2)
				clock.Advance(time.Minute)
				succeed(cb, 2)
			},
			expectedState: resilience.StateClosed,
		},
		{
			name: "trial failure reopens",
			cfg:  resilience.CircuitBreakerConfig{MaxFailures: 2, Cooldown: time.Minute},
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				fail(cb, 2)
				clock.Advance(2 * time.Minute)
				fail(cb, 1)
			},
			expectedState: resilience.StateOpen,
		},
		{
			name: "ignored errors do not count",
			cfg: resilience.CircuitBreakerConfig{
				MaxFailures: 1,
				IsFailure:   func(err error) bool { return !errors.Is(err, errSink) },
			},
			setup:         func(cb *resilience.CircuitBreaker, _ *fakeClock) { fail(cb, 10) },
			expectedState: resilience.StateClosed,
		},
		{
			name: "reset closes an open circuit",
			cfg:  resilience.CircuitBreakerConfig{MaxFailures: 1, Cooldown: time.Hour},
			setup: func(cb *resilience.CircuitBreaker, _ *fakeClock) {
				fail(cb, 1)
				cb.Reset()
			},
			expectedState: resilience.StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			tt.cfg.Clock = clock.Now
			cb := resilience.NewCircuitBreaker(tt.cfg)

			tt.setup(cb, clock)

			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_OpenRejectsUntilCooldown(t *testing.T) {
	clock := newFakeClock()
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures: 2,
		Cooldown:    30 * time.Second,
		Clock:       clock.Now,
	})
	fail(cb, 2)

	calls := 0
	err := cb.Execute(func() error { calls++; return nil })
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Zero(t, calls)

	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), resilience.ErrCircuitOpen)

	clock.Advance(time.Second)
	assert.NoError(t, cb.Execute(func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)
	assert.Equal(t, resilience.StateClosed, cb.State())
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	clock := newFakeClock()
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "postgres",
		MaxFailures: 3,
		Cooldown:    time.Minute,
		Clock:       clock.Now,
	})

	fail(cb, 2)
	snap := cb.Snapshot()
	assert.Equal(t, "postgres", snap.Name)
	assert.Equal(t, resilience.StateClosed, snap.State)
	assert.Equal(t, 2, snap.Failures)
	assert.Equal(t, clock.Now(), snap.LastFailure)
	assert.True(t, snap.RetryAt.IsZero())

	clock.Advance(time.Second)
	fail(cb, 1)
	snap = cb.Snapshot()
	assert.Equal(t, resilience.StateOpen, snap.State)
	assert.Equal(t, clock.Now().Add(time.Minute), snap.RetryAt)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	clock := newFakeClock()
	changes := make(chan [2]resilience.State, 4)
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "redis",
		MaxFailures: 1,
		Cooldown:    time.Second,
		Clock:       clock.Now,
		OnStateChange: func(name string, from, to resilience.State) {
			assert.Equal(t, "redis", name)
			changes <- [2]resilience.State{from, to}
		},
	})

	fail(cb, 1)
	clock.Advance(time.Second)
	succeed(cb, 1)

	var got [][2]resilience.State
	for i := 0; i < 3; i++ {
		select {
		case c := <-changes:
			got = append(got, c)
		case <-time.After(time.Second):
			t.Fatalf("expected 3 state changes, got %d", len(got))
		}
	}

	// callbacks run on their own goroutines, so only the set is stable
	assert.ElementsMatch(t, [][2]resilience.State{
		{resilience.StateClosed, resilience.StateOpen},
		{resilience.StateOpen, resilience.StateHalfOpen},
		{resilience.StateHalfOpen, resilience.StateClosed},
	}, got)
}

func TestCircuitBreaker_ExecuteContext(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		fn          func(ctx context.Context) error
		expectedErr error
	}{
		{
			name:    "completes before deadline",
			timeout: time.Second,
			fn:      func(ctx context.Context) error { return nil },
		},
		{
			name:    "deadline exceeded maps to timeout",
			timeout: 10 * time.Millisecond,
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			expectedErr: resilience.ErrCircuitTimeout,
		},
		{
			name:    "zero timeout runs without deadline",
			timeout: 0,
			fn: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); ok {
					return errors.New("unexpected deadline")
				}
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "sink", MaxFailures: 3})

			err := cb.ExecuteContext(context.Background(), tt.timeout, tt.fn)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCircuitBreaker_TimeoutsOpenCircuit(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "redis",
		MaxFailures: 2,
		Cooldown:    time.Hour,
	})

	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	for i := 0; i < 2; i++ {
		_ = cb.ExecuteContext(context.Background(), 5*time.Millisecond, slow)
	}

	require.Equal(t, resilience.StateOpen, cb.State())
	assert.Equal(t, "redis", cb.Name())
}
