package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, Exponential, p.Mode)
	assert.Equal(t, 250*time.Millisecond, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// Initial above max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, Fixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("jitter", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), unknown)
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(Fixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(Linear, 100*time.Millisecond, 250*time.Millisecond, 5)
	assert.Equal(t, 100*time.Millisecond, linear.Delay(1))
	assert.Equal(t, 200*time.Millisecond, linear.Delay(2))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(3))

	exp := NewPolicy(Exponential, 100*time.Millisecond, 350*time.Millisecond, 5)
	assert.Equal(t, 100*time.Millisecond, exp.Delay(1))
	assert.Equal(t, 200*time.Millisecond, exp.Delay(2))
	assert.Equal(t, 350*time.Millisecond, exp.Delay(3))

	assert.Zero(t, exp.Delay(0))
}

func TestDelayNeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom([]Mode{Fixed, Linear, Exponential}).Draw(t, "mode")
		initial := time.Duration(rapid.Int64Range(1, int64(time.Second)).Draw(t, "initial"))
		maxD := time.Duration(rapid.Int64Range(1, int64(time.Minute)).Draw(t, "max"))
		attempt := rapid.IntRange(0, 200).Draw(t, "attempt")

		p := NewPolicy(mode, initial, maxD, 3)
		d := p.Delay(attempt)
		if d < 0 || d > p.Max {
			t.Fatalf("delay %v outside [0, %v]", d, p.Max)
		}
	})
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastError(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("still down")
	})
	require.EqualError(t, err, "still down")
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnCancel(t *testing.T) {
	p := NewPolicy(Fixed, time.Hour, time.Hour, 5)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
