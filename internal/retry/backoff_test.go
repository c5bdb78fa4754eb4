package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

var _ savemigrate.BackoffStrategy = (*ExponentialBackoff)(nil)

func TestExponentialBackoff_DefaultValues(t *testing.T) {
	strategy := NewExponentialBackoff(3)

	assert.Equal(t, 100*time.Millisecond, strategy.InitialDelay())
	assert.Equal(t, 30*time.Second, strategy.MaxDelay())
	assert.Equal(t, 2.0, strategy.Multiplier())
	assert.Equal(t, 0.1, strategy.Jitter())
	assert.Equal(t, 3, strategy.MaxAttempts())
}

func TestExponentialBackoff_NextDelay_WithoutJitter(t *testing.T) {
	strategy := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0),
	)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1600 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, strategy.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoff_NextDelay_CappedAtMax(t *testing.T) {
	strategy := NewExponentialBackoff(10,
		WithInitialDelay(time.Second),
		WithMaxDelay(5*time.Second),
		WithJitter(0),
	)

	assert.Equal(t, 5*time.Second, strategy.NextDelay(8))
}

func TestExponentialBackoff_NextDelay_JitterBounds(t *testing.T) {
	low := NewExponentialBackoff(3, WithJitter(0.1), WithJitterFunc(func() float64 { return 0 }))
	high := NewExponentialBackoff(3, WithJitter(0.1), WithJitterFunc(func() float64 { return 1 }))
	mid := NewExponentialBackoff(3, WithJitter(0.1), WithJitterFunc(func() float64 { return 0.5 }))

	assert.Equal(t, 90*time.Millisecond, low.NextDelay(0))
	assert.Equal(t, 110*time.Millisecond, high.NextDelay(0))
	assert.Equal(t, 100*time.Millisecond, mid.NextDelay(0))
}

func TestExponentialBackoff_RandomJitterStaysInRange(t *testing.T) {
	strategy := NewExponentialBackoff(3, WithInitialDelay(time.Second), WithJitter(0.2))

	for i := 0; i < 100; i++ {
		d := strategy.NextDelay(0)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}
