package surge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-03-13 is a Wednesday, 2024-03-16 a Saturday.
func clockAt(day int, hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
	}
}

// TestEstimate_Rules tests the additive surge heuristic
func TestEstimate_Rules(t *testing.T) {
	tests := []struct {
		name     string
		clock    func() time.Time
		demand   float64
		expected float64
	}{
		{
			name:     "weekday morning rush",
			clock:    clockAt(13, 8, 30),
			demand:   0.3,
			expected: 1.8, // 1.0 + 0.5 rush + 0.3 demand
		},
		{
			name:     "weekday mid-morning",
			clock:    clockAt(13, 10, 0),
			demand:   0.2,
			expected: 1.2,
		},
		{
			name:     "weekday evening rush",
			clock:    clockAt(13, 18, 0),
			demand:   0.2,
			expected: 1.7,
		},
		{
			name:     "weekday late night",
			clock:    clockAt(13, 23, 0),
			demand:   0.2,
			expected: 1.5, // 1.0 + 0.3 late night + 0.2 demand
		},
		{
			name:     "weekday small hours",
			clock:    clockAt(13, 3, 0),
			demand:   0.2,
			expected: 1.5,
		},
		{
			name:     "saturday afternoon",
			clock:    clockAt(16, 14, 0),
			demand:   0.2,
			expected: 1.4, // 1.0 + 0.2 weekend + 0.2 demand
		},
		{
			name:     "saturday morning rush with peak demand",
			clock:    clockAt(16, 8, 0),
			demand:   0.6,
			expected: 2.3, // 1.0 + 0.5 + 0.2 + 0.6
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Config{Demand: FixedDemand(tt.demand), Clock: tt.clock})
			assert.Equal(t, tt.expected, e.Estimate(context.Background(), 0))
		})
	}
}

// TestEstimate_Bounds tests that every output stays in range
func TestEstimate_Bounds(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for day := 13; day <= 17; day++ {
			e := New(Config{Demand: RandomDemand{}, Clock: clockAt(day, hour, 0)})
			m := e.Estimate(context.Background(), hour*day)

			assert.GreaterOrEqual(t, m, MinMultiplier)
			assert.LessOrEqual(t, m, MaxMultiplier)
		}
	}
}

// TestRandomDemand_Range tests the default demand source bounds
func TestRandomDemand_Range(t *testing.T) {
	src := RandomDemand{}
	for i := 0; i < 100; i++ {
		f := src.Factor(i)
		assert.GreaterOrEqual(t, f, 0.2)
		assert.LessOrEqual(t, f, 0.6)
	}
}

type stubOverride struct {
	value float64
	set   bool
	err   error
}

func (s stubOverride) Get(context.Context) (float64, bool, error) {
	return s.value, s.set, s.err
}

// TestEstimate_OverrideWins tests that a set override beats the heuristic
func TestEstimate_OverrideWins(t *testing.T) {
	e := New(Config{
		Demand:   FixedDemand(0.3),
		Override: stubOverride{value: 2.0, set: true},
		Clock:    clockAt(13, 8, 30),
	})

	assert.Equal(t, 2.0, e.Estimate(context.Background(), 0))
}

// TestEstimate_OverrideClamped tests out-of-range overrides are clamped
func TestEstimate_OverrideClamped(t *testing.T) {
	e := New(Config{
		Demand:   FixedDemand(0.2),
		Override: stubOverride{value: 9.9, set: true},
		Clock:    clockAt(13, 10, 0),
	})

	assert.Equal(t, MaxMultiplier, e.Estimate(context.Background(), 0))
}

// TestEstimate_OverrideStoreDown tests graceful fallback to the heuristic
func TestEstimate_OverrideStoreDown(t *testing.T) {
	e := New(Config{
		Demand:   FixedDemand(0.2),
		Override: stubOverride{err: errors.New("connection refused")},
		Clock:    clockAt(13, 10, 0),
	})

	assert.Equal(t, 1.2, e.Estimate(context.Background(), 0))
}
