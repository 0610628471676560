package pricing

import (
	"testing"

	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/stretchr/testify/assert"
)

// TestFare_Formula tests the per-category fare formula
func TestFare_Formula(t *testing.T) {
	tests := []struct {
		name     string
		category ride.Category
		distance float64
		surge    float64
		expected float64
	}{
		{
			name:     "standard 16.9km at 1.2 surge",
			category: ride.CategoryStandard,
			distance: 16.9,
			surge:    1.2,
			expected: 226.8, // (16.9*10 + 20) * 1.2
		},
		{
			name:     "standard no surge",
			category: ride.CategoryStandard,
			distance: 10,
			surge:    1.0,
			expected: 120, // 10*10 + 20
		},
		{
			name:     "pool is cheaper",
			category: ride.CategoryPool,
			distance: 10,
			surge:    1.0,
			expected: 70, // 10*6 + 10
		},
		{
			name:     "luxury carries a premium",
			category: ride.CategoryLuxury,
			distance: 10,
			surge:    1.0,
			expected: 300, // (10*20 + 50) * 1.2
		},
		{
			name:     "luxury premium compounds with surge",
			category: ride.CategoryLuxury,
			distance: 20,
			surge:    1.5,
			expected: 810, // (20*20 + 50) * 1.5 * 1.2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare := PolicyFor(tt.category).Fare(tt.distance, tt.surge)
			assert.InDelta(t, tt.expected, fare, 1e-9)
		})
	}
}

// TestFare_MinimumEnforced tests that short rides hit the floor
func TestFare_MinimumEnforced(t *testing.T) {
	tests := []struct {
		category ride.Category
		minimum  float64
	}{
		{ride.CategoryStandard, 30},
		{ride.CategoryPool, 20},
		{ride.CategoryLuxury, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			fare := PolicyFor(tt.category).Fare(0.5, 1.0)
			assert.Equal(t, tt.minimum, fare, "Short rides should charge the minimum fare")
		})
	}
}

// TestFare_SurgeOrdering tests that surge never lowers a fare
func TestFare_SurgeOrdering(t *testing.T) {
	p := PolicyFor(ride.CategoryStandard)

	base := p.Fare(12, 1.0)
	surged := p.Fare(12, 2.5)

	assert.Greater(t, surged, base)
}

// TestPolicyFor_UnknownCategory tests the fallback policy
func TestPolicyFor_UnknownCategory(t *testing.T) {
	assert.Equal(t, PolicyFor(ride.CategoryStandard), PolicyFor(ride.Category("rickshaw")))
}

// TestRound tests currency rounding at the surface
func TestRound(t *testing.T) {
	assert.Equal(t, 226.8, Round(226.79999999))
	assert.Equal(t, 93.33, Round(280.0/3))
	assert.Equal(t, 0.0, Round(0))
}

// BenchmarkFare benchmarks fare calculation
func BenchmarkFare(b *testing.B) {
	p := PolicyFor(ride.CategoryStandard)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Fare(16.9, 1.2)
	}
}
