package pricing

import (
	"math"

	"github.com/ridesync/ridesync/internal/domain/ride"
)

// Policy maps (distance, surge) to a fare. Policies are pure: no
// clocks, no repository state.
type Policy struct {
	BaseFee     float64
	PerKM       float64
	Premium     float64
	MinimumFare float64
}

var policies = map[ride.Category]Policy{
	ride.CategoryStandard: {BaseFee: 20, PerKM: 10, Premium: 1.0, MinimumFare: 30},
	ride.CategoryPool:     {BaseFee: 10, PerKM: 6, Premium: 1.0, MinimumFare: 20},
	ride.CategoryLuxury:   {BaseFee: 50, PerKM: 20, Premium: 1.2, MinimumFare: 100},
}

// PolicyFor returns the pricing policy for a ride category.
// Unknown categories price as standard.
func PolicyFor(category ride.Category) Policy {
	if p, ok := policies[category]; ok {
		return p
	}
	return policies[ride.CategoryStandard]
}

// Fare computes the fare for a distance under the given surge
// multiplier, floored at the policy minimum.
func (p Policy) Fare(distanceKM, surge float64) float64 {
	fare := (distanceKM*p.PerKM + p.BaseFee) * surge * p.Premium
	return math.Max(fare, p.MinimumFare)
}

// Round rounds a currency amount to two decimal places
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
