package surge

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/ridesync/ridesync/pkg/logger"
)

// Multiplier bounds. Everything the estimator emits lands in this range.
const (
	MinMultiplier = 1.0
	MaxMultiplier = 2.5
)

// DemandSource produces a demand factor in [0.2, 0.6] from the current
// active-ride count. Injectable so tests can pin it.
type DemandSource interface {
	Factor(activeRides int) float64
}

// OverrideStore exposes an operator-set surge multiplier. Absent or
// unreachable stores fall back to the heuristic.
type OverrideStore interface {
	Get(ctx context.Context) (float64, bool, error)
}

// Config holds estimator dependencies
type Config struct {
	Demand   DemandSource
	Override OverrideStore
	Clock    func() time.Time
	Logger   *logger.Logger
}

// Estimator produces a surge multiplier from wall-clock time and a
// coarse demand signal.
type Estimator struct {
	demand   DemandSource
	override OverrideStore
	now      func() time.Time
	logger   *logger.Logger
}

// New creates a surge estimator
func New(cfg Config) *Estimator {
	e := &Estimator{
		demand:   cfg.Demand,
		override: cfg.Override,
		now:      cfg.Clock,
		logger:   cfg.Logger,
	}
	if e.demand == nil {
		e.demand = RandomDemand{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = logger.NewNop()
	}
	return e
}

// Estimate returns the surge multiplier for a booking happening now.
// An operator override, when set, wins over the heuristic.
func (e *Estimator) Estimate(ctx context.Context, activeRides int) float64 {
	if e.override != nil {
		if v, ok, err := e.override.Get(ctx); err != nil {
			e.logger.Warn("Surge override store unreachable, using heuristic", logger.Err(err))
		} else if ok {
			return round2(clamp(v))
		}
	}

	now := e.now()
	multiplier := 1.0

	hour := now.Hour()
	if (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19) {
		multiplier += 0.5 // morning and evening rush
	}
	if hour >= 22 || hour <= 5 {
		multiplier += 0.3 // late night
	}

	if day := now.Weekday(); day == time.Saturday || day == time.Sunday {
		multiplier += 0.2
	}

	multiplier += e.demand.Factor(activeRides)

	return round2(clamp(multiplier))
}

// RandomDemand is the default demand source: a bounded pseudo-random
// factor seeded per call, standing in for real demand telemetry.
type RandomDemand struct{}

// Factor returns a value in [0.2, 0.6]
func (RandomDemand) Factor(activeRides int) float64 {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(activeRides)))
	return 0.2 + rng.Float64()*0.4
}

// FixedDemand pins the demand factor. Used by tests and demos.
type FixedDemand float64

// Factor returns the pinned value
func (f FixedDemand) Factor(int) float64 {
	return float64(f)
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, MinMultiplier), MaxMultiplier)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
