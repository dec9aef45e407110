package rules

import "github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"

const (
	MilesToKM = 1.60934

	// Long-distance deal-breaker overrides: an unlimited preference is
	// pulled back to 25 miles, a finite one is tightened to 60% of the
	// stated radius and capped at 50 miles.
	longDistanceUnlimitedMiles = 25
	longDistanceTightenFactor  = 0.6
	longDistanceCapMiles       = 50
)

// EffectiveRadiusKM collapses the distance preference and the
// long-distance deal-breaker into the single radius the distance stage
// enforces. The second return is false when no radius applies (the
// stage is skipped): an unlimited or country-only preference without
// the long-distance tag.
func EffectiveRadiusKM(prefMiles float64, breakers DealBreakerSet) (float64, bool) {
	longDistance := breakers.Has(DealBreakerLongDistance)
	unbounded := prefMiles == matching.DistanceUnlimited || matching.IsCountryOnly(prefMiles)

	if !longDistance {
		if unbounded || prefMiles <= 0 {
			return 0, false
		}
		return prefMiles * MilesToKM, true
	}

	if unbounded || prefMiles <= 0 {
		return longDistanceUnlimitedMiles * MilesToKM, true
	}

	tightened := prefMiles * longDistanceTightenFactor
	if tightened > longDistanceCapMiles {
		tightened = longDistanceCapMiles
	}
	return tightened * MilesToKM, true
}
