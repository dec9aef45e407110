package rules

import (
	"math"
	"testing"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

func TestEffectiveRadiusKM(t *testing.T) {
	longDistance := ParseDealBreakers("long_distance")
	none := ParseDealBreakers("")

	cases := []struct {
		name     string
		miles    float64
		breakers DealBreakerSet
		wantKM   float64
		enforced bool
	}{
		{name: "unlimited_no_tag", miles: matching.DistanceUnlimited, breakers: none, enforced: false},
		{name: "country_only_no_tag", miles: matching.DistanceCountryOnly, breakers: none, enforced: false},
		{name: "above_country_only_no_tag", miles: matching.DistanceCountryOnly + 1, breakers: none, enforced: false},
		{name: "finite_no_tag", miles: 10, breakers: none, wantKM: 16.0934, enforced: true},
		{name: "unlimited_long_distance", miles: matching.DistanceUnlimited, breakers: longDistance, wantKM: 25 * MilesToKM, enforced: true},
		{name: "finite_long_distance_tightened", miles: 40, breakers: longDistance, wantKM: 24 * MilesToKM, enforced: true},
		{name: "finite_long_distance_capped", miles: 200, breakers: longDistance, wantKM: 50 * MilesToKM, enforced: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			km, enforced := EffectiveRadiusKM(tc.miles, tc.breakers)
			if enforced != tc.enforced {
				t.Fatalf("unexpected enforcement: got %v want %v", enforced, tc.enforced)
			}
			if tc.enforced && math.Abs(km-tc.wantKM) > 0.001 {
				t.Fatalf("unexpected radius: got %.4f want %.4f", km, tc.wantKM)
			}
		})
	}
}
