package scoring

import (
	"context"
	"strings"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/rules"
)

// Geographic factor weights.
const (
	geoPreferenceWeight = 0.30
	geoCulturalWeight   = 0.25
	geoDistanceWeight   = 0.25
	geoTimezoneWeight   = 0.20

	milesToKM = 1.60934
)

func (s *Service) geographicScore(ctx context.Context, requester matching.Profile, prefs matching.PreferenceRecord, candidate matching.Profile) float64 {
	if s.geo == nil {
		return Neutral
	}

	locA := s.geo.Resolve(ctx, requester.Location)
	locB := s.geo.Resolve(ctx, candidate.Location)

	distanceKM := -1.0
	if locA != nil && locB != nil {
		distanceKM = s.geo.DistanceKM(locA.Lat, locA.Lon, locB.Lat, locB.Lon)
	}

	preference := locationPreferenceScore(prefs, locA, locB, distanceKM)
	cultural := culturalAlignmentScore(requester, candidate, locA, locB)
	distance := distanceBucketScore(distanceKM)
	timezone := s.geo.TimezoneCompatibility(ctx, requester.Location, candidate.Location).Score

	return geoPreferenceWeight*preference +
		geoCulturalWeight*cultural +
		geoDistanceWeight*distance +
		geoTimezoneWeight*timezone
}

// locationPreferenceScore measures how well the actual separation fits
// the stated distance preference. An unlimited preference treats any
// distance as a good fit; the country-only sentinel cares about the
// resolved countries rather than kilometers.
func locationPreferenceScore(prefs matching.PreferenceRecord, locA, locB *matching.LocationRecord, distanceKM float64) float64 {
	switch {
	case prefs.DistanceMiles == matching.DistanceUnlimited:
		return 0.8
	case matching.IsCountryOnly(prefs.DistanceMiles):
		if locA == nil || locB == nil {
			return Neutral
		}
		if sameCountry(locA.Country, locB.Country) {
			return 1.0
		}
		return 0.3
	case prefs.DistanceMiles <= 0:
		return Neutral
	}

	if distanceKM < 0 {
		return Neutral
	}
	prefKM := prefs.DistanceMiles * milesToKM
	if distanceKM <= prefKM {
		// Inside the preferred radius, rewarding closer candidates.
		return 1.0 - 0.4*(distanceKM/prefKM)
	}
	over := prefKM / distanceKM * 0.5
	if over < 0.1 {
		return 0.1
	}
	return over
}

// culturalAlignmentScore checks country-level ties between the two
// profiles: resolved location countries, declared origin, and the
// nationality lookup all count.
func culturalAlignmentScore(requester, candidate matching.Profile, locA, locB *matching.LocationRecord) float64 {
	countryA := firstNonEmpty(countryOf(locA), requester.CountryOfOrigin, nationalityCountry(requester.Nationality))
	countryB := firstNonEmpty(countryOf(locB), candidate.CountryOfOrigin, nationalityCountry(candidate.Nationality))

	if countryA == "" || countryB == "" {
		return Neutral
	}
	if sameCountry(countryA, countryB) {
		return 1.0
	}
	// A candidate whose declared origin matches the requester's country
	// still carries a partial tie even when living elsewhere.
	if sameCountry(countryA, candidate.CountryOfOrigin) || sameCountry(countryB, requester.CountryOfOrigin) {
		return 0.7
	}
	return 0.2
}

func distanceBucketScore(distanceKM float64) float64 {
	if distanceKM < 0 {
		return Neutral
	}
	switch {
	case distanceKM <= 5:
		return 1.0
	case distanceKM <= 25:
		return 0.9
	case distanceKM <= 50:
		return 0.8
	case distanceKM <= 100:
		return 0.65
	case distanceKM <= 250:
		return 0.5
	case distanceKM <= 500:
		return 0.35
	case distanceKM <= 1000:
		return 0.25
	default:
		return 0.1
	}
}

func countryOf(loc *matching.LocationRecord) string {
	if loc == nil {
		return ""
	}
	return loc.Country
}

func nationalityCountry(nationality string) string {
	if country, ok := rules.CountryForNationality(nationality); ok {
		return country
	}
	return ""
}

func sameCountry(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
