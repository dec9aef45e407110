package filter

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/rules"
)

// accountStatusStage removes candidates that must never surface:
// hidden or unactivated profiles, actively suspended accounts, and any
// pair with a block in either direction. A suspension with an expiry
// in the past no longer excludes the candidate.
func (s *Service) accountStatusStage(requester matching.Profile, candidates []matching.Profile, now time.Time) []matching.Profile {
	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.ID == requester.ID {
			continue
		}
		if c.Hidden || !c.Activated {
			continue
		}
		if suspensionActive(c, now) {
			continue
		}
		if requester.HasBlocked(c.ID) || c.HasBlocked(requester.ID) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func suspensionActive(p matching.Profile, now time.Time) bool {
	if !p.Suspended {
		return false
	}
	if p.SuspensionExpiresAt == nil {
		return true
	}
	return p.SuspensionExpiresAt.After(now)
}

// dealBreakerStage applies the requester's tagged hard limits. Missing
// candidate data passes every tag except no_education, which excludes
// candidates that never stated an education level. The long_distance
// tag is handled by the distance stage via the effective radius, and
// different_tribe is enforced upstream, so both are no-ops here.
func (s *Service) dealBreakerStage(requester matching.Profile, prefs matching.PreferenceRecord, breakers rules.DealBreakerSet, candidates []matching.Profile) []matching.Profile {
	if breakers.Empty() {
		return candidates
	}
	if breakers.Has(rules.DealBreakerDifferentTribe) && !rules.DealBreakerEnforcedHere(rules.DealBreakerDifferentTribe) {
		s.log.Debug("tribe deal-breaker deferred to upstream discovery", zap.Int64("user_id", requester.ID))
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if breakers.Has(rules.DealBreakerSmoking) && rules.SmokingViolation(c.Smoking) {
			continue
		}
		if breakers.Has(rules.DealBreakerDrinking) && rules.DrinkingViolation(c.Drinking) {
			continue
		}
		if breakers.Has(rules.DealBreakerNoEducation) && rules.NoFormalEducation(c.EducationLevel) {
			continue
		}
		if breakers.Has(rules.DealBreakerHasChildren) && strings.EqualFold(strings.TrimSpace(c.HasChildren), "yes") {
			continue
		}
		if breakers.Has(rules.DealBreakerDifferentReligion) && religionMismatch(requester, prefs, c) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// religionMismatch compares the candidate against the requester's
// preferred religions when stated, falling back to the requester's own
// religion group. A candidate with no stated religion always passes.
func religionMismatch(requester matching.Profile, prefs matching.PreferenceRecord, c matching.Profile) bool {
	if strings.TrimSpace(c.Religion) == "" {
		return false
	}
	if len(prefs.ReligionPreferences) > 0 {
		for _, want := range prefs.ReligionPreferences {
			if rules.SameReligionGroup(want, c.Religion) {
				return false
			}
		}
		return true
	}
	if strings.TrimSpace(requester.Religion) == "" {
		return false
	}
	return !rules.SameReligionGroup(requester.Religion, c.Religion)
}

// ageBoundStage keeps candidates whose age falls inside the inclusive
// [MinAge, MaxAge] window. Candidates without a birthdate cannot prove
// they are inside the window and are excluded. Bounds of zero disable
// the corresponding side.
func (s *Service) ageBoundStage(prefs matching.PreferenceRecord, candidates []matching.Profile, now time.Time) []matching.Profile {
	if prefs.MinAge <= 0 && prefs.MaxAge <= 0 {
		return candidates
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.Birthdate == nil {
			continue
		}
		age := rules.AgeAt(*c.Birthdate, now)
		if prefs.MinAge > 0 && age < prefs.MinAge {
			continue
		}
		if prefs.MaxAge > 0 && age > prefs.MaxAge {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// distanceStage removes candidates beyond the effective radius. It
// fails open on resolution gaps: the whole stage is skipped when the
// requester's location cannot be resolved, and an individual candidate
// whose location cannot be resolved is kept.
func (s *Service) distanceStage(ctx context.Context, requester matching.Profile, candidates []matching.Profile, radiusKM float64, enforced bool) []matching.Profile {
	if !enforced || s.geo == nil {
		return candidates
	}

	origin := s.geo.Resolve(ctx, requester.Location)
	if origin == nil {
		s.log.Warn("distance stage skipped: requester location unresolved",
			zap.Int64("user_id", requester.ID),
			zap.String("location", requester.Location),
		)
		return candidates
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		loc := s.geo.Resolve(ctx, c.Location)
		if loc == nil {
			kept = append(kept, c)
			continue
		}
		if s.geo.DistanceKM(origin.Lat, origin.Lon, loc.Lat, loc.Lon) <= radiusKM {
			kept = append(kept, c)
		}
	}
	return kept
}

// childrenStage applies the explicit has-children preference. When the
// has_children deal-breaker is set the deal-breaker stage already
// removed parents, so the whole stage is skipped. Wants-children never
// hard-filters; it only feeds scoring. Candidates who never answered
// pass.
func (s *Service) childrenStage(prefs matching.PreferenceRecord, breakers rules.DealBreakerSet, candidates []matching.Profile) []matching.Profile {
	pref := strings.ToLower(strings.TrimSpace(prefs.HasChildrenPreference))
	if pref == "" || pref == "any" {
		return candidates
	}
	if breakers.Has(rules.DealBreakerHasChildren) {
		return candidates
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		answer := strings.ToLower(strings.TrimSpace(c.HasChildren))
		switch pref {
		case "no":
			if answer == "yes" {
				continue
			}
		case "yes":
			if answer == "no" {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// countryPoolStage keeps candidates with a connection to the pool
// country through any identity signal: country of origin, nationality,
// or the trailing segments of the free-text location. Matching is
// case-insensitive substring in either direction, so "USA" pools catch
// "United States" identities and vice versa.
func (s *Service) countryPoolStage(prefs matching.PreferenceRecord, candidates []matching.Profile) []matching.Profile {
	pool := strings.ToLower(strings.TrimSpace(prefs.PoolCountry))
	if pool == "" || pool == "anywhere" {
		return candidates
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if countryMatches(pool, countryIdentities(c)) {
			kept = append(kept, c)
		}
	}
	return kept
}

func countryIdentities(p matching.Profile) []string {
	var ids []string
	if v := strings.TrimSpace(p.CountryOfOrigin); v != "" {
		ids = append(ids, v)
	}
	if country, ok := rules.CountryForNationality(p.Nationality); ok {
		ids = append(ids, country)
	} else if v := strings.TrimSpace(p.Nationality); v != "" {
		ids = append(ids, v)
	}
	if parts := strings.Split(p.Location, ","); len(parts) > 1 {
		// Trailing segments of "Area, City, Country" style locations.
		for _, part := range parts[1:] {
			if v := strings.TrimSpace(part); v != "" {
				ids = append(ids, v)
			}
		}
	}
	return ids
}

func countryMatches(pool string, identities []string) bool {
	for _, id := range identities {
		id = strings.ToLower(id)
		if strings.Contains(id, pool) || strings.Contains(pool, id) {
			return true
		}
	}
	return false
}

// highSchoolStage restricts minors to their own school circle. Adults
// are never school-filtered, a school list with an "any" sentinel
// keeps everyone, and minors without a stated school are kept so a
// sparse profile does not empty the pool.
func (s *Service) highSchoolStage(requester matching.Profile, prefs matching.PreferenceRecord, candidates []matching.Profile, now time.Time) []matching.Profile {
	if !rules.IsMinor(requester.Birthdate, now) {
		return candidates
	}
	schools, anySchool := rules.ParseSchoolList(prefs.HighSchools)
	if anySchool {
		return candidates
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if !rules.IsMinor(c.Birthdate, now) {
			kept = append(kept, c)
			continue
		}
		school := strings.ToLower(strings.TrimSpace(c.HighSchool))
		if school == "" {
			kept = append(kept, c)
			continue
		}
		for _, want := range schools {
			if school == want {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}
