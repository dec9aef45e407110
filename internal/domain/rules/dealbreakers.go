package rules

import (
	"encoding/json"
	"strings"
)

type DealBreaker string

const (
	DealBreakerSmoking           DealBreaker = "smoking"
	DealBreakerDrinking          DealBreaker = "drinking"
	DealBreakerDifferentReligion DealBreaker = "different_religion"
	DealBreakerNoEducation       DealBreaker = "no_education"
	DealBreakerHasChildren       DealBreaker = "has_children"
	DealBreakerLongDistance      DealBreaker = "long_distance"
	DealBreakerDifferentTribe    DealBreaker = "different_tribe"
)

// DealBreakerEnforcedHere reports whether the filtering core applies
// the tag itself. Recognized tags outside this set (tribe matching)
// are enforced by upstream discovery, not by this pipeline.
func DealBreakerEnforcedHere(kind DealBreaker) bool {
	switch kind {
	case DealBreakerSmoking, DealBreakerDrinking, DealBreakerDifferentReligion,
		DealBreakerNoEducation, DealBreakerHasChildren, DealBreakerLongDistance:
		return true
	default:
		return false
	}
}

// DealBreakerSet is the typed form of the stored deal-breaker blob,
// parsed once at the pipeline boundary.
type DealBreakerSet struct {
	known   map[DealBreaker]bool
	Unknown []string
}

func (s DealBreakerSet) Has(kind DealBreaker) bool {
	return s.known[kind]
}

func (s DealBreakerSet) Empty() bool {
	return len(s.known) == 0 && len(s.Unknown) == 0
}

// ParseDealBreakers accepts the two legacy encodings of the preference
// blob: a JSON string array, or a plain comma-separated list. A blob
// that parses as neither is treated as empty.
func ParseDealBreakers(raw string) DealBreakerSet {
	set := DealBreakerSet{known: map[DealBreaker]bool{}}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return set
	}

	var tags []string
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &tags); err != nil {
			return set
		}
	} else {
		tags = strings.Split(trimmed, ",")
	}

	for _, tag := range tags {
		normalized := normalizeTag(tag)
		if normalized == "" {
			continue
		}
		kind := DealBreaker(normalized)
		switch kind {
		case DealBreakerSmoking, DealBreakerDrinking, DealBreakerDifferentReligion,
			DealBreakerNoEducation, DealBreakerHasChildren, DealBreakerLongDistance,
			DealBreakerDifferentTribe:
			set.known[kind] = true
		default:
			set.Unknown = append(set.Unknown, normalized)
		}
	}

	return set
}

func normalizeTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.ReplaceAll(t, "-", "_")
	t = strings.ReplaceAll(t, " ", "_")
	return t
}

// SmokingViolation reports nonzero usage: anything other than an
// explicit "no" answer counts, missing data does not.
func SmokingViolation(usage string) bool {
	return usageViolation(usage)
}

func DrinkingViolation(usage string) bool {
	return usageViolation(usage)
}

func usageViolation(usage string) bool {
	switch strings.ToLower(strings.TrimSpace(usage)) {
	case "", "no", "never":
		return false
	default:
		return true
	}
}

// NoFormalEducation reports whether the stated level counts as lacking
// formal education. Unlike the usage predicates this one treats a
// missing answer as a violation.
func NoFormalEducation(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "none", "no formal education":
		return true
	default:
		return false
	}
}
