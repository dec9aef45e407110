package compat

import (
	"strings"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/rules"
)

// neutralScore is substituted when either side is missing data for a
// feature.
const neutralScore = 0.5

// Feature weights. They intentionally do not total 1.0, so the result
// is always normalized by the actual weight sum.
const (
	weightEthnicity      = 0.15
	weightReligion       = 0.20
	weightBodyType       = 0.10
	weightEducation      = 0.15
	weightHasChildren    = 0.15
	weightWantsChildren  = 0.15
	weightGoal           = 0.10
	weightLocation       = 0.10
	secondaryTribeScore  = 0.7
	religionGroupPartial = 0.7
)

// Feature is one scored categorical dimension.
type Feature struct {
	Name   string
	Weight float64
	Score  float64
}

// Result carries the normalized compatibility score plus the per
// feature breakdown for callers that expose it.
type Result struct {
	Score    float64
	Features []Feature
}

// Service scores categorical compatibility between two profiles. It is
// a pure computation with no storage or network dependencies.
type Service struct {
	log *zap.Logger
}

func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

func (s *Service) Score(a, b matching.Profile) Result {
	features := []Feature{
		{Name: "ethnicity", Weight: weightEthnicity, Score: ethnicityScore(a, b)},
		{Name: "religion", Weight: weightReligion, Score: religionScore(a.Religion, b.Religion)},
		{Name: "body_type", Weight: weightBodyType, Score: exactMatchScore(a.BodyType, b.BodyType)},
		{Name: "education_level", Weight: weightEducation, Score: educationScore(a.EducationLevel, b.EducationLevel)},
		{Name: "has_children", Weight: weightHasChildren, Score: triStateScore(a.HasChildren, b.HasChildren)},
		{Name: "wants_children", Weight: weightWantsChildren, Score: wantsChildrenScore(a, b)},
		{Name: "relationship_goal", Weight: weightGoal, Score: exactMatchScore(a.RelationshipGoal, b.RelationshipGoal)},
		{Name: "location", Weight: weightLocation, Score: locationScore(a, b)},
	}

	return Result{Score: combine(features), Features: features}
}

// combine normalizes by the actual weight sum rather than assuming the
// weights total 1.0.
func combine(features []Feature) float64 {
	weighted := 0.0
	weightSum := 0.0
	for _, f := range features {
		weighted += f.Weight * f.Score
		weightSum += f.Weight
	}
	if weightSum == 0 {
		return neutralScore
	}
	return weighted / weightSum
}

// ethnicityScore gives full credit for the same tribe and partial
// credit when one side's tribe appears among the other's secondary
// tribes.
func ethnicityScore(a, b matching.Profile) float64 {
	ethA := normalize(a.Ethnicity)
	ethB := normalize(b.Ethnicity)
	if ethA == "" || ethB == "" {
		return neutralScore
	}
	if ethA == ethB {
		return 1.0
	}
	if containsNormalized(a.SecondaryTribes, ethB) || containsNormalized(b.SecondaryTribes, ethA) {
		return secondaryTribeScore
	}
	return 0.0
}

// religionScore gives full credit for the same stated religion and
// partial credit for the same broad group (methodist vs catholic).
func religionScore(a, b string) float64 {
	relA := normalize(a)
	relB := normalize(b)
	if relA == "" || relB == "" {
		return neutralScore
	}
	if relA == relB {
		return 1.0
	}
	if rules.SameReligionGroup(relA, relB) {
		return religionGroupPartial
	}
	return 0.0
}

// educationLevels orders the recognized levels so distance between
// them grades the score.
var educationLevels = map[string]int{
	"none":          0,
	"primary":       1,
	"secondary":     2,
	"high school":   2,
	"diploma":       3,
	"vocational":    3,
	"bachelor":      4,
	"undergraduate": 4,
	"master":        5,
	"postgraduate":  5,
	"doctorate":     6,
	"phd":           6,
}

func educationScore(a, b string) float64 {
	levelA, okA := educationLevels[normalize(a)]
	levelB, okB := educationLevels[normalize(b)]
	if !okA || !okB {
		return neutralScore
	}
	diff := levelA - levelB
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0.2
	}
}

// wantsChildrenScore adds complementary credit on top of the plain
// answer comparison: wanting children pairs with a partner who already
// has them.
func wantsChildrenScore(a, b matching.Profile) float64 {
	if complementaryChildren(a.WantsChildren, b) || complementaryChildren(b.WantsChildren, a) {
		return 1.0
	}
	return triStateScore(a.WantsChildren, b.WantsChildren)
}

func complementaryChildren(want string, other matching.Profile) bool {
	return normalize(want) == "yes" && normalize(other.HasChildren) == "yes"
}

// triStateScore compares "yes"/"no" answers, treating an unanswered
// side as neutral.
func triStateScore(a, b string) float64 {
	ansA := normalize(a)
	ansB := normalize(b)
	if ansA == "" || ansB == "" {
		return neutralScore
	}
	if ansA == ansB {
		return 1.0
	}
	return 0.0
}

func exactMatchScore(a, b string) float64 {
	valA := normalize(a)
	valB := normalize(b)
	if valA == "" || valB == "" {
		return neutralScore
	}
	if valA == valB {
		return 1.0
	}
	return 0.0
}

// locationScore grades free-text locations: same place beats same
// country beats different countries.
func locationScore(a, b matching.Profile) float64 {
	locA := normalize(a.Location)
	locB := normalize(b.Location)
	if locA == "" || locB == "" {
		return neutralScore
	}
	if locA == locB {
		return 1.0
	}
	if sameTrailingSegment(locA, locB) {
		return 0.6
	}
	return 0.2
}

func sameTrailingSegment(a, b string) bool {
	return lastSegment(a) != "" && lastSegment(a) == lastSegment(b)
}

func lastSegment(location string) string {
	parts := strings.Split(location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func containsNormalized(values []string, want string) bool {
	for _, v := range values {
		if normalize(v) == want {
			return true
		}
	}
	return false
}
