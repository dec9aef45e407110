package geo

import (
	"context"
	"math"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

// NeutralTimezoneScore is substituted whenever either side of a pair
// cannot be resolved.
const NeutralTimezoneScore = 0.5

// Active hours assumed for every user: 09:00-23:00 local, 14 hours.
const (
	activeDayStartHour = 9
	activeDayEndHour   = 23
	activeDayHours     = activeDayEndHour - activeDayStartHour
)

type TimezoneCompat struct {
	Score        float64
	Label        string
	HourDiff     float64
	OverlapHours int
	Confidence   float64
}

// TimezoneCompatibility scores how well two locations' waking hours
// line up. Unresolvable locations yield the neutral score with zero
// confidence rather than a hard failure.
func (s *Service) TimezoneCompatibility(ctx context.Context, locA, locB string) TimezoneCompat {
	recordA := s.Resolve(ctx, locA)
	recordB := s.Resolve(ctx, locB)
	if recordA == nil || recordB == nil {
		return TimezoneCompat{Score: NeutralTimezoneScore, Label: "unknown"}
	}

	offsetA := utcOffsetHours(*recordA)
	offsetB := utcOffsetHours(*recordB)

	diff := math.Abs(offsetA - offsetB)
	if diff > 12 {
		diff = 24 - diff
	}

	overlap := activeHourOverlap(offsetA, offsetB)

	score := baseTimezoneScore(diff)
	headroom := 1 - score
	bonus := float64(overlap) / float64(activeDayHours) * 0.2
	if bonus > headroom {
		bonus = headroom
	}
	score = clamp01(score + bonus)

	confidence := recordA.Confidence
	if recordB.Confidence < confidence {
		confidence = recordB.Confidence
	}

	return TimezoneCompat{
		Score:        score,
		Label:        timezoneLabel(score),
		HourDiff:     diff,
		OverlapHours: overlap,
		Confidence:   confidence,
	}
}

func baseTimezoneScore(diff float64) float64 {
	switch {
	case diff == 0:
		return 1.0
	case diff <= 3:
		return 0.8 - 0.1*diff
	case diff <= 8:
		return 0.6 - 0.05*diff
	default:
		return math.Max(0.1, 0.4-0.02*diff)
	}
}

// utcOffsetHours prefers the record's known offset and falls back to
// the longitude/15 estimate.
func utcOffsetHours(record matching.LocationRecord) float64 {
	if record.UTCOffsetHours != nil {
		return *record.UTCOffsetHours
	}
	return record.Lon / 15
}

// activeHourOverlap counts UTC hours both sides are inside their
// local 09:00-23:00 window, handling day wrap.
func activeHourOverlap(offsetA, offsetB float64) int {
	hoursA := activeHoursUTC(offsetA)
	hoursB := activeHoursUTC(offsetB)

	overlap := 0
	for hour := range hoursA {
		if hoursB[hour] {
			overlap++
		}
	}
	return overlap
}

func activeHoursUTC(offset float64) map[int]bool {
	hours := make(map[int]bool, activeDayHours)
	shift := int(math.Round(offset))
	for local := activeDayStartHour; local < activeDayEndHour; local++ {
		utc := ((local-shift)%24 + 24) % 24
		hours[utc] = true
	}
	return hours
}

func timezoneLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "fair"
	default:
		return "poor"
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return NeutralTimezoneScore
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
