package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
)

// Temporal factor weights.
const (
	temporalOnlineWeight   = 0.30
	temporalRecencyWeight  = 0.25
	temporalFreshWeight    = 0.20
	temporalPeakWeight     = 0.25
	peakDirectWeight       = 0.6
	peakAdjacentWeight     = 0.3
	peakTopHours           = 3
	activityStrengthEvents = 50
)

func (s *Service) temporalScore(ctx context.Context, requester, candidate matching.Profile, now time.Time) float64 {
	online := onlineBoost(candidate, now)
	recency := activityRecency(candidate.LastActiveAt, now)
	fresh := profileFreshness(candidate.UpdatedAt, now)
	peak := s.peakHourAlignment(ctx, requester.ID, candidate.ID, now)

	return temporalOnlineWeight*online +
		temporalRecencyWeight*recency +
		temporalFreshWeight*fresh +
		temporalPeakWeight*peak
}

func onlineBoost(p matching.Profile, now time.Time) float64 {
	if p.Online {
		return 1.0
	}
	if p.LastActiveAt == nil {
		return Neutral
	}
	switch since := now.Sub(*p.LastActiveAt); {
	case since <= 5*time.Minute:
		return 1.0
	case since <= 30*time.Minute:
		return 0.8
	case since <= 2*time.Hour:
		return 0.5
	default:
		return 0.1
	}
}

func activityRecency(lastActive *time.Time, now time.Time) float64 {
	if lastActive == nil {
		return Neutral
	}
	switch since := now.Sub(*lastActive); {
	case since <= time.Hour:
		return 1.0
	case since <= 6*time.Hour:
		return 0.9
	case since <= 24*time.Hour:
		return 0.75
	case since <= 3*24*time.Hour:
		return 0.5
	case since <= 7*24*time.Hour:
		return 0.3
	default:
		return 0.2
	}
}

func profileFreshness(updatedAt *time.Time, now time.Time) float64 {
	if updatedAt == nil {
		return Neutral
	}
	switch since := now.Sub(*updatedAt); {
	case since <= 24*time.Hour:
		return 1.0
	case since <= 7*24*time.Hour:
		return 0.8
	case since <= 30*24*time.Hour:
		return 0.6
	case since <= 90*24*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

// peakHourAlignment compares both sides' top active hours over the
// trailing activity window. Direct hour overlap dominates, hours one
// apart earn a smaller bonus, and the raw score is pulled toward
// neutral when either side has little history to mine.
func (s *Service) peakHourAlignment(ctx context.Context, requesterID, candidateID int64, now time.Time) float64 {
	if s.history == nil {
		return Neutral
	}
	since := now.Add(-s.cfg.ActivityWindow)

	histA, err := s.history.ActivityHours(ctx, requesterID, since)
	if err != nil || histA.Total == 0 {
		return Neutral
	}
	histB, err := s.history.ActivityHours(ctx, candidateID, since)
	if err != nil || histB.Total == 0 {
		return Neutral
	}

	topA := topActiveHours(histA, peakTopHours)
	topB := topActiveHours(histB, peakTopHours)

	direct := 0
	adjacent := 0
	for _, a := range topA {
		if containsHour(topB, a) {
			direct++
		} else if containsHour(topB, (a+1)%24) || containsHour(topB, (a+23)%24) {
			adjacent++
		}
	}

	raw := peakDirectWeight*float64(direct)/peakTopHours +
		peakAdjacentWeight*float64(adjacent)/peakTopHours

	strength := (activityStrength(histA.Total) + activityStrength(histB.Total)) / 2
	return Neutral + (raw-Neutral)*strength
}

func activityStrength(total int) float64 {
	v := float64(total) / activityStrengthEvents
	if v > 1 {
		return 1
	}
	return v
}

func topActiveHours(hist pgrepo.ActivityHistogramRecord, n int) []int {
	hours := make([]int, 0, 24)
	for h, count := range hist.HourCounts {
		if count > 0 {
			hours = append(hours, h)
		}
	}
	sort.Slice(hours, func(i, j int) bool {
		ci, cj := hist.HourCounts[hours[i]], hist.HourCounts[hours[j]]
		if ci != cj {
			return ci > cj
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func containsHour(hours []int, h int) bool {
	for _, v := range hours {
		if v == h {
			return true
		}
	}
	return false
}
