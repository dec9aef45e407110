package scoring

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/rules"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
)

// Reciprocity factor weights.
const (
	reciprocityReplyWeight      = 0.30
	reciprocityEngagementWeight = 0.25
	reciprocityViewWeight       = 0.20
	reciprocityLikeWeight       = 0.25
)

// reciprocityScore estimates how likely the candidate is to engage
// back, from the candidate's own messaging history plus their past
// attention toward the requester.
func (s *Service) reciprocityScore(ctx context.Context, requester, candidate matching.Profile) float64 {
	if s.history == nil {
		return Neutral
	}

	reply := s.replyScore(ctx, candidate.ID)
	engagement := s.engagementScore(ctx, candidate.ID)
	views := s.viewScore(ctx, candidate.ID, requester.ID)
	like := s.likeProbability(ctx, requester, candidate)

	return reciprocityReplyWeight*reply +
		reciprocityEngagementWeight*engagement +
		reciprocityViewWeight*views +
		reciprocityLikeWeight*like
}

// replyScore is the candidate's historical reply rate scaled by how
// quickly they reply.
func (s *Service) replyScore(ctx context.Context, candidateID int64) float64 {
	stats, err := s.history.ReplyStats(ctx, candidateID)
	if err != nil || stats.Received == 0 {
		return Neutral
	}
	rate := float64(stats.Replied) / float64(stats.Received)
	return rate * replyLatencyFactor(stats)
}

func replyLatencyFactor(stats pgrepo.ReplyStatsRecord) float64 {
	if stats.Replied == 0 || stats.AvgReplySeconds <= 0 {
		return 1.0
	}
	avg := time.Duration(stats.AvgReplySeconds * float64(time.Second))
	switch {
	case avg <= time.Hour:
		return 1.0
	case avg <= 6*time.Hour:
		return 0.85
	case avg <= 24*time.Hour:
		return 0.7
	default:
		return 0.5
	}
}

// engagementScore blends message-quality signals from the candidate's
// sent history.
func (s *Service) engagementScore(ctx context.Context, candidateID int64) float64 {
	stats, err := s.history.MessageEngagement(ctx, candidateID)
	if err != nil || stats.Sent == 0 {
		return Neutral
	}

	lengthNorm := stats.AvgLength / 120
	if lengthNorm > 1 {
		lengthNorm = 1
	}
	return 0.4*lengthNorm +
		0.3*stats.SubstantialRatio +
		0.2*stats.QuestionRatio +
		0.1*stats.ExclamationRatio
}

// viewScore measures the candidate's past attention toward this
// requester: view frequency with a recency decay, falling back to
// swipe interactions as a proxy when no view log exists.
func (s *Service) viewScore(ctx context.Context, candidateID, requesterID int64) float64 {
	stats, err := s.history.ProfileViewStats(ctx, candidateID, requesterID)
	if errors.Is(err, pgrepo.ErrNoViewLog) {
		stats, err = s.history.SwipeInteractions(ctx, candidateID, requesterID)
	}
	if err != nil {
		return Neutral
	}
	if stats.Count == 0 {
		return 0.2
	}

	frequency := float64(stats.Count) / 20
	if frequency > 1 {
		frequency = 1
	}
	return frequency * viewRecencyDecay(stats.LastViewedAt, s.now().UTC())
}

func viewRecencyDecay(lastViewed *time.Time, now time.Time) float64 {
	if lastViewed == nil {
		return 0.6
	}
	switch since := now.Sub(*lastViewed); {
	case since <= 24*time.Hour:
		return 1.0
	case since <= 7*24*time.Hour:
		return 0.8
	case since <= 30*24*time.Hour:
		return 0.6
	default:
		return 0.4
	}
}

// likeProbability blends the candidate's base like rate with their
// like rates toward targets sharing the requester's attributes.
func (s *Service) likeProbability(ctx context.Context, requester, candidate matching.Profile) float64 {
	stats, err := s.history.SwipeStats(ctx, candidate.ID)
	if err != nil || stats.Decisions == 0 {
		return Neutral
	}
	base := float64(stats.Likes+stats.Stars) / float64(stats.Decisions)

	attrs := s.sharedAttributes(requester)
	if len(attrs) == 0 {
		return 0.5*base + 0.5*Neutral
	}

	rates, err := s.history.AttributeLikeRates(ctx, candidate.ID, attrs)
	if err != nil || len(rates) == 0 {
		return 0.5*base + 0.5*Neutral
	}

	sum := 0.0
	for _, rate := range rates {
		sum += rate
	}
	return 0.5*base + 0.5*(sum/float64(len(rates)))
}

func (s *Service) sharedAttributes(requester matching.Profile) map[string]string {
	attrs := make(map[string]string, 6)
	put := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			attrs[key] = v
		}
	}
	put("ethnicity", requester.Ethnicity)
	put("religion", requester.Religion)
	put("profession", requester.Profession)
	put("goal", requester.RelationshipGoal)
	put("location", requester.Location)
	if requester.Birthdate != nil {
		put("age_band", rules.AgeBand(rules.AgeAt(*requester.Birthdate, s.now().UTC())))
	}
	return attrs
}
