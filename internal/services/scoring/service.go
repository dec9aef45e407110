package scoring

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	"github.com/shashanksGitHub/charlie-sub010/internal/services/geo"
)

// Neutral is the fallback sub-score used whenever an input is missing
// or a dependent computation fails.
const Neutral = 0.5

// GeoService is the slice of the geo service the analyzers need.
type GeoService interface {
	Resolve(ctx context.Context, text string) *matching.LocationRecord
	DistanceKM(lat1, lon1, lat2, lon2 float64) float64
	TimezoneCompatibility(ctx context.Context, locA, locB string) geo.TimezoneCompat
}

// HistoryStore reads the historical interaction aggregates behind the
// temporal and reciprocity analyzers.
type HistoryStore interface {
	ReplyStats(ctx context.Context, userID int64) (pgrepo.ReplyStatsRecord, error)
	MessageEngagement(ctx context.Context, userID int64) (pgrepo.MessageEngagementRecord, error)
	ActivityHours(ctx context.Context, userID int64, since time.Time) (pgrepo.ActivityHistogramRecord, error)
	SwipeStats(ctx context.Context, userID int64) (pgrepo.SwipeStatsRecord, error)
	ProfileViewStats(ctx context.Context, viewerID, viewedID int64) (pgrepo.ViewStatsRecord, error)
	SwipeInteractions(ctx context.Context, viewerID, targetID int64) (pgrepo.ViewStatsRecord, error)
	AttributeLikeRates(ctx context.Context, userID int64, attrs map[string]string) (map[string]float64, error)
}

type Config struct {
	BatchSize      int
	Deadline       time.Duration
	ActivityWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.Deadline <= 0 {
		c.Deadline = 5 * time.Second
	}
	if c.ActivityWindow <= 0 {
		c.ActivityWindow = 30 * 24 * time.Hour
	}
	return c
}

// Service computes per-pair context profiles. Candidates are scored in
// small concurrent waves to bound outbound concurrency; a batch-level
// deadline fills not-yet-scored candidates with neutral profiles
// instead of blocking the request.
type Service struct {
	geo     GeoService
	history HistoryStore
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

func NewService(geoSvc GeoService, history HistoryStore, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		geo:     geoSvc,
		history: history,
		cfg:     cfg.withDefaults(),
		log:     log,
		now:     time.Now,
	}
}

// BatchResult keys context profiles by candidate id; callers must not
// rely on any completion order.
type BatchResult struct {
	EvaluationID uuid.UUID
	Profiles     map[int64]matching.ContextProfile
}

func (s *Service) EvaluateBatch(ctx context.Context, requester matching.Profile, prefs matching.PreferenceRecord, candidates []matching.Profile) BatchResult {
	result := BatchResult{
		EvaluationID: uuid.New(),
		Profiles:     make(map[int64]matching.ContextProfile, len(candidates)),
	}
	if len(candidates) == 0 {
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Deadline)
	defer cancel()

	var mu sync.Mutex
	neutralFilled := 0

	for start := 0; start < len(candidates); start += s.cfg.BatchSize {
		if ctx.Err() != nil {
			for _, c := range candidates[start:] {
				result.Profiles[c.ID] = neutralProfile(c.ID)
				neutralFilled++
			}
			break
		}

		end := start + s.cfg.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for _, c := range candidates[start:end] {
			wg.Add(1)
			go func(c matching.Profile) {
				defer wg.Done()
				profile := s.evaluate(ctx, requester, prefs, c)
				mu.Lock()
				result.Profiles[c.ID] = profile
				mu.Unlock()
			}(c)
		}
		wg.Wait()
	}

	if neutralFilled > 0 {
		s.log.Warn("scoring deadline expired, remaining candidates neutral-filled",
			zap.String("evaluation_id", result.EvaluationID.String()),
			zap.Int64("requester_id", requester.ID),
			zap.Int("neutral_filled", neutralFilled),
		)
	}

	return result
}

func (s *Service) evaluate(ctx context.Context, requester matching.Profile, prefs matching.PreferenceRecord, candidate matching.Profile) matching.ContextProfile {
	if ctx.Err() != nil {
		return neutralProfile(candidate.ID)
	}
	now := s.now().UTC()

	temporal := s.safeScore("temporal", candidate.ID, func() float64 {
		return s.temporalScore(ctx, requester, candidate, now)
	})
	geographic := s.safeScore("geographic", candidate.ID, func() float64 {
		return s.geographicScore(ctx, requester, prefs, candidate)
	})
	health := s.safeScore("profile_health", candidate.ID, func() float64 {
		return profileHealthScore(candidate)
	})
	reciprocity := s.safeScore("reciprocity", candidate.ID, func() float64 {
		return s.reciprocityScore(ctx, requester, candidate)
	})

	return matching.ContextProfile{
		CandidateID:   candidate.ID,
		Temporal:      temporal,
		Geographic:    geographic,
		ProfileHealth: health,
		Reciprocity:   reciprocity,
		Overall:       (temporal + geographic + health + reciprocity) / 4,
	}
}

// safeScore isolates one analyzer: a panic or NaN degrades that factor
// to neutral without touching the rest of the evaluation.
func (s *Service) safeScore(analyzer string, candidateID int64, fn func() float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("context analyzer failed, substituting neutral",
				zap.String("analyzer", analyzer),
				zap.Int64("candidate_id", candidateID),
				zap.Any("panic", r),
			)
			score = Neutral
		}
	}()
	return clamp01(fn())
}

func neutralProfile(candidateID int64) matching.ContextProfile {
	return matching.ContextProfile{
		CandidateID:   candidateID,
		Temporal:      Neutral,
		Geographic:    Neutral,
		ProfileHealth: Neutral,
		Reciprocity:   Neutral,
		Overall:       Neutral,
		Neutral:       true,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return Neutral
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
