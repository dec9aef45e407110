package filter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	"github.com/shashanksGitHub/charlie-sub010/internal/domain/rules"
)

// Resolver is the slice of the geo service the pipeline needs.
type Resolver interface {
	Resolve(ctx context.Context, text string) *matching.LocationRecord
	DistanceKM(lat1, lon1, lat2, lon2 float64) float64
}

// Config enables individual stages. Stages always run in the fixed
// order below; disabling one skips it without disturbing the rest.
type Config struct {
	AccountStatus bool
	DealBreakers  bool
	AgeBounds     bool
	Distance      bool
	Children      bool
	CountryPool   bool
	HighSchool    bool
}

func DefaultConfig() Config {
	return Config{
		AccountStatus: true,
		DealBreakers:  true,
		AgeBounds:     true,
		Distance:      true,
		Children:      true,
		CountryPool:   true,
		HighSchool:    true,
	}
}

type Request struct {
	Requester  matching.Profile
	Prefs      matching.PreferenceRecord
	Candidates []matching.Profile
	Config     Config
}

// Service runs the sequential hard-filter pipeline. Stages only ever
// remove candidates, so re-applying the pipeline to its own output is
// a no-op, and an emptied pool is a normal result rather than an
// error.
type Service struct {
	geo Resolver
	log *zap.Logger
	now func() time.Time
}

func NewService(geo Resolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		geo: geo,
		log: log,
		now: time.Now,
	}
}

func (s *Service) Apply(ctx context.Context, req Request) []matching.Profile {
	now := s.now().UTC()

	// The deal-breaker blob is parsed once here; stages receive the
	// typed set. The long-distance tag changes the distance threshold,
	// so the effective radius is also computed once, before any stage
	// runs.
	breakers := rules.ParseDealBreakers(req.Prefs.DealBreakers)
	for _, tag := range breakers.Unknown {
		s.log.Warn("unrecognized deal-breaker tag treated as no-op", zap.String("tag", tag))
	}
	radiusKM, radiusEnforced := rules.EffectiveRadiusKM(req.Prefs.DistanceMiles, breakers)

	stages := []struct {
		name    string
		enabled bool
		run     func([]matching.Profile) []matching.Profile
	}{
		{
			name:    "account_status",
			enabled: req.Config.AccountStatus,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.accountStatusStage(req.Requester, candidates, now)
			},
		},
		{
			name:    "deal_breakers",
			enabled: req.Config.DealBreakers,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.dealBreakerStage(req.Requester, req.Prefs, breakers, candidates)
			},
		},
		{
			name:    "age_bounds",
			enabled: req.Config.AgeBounds,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.ageBoundStage(req.Prefs, candidates, now)
			},
		},
		{
			name:    "distance",
			enabled: req.Config.Distance,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.distanceStage(ctx, req.Requester, candidates, radiusKM, radiusEnforced)
			},
		},
		{
			name:    "children",
			enabled: req.Config.Children,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.childrenStage(req.Prefs, breakers, candidates)
			},
		},
		{
			name:    "country_pool",
			enabled: req.Config.CountryPool,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.countryPoolStage(req.Prefs, candidates)
			},
		},
		{
			name:    "high_school",
			enabled: req.Config.HighSchool,
			run: func(candidates []matching.Profile) []matching.Profile {
				return s.highSchoolStage(req.Requester, req.Prefs, candidates, now)
			},
		},
	}

	candidates := req.Candidates
	for _, stage := range stages {
		if !stage.enabled {
			continue
		}
		before := len(candidates)
		candidates = stage.run(candidates)
		s.log.Debug("hard filter stage applied",
			zap.String("stage", stage.name),
			zap.Int("in", before),
			zap.Int("out", len(candidates)),
			zap.Int("removed", before-len(candidates)),
		)
	}

	return candidates
}
