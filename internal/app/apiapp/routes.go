package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/config"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	compatsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/compat"
	filtersvc "github.com/shashanksGitHub/charlie-sub010/internal/services/filter"
	geosvc "github.com/shashanksGitHub/charlie-sub010/internal/services/geo"
	scoringsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/scoring"
	"github.com/shashanksGitHub/charlie-sub010/internal/transport/http/handlers"
)

type Dependencies struct {
	ProfileRepo    *pgrepo.ProfileRepo
	GeoService     *geosvc.Service
	FilterService  *filtersvc.Service
	ScoringService *scoringsvc.Service
	CompatService  *compatsvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	locationHandler := handlers.NewLocationHandler(deps.GeoService)
	evaluateHandler := handlers.NewEvaluateHandler(
		deps.ProfileRepo,
		deps.FilterService,
		deps.ScoringService,
		stageConfig(deps.Config.Matching.Stages),
	)
	compatibilityHandler := handlers.NewCompatibilityHandler(deps.ProfileRepo, deps.CompatService)

	r.Get("/healthz", healthHandler.Get)
	r.Get("/health", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/matches/evaluate", evaluateHandler.Handle)
		r.Post("/compatibility", compatibilityHandler.Handle)
		r.Get("/locations/resolve", locationHandler.Resolve)
	})
}

func stageConfig(stages config.StagesConfig) filtersvc.Config {
	return filtersvc.Config{
		AccountStatus: stages.AccountStatus,
		DealBreakers:  stages.DealBreakers,
		AgeBounds:     stages.AgeBounds,
		Distance:      stages.Distance,
		Children:      stages.Children,
		CountryPool:   stages.CountryPool,
		HighSchool:    stages.HighSchool,
	}
}
