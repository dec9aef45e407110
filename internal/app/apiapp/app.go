package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/config"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	redrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/redis"
	compatsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/compat"
	filtersvc "github.com/shashanksGitHub/charlie-sub010/internal/services/filter"
	geosvc "github.com/shashanksGitHub/charlie-sub010/internal/services/geo"
	scoringsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/scoring"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	profileRepo := pgrepo.NewProfileRepo(pool)
	historyRepo := pgrepo.NewHistoryRepo(pool)
	geoCacheRepo := redrepo.NewGeoCacheRepo(redisClient)

	geoService := geosvc.NewService(cfg.Matching.Locations, log)
	if cfg.Geocoder.APIKey != "" {
		geoService.AttachGeocoder(geosvc.NewClient(cfg.Geocoder))
	} else {
		log.Info("geocoder api key not set, live location lookups disabled")
	}
	geoService.AttachCache(geoCacheRepo)

	filterService := filtersvc.NewService(geoService, log)
	scoringService := scoringsvc.NewService(geoService, historyRepo, scoringsvc.Config{
		BatchSize:      cfg.Matching.Scoring.BatchSize,
		Deadline:       cfg.Matching.Scoring.Deadline,
		ActivityWindow: cfg.Matching.Scoring.ActivityWindow,
	}, log)
	compatService := compatsvc.NewService(log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		ProfileRepo:    profileRepo,
		GeoService:     geoService,
		FilterService:  filterService,
		ScoringService: scoringService,
		CompatService:  compatService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
