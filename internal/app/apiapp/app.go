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

	"github.com/ivankudzin/heartbeat/backend/internal/config"
	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
	redrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/redis"
	analyticsvc "github.com/ivankudzin/heartbeat/backend/internal/services/analytics"
	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	blocksvc "github.com/ivankudzin/heartbeat/backend/internal/services/blocks"
	modsvc "github.com/ivankudzin/heartbeat/backend/internal/services/moderation"
	reportsvc "github.com/ivankudzin/heartbeat/backend/internal/services/reports"
	statsvc "github.com/ivankudzin/heartbeat/backend/internal/services/stats"
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
	rateRepo := redrepo.NewRateRepo(redisClient)
	notificationRepo := redrepo.NewNotificationRepo(redisClient)
	txManager := pgrepo.NewTxManager(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	safetyStateRepo := pgrepo.NewSafetyStateRepo(pool)
	statsRepo := pgrepo.NewStatsRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	analyticsService := analyticsvc.NewService(eventRepo, log)
	reportService := reportsvc.NewService(reportsvc.Dependencies{
		Store:     reportRepo,
		RateStore: rateRepo,
		Analytics: analyticsService,
	}, reportsvc.Config{
		MaxPerWindow: cfg.Safety.ReportMaxPer10Min,
		ListLimit:    cfg.Safety.ReportListLimit,
	})
	blockService := blocksvc.NewService(blocksvc.Dependencies{
		Tx:         txManager,
		BlockStore: blockRepo,
		MatchStore: matchRepo,
		Analytics:  analyticsService,
	})
	moderationService := modsvc.NewService(modsvc.Dependencies{
		Tx:          txManager,
		ReportStore: reportRepo,
		SafetyStore: safetyStateRepo,
		Notifier:    notificationRepo,
		Logger:      log,
	})
	statsService := statsvc.NewService(statsRepo)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		JWTManager:        jwtManager,
		ReportService:     reportService,
		BlockService:      blockService,
		ModerationService: moderationService,
		StatsService:      statsService,
		Logger:            log,
		Config:            cfg,
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
