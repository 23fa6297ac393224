package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/heartbeat/backend/internal/config"
	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	blocksvc "github.com/ivankudzin/heartbeat/backend/internal/services/blocks"
	modsvc "github.com/ivankudzin/heartbeat/backend/internal/services/moderation"
	reportsvc "github.com/ivankudzin/heartbeat/backend/internal/services/reports"
	statsvc "github.com/ivankudzin/heartbeat/backend/internal/services/stats"
	"github.com/ivankudzin/heartbeat/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager        *authsvc.JWTManager
	ReportService     *reportsvc.Service
	BlockService      *blocksvc.Service
	ModerationService *modsvc.Service
	StatsService      *statsvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	reportsHandler := handlers.NewReportsHandler(deps.ReportService)
	blocksHandler := handlers.NewBlocksHandler(deps.BlockService)
	adminReportsHandler := handlers.NewAdminReportsHandler(deps.ReportService, deps.ModerationService)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)
	adminRoleMW := RequireRole(authsvc.RoleModerator, authsvc.RoleOwner)

	r.Get("/healthz", healthHandler.Handle)
	r.Get("/safety/categories", reportsHandler.Categories)

	r.With(authMW).Post("/report", reportsHandler.Submit)
	r.With(authMW).Post("/block", blocksHandler.Block)
	r.With(authMW).Post("/unblock", blocksHandler.Unblock)
	r.With(authMW).Get("/blocks", blocksHandler.List)
	r.With(authMW).Get("/blocks/check", blocksHandler.Check)

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, adminRoleMW)
		r.Get("/reports", adminReportsHandler.List)
		r.Get("/reports/{id}", adminReportsHandler.Get)
		r.Post("/reports/{id}/review", adminReportsHandler.Review)
		r.Get("/users/{id}/safety", adminReportsHandler.SafetyState)
		r.Post("/users/{id}/reinstate", adminReportsHandler.Reinstate)
		r.Get("/stats", statsHandler.Handle)
	})
}
