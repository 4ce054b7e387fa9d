package httpapi

import (
	"net/http"

	"autocare-report-services/internal/config"
	"autocare-report-services/internal/http/handlers"
	"autocare-report-services/internal/middleware"
	"autocare-report-services/internal/queue"
	"autocare-report-services/internal/storage"
	"autocare-report-services/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewRouter(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config, queueClient *queue.Client, store *storage.ObjectStore, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{DB: db, Logger: logger, Config: cfg, Queue: queueClient, Store: store}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/center", func(r chi.Router) {
		r.Use(middleware.ProviderAuth(db, cfg.JWTSecret))
		r.Get("/reports", h.CenterReports)
		r.Get("/reports/export", h.CenterReportExport)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(db, cfg.JWTSecret))
		r.Get("/reports", h.AdminReports)
		r.Get("/reports/export", h.AdminReportExport)
		r.Post("/reports/export-jobs", h.AdminExportJobCreate)
		r.Get("/reports/export-jobs/{id}", h.AdminExportJobGet)
		r.Delete("/reports/export-jobs/{id}", h.AdminExportJobDelete)
	})

	if wsServer != nil {
		r.Get("/ws/reports", wsServer.ReportsWS)
	}

	return r
}
