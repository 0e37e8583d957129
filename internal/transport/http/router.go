package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trialcli/internal/config"
	custommw "trialcli/internal/middleware"
)

// NewRouter wires the middleware chain and routes for the report API.
func NewRouter(cfg *config.Config, logger *slog.Logger, service ReportGenerator, version string) (chi.Router, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := NewMetrics(registry)

	reportHandler := NewReportHandler(service, logger, metrics, cfg.Upload.MaxFileBytes)
	healthHandler := NewHealthHandler(version)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))

	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if cfg.Server.RateLimit.Enabled {
			r.Use(custommw.RateLimiter(logger, cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
		}
		r.Post("/reports", reportHandler.GenerateReport)
	})

	return r, nil
}
