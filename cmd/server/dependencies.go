package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/extract"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/handler"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/service"
	"github.com/FACorreiaa/payroll-journal/pkg/config"
	"github.com/FACorreiaa/payroll-journal/pkg/metrics"
)

const requestTimeout = 2 * time.Minute

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Extractor      extract.Extractor
	ConvertService *service.ConvertService

	Limiter        *handler.Limiter
	ConvertHandler *handler.ConvertHandler
	Router         http.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initObservability(); err != nil {
		return nil, fmt.Errorf("failed to init observability: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initObservability creates the metrics registry
func (d *Dependencies) initObservability() error {
	if !d.Config.Observability.MetricsEnabled {
		d.Logger.Info("metrics disabled")
		return nil
	}

	d.Registry = prometheus.NewRegistry()
	if err := d.Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	d.Metrics = metrics.New(d.Registry)

	d.Logger.Info("metrics registry initialized")
	return nil
}

// initServices initializes the extractor and the conversion service
func (d *Dependencies) initServices() error {
	extractor, err := extract.New(extract.Kind(d.Config.Extractor.Kind), d.Config.Extractor.PdftotextPath)
	if err != nil {
		return err
	}
	d.Extractor = extractor

	d.ConvertService = service.NewConvertService(d.Extractor, d.Logger).
		WithMetrics(d.Metrics)

	d.Logger.Info("services initialized", slog.String("extractor", d.Config.Extractor.Kind))
	return nil
}

// initHandlers initializes the HTTP surface
func (d *Dependencies) initHandlers() error {
	server := d.Config.Server
	d.Limiter = handler.NewLimiter(float64(server.RateLimitPerSecond), server.RateLimitBurst, 10*time.Minute)
	d.ConvertHandler = handler.NewConvertHandler(d.ConvertService, server.MaxUploadBytes(), d.Logger)

	routerCfg := handler.RouterConfig{
		AllowedOrigins: server.AllowedOrigins,
		Limiter:        d.Limiter,
		Timeout:        requestTimeout,
	}
	if d.Registry != nil {
		routerCfg.Gatherer = d.Registry
	}
	d.Router = handler.NewRouter(routerCfg, d.ConvertHandler, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup releases background resources
func (d *Dependencies) Cleanup() {
	if d.Limiter != nil {
		d.Limiter.Stop()
	}
	d.Logger.Info("cleanup completed")
}
