package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/extract"
	"github.com/FACorreiaa/payroll-journal/pkg/config"
)

func testConfig(metricsEnabled bool) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:               "localhost",
			Port:               8080,
			MaxUploadMB:        1,
			RateLimitPerSecond: 10,
			RateLimitBurst:     10,
			AllowedOrigins:     []string{"*"},
		},
		Extractor:     config.ExtractorConfig{Kind: "native"},
		Observability: config.ObservabilityConfig{MetricsEnabled: metricsEnabled, LogLevel: "info"},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitDependencies(t *testing.T) {
	deps, err := InitDependencies(testConfig(true), discardLogger())
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)

	assert.IsType(t, &extract.Native{}, deps.Extractor)
	require.NotNil(t, deps.Metrics)

	rec := httptest.NewRecorder()
	deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestInitDependencies_MetricsDisabled(t *testing.T) {
	deps, err := InitDependencies(testConfig(false), discardLogger())
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)

	assert.Nil(t, deps.Registry)
	assert.Nil(t, deps.Metrics)

	rec := httptest.NewRecorder()
	deps.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitDependencies_UnknownExtractor(t *testing.T) {
	cfg := testConfig(false)
	cfg.Extractor.Kind = "ocr"
	_, err := InitDependencies(cfg, discardLogger())
	assert.ErrorIs(t, err, extract.ErrUnknownKind)
}
