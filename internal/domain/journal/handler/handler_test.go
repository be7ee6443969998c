package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/export"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/extract"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/service"
	"github.com/FACorreiaa/payroll-journal/pkg/metrics"
)

const journal = "Nr 004512 van 01/03/2024 tot 31/03/2024\n" +
	"│123456 DUPONT\n" +
	"│ │ 010 │  │  │ │ │ │ │ 1000,00 │ │"

type upload struct {
	field       string
	filename    string
	contentType string
	body        string
}

func multipartBody(t *testing.T, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, u.field, u.filename))
		header.Set("Content-Type", u.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type testServer struct {
	router   http.Handler
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, limiter *Limiter) testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	svc := service.NewConvertService(&extract.Text{}, logger).WithMetrics(metrics.New(registry))
	h := NewConvertHandler(svc, 1<<20, logger)
	return testServer{
		router: NewRouter(RouterConfig{
			AllowedOrigins: []string{"https://payroll.example.com"},
			Gatherer:       registry,
			Limiter:        limiter,
		}, h, logger),
		registry: registry,
	}
}

func (s testServer) post(t *testing.T, path string, uploads ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, uploads...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestConvert_JSON(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.post(t, "/convert", upload{FilePart, "march.pdf", service.MediaTypePDF, journal})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var res parser.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Ignored)
	assert.Len(t, res.Debug, 3)
	assert.Contains(t, res.CSV, "123456,DUPONT,2024,3,0,1000.00,")
}

func TestConvert_ResponseKeys(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.post(t, "/convert", upload{FilePart, "cover.pdf", service.MediaTypePDF, "nothing"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"csv", "errors", "ignored", "debug"}, keys(body))
	assert.Equal(t, []any{"'cover.pdf' yielded no rows that could be parsed"}, body["errors"])
	assert.Equal(t, []any{}, body["debug"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestConvert_MultipleFiles(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.post(t, "/convert",
		upload{FilePart, "march.pdf", service.MediaTypePDF, journal},
		upload{FilePart, "notes.txt", "text/plain", journal},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var res parser.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"'notes.txt' is not a PDF, but has MIME type 'text/plain'"}, res.Errors)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(res.CSV), "\n")+1)
}

func TestConvert_NoFilePart(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{
			name: "other field",
			req: func() *http.Request {
				body, contentType := multipartBody(t, upload{"document", "march.pdf", service.MediaTypePDF, journal})
				req := httptest.NewRequest(http.MethodPost, "/convert", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
		},
		{
			name: "not multipart",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(journal))
				req.Header.Set("Content-Type", "text/plain")
				return req
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, tt.req())

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"errors": ["No file part in the request"]}`, rec.Body.String())
		})
	}
}

func TestConvert_TooLarge(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewConvertHandler(service.NewConvertService(&extract.Text{}, logger), 512, logger)
	router := NewRouter(RouterConfig{}, h, logger)

	body, contentType := multipartBody(t, upload{FilePart, "big.pdf", service.MediaTypePDF, strings.Repeat(journal, 100)})
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestConvertXLSX(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.post(t, "/convert.xlsx",
		upload{FilePart, "march.pdf", service.MediaTypePDF, journal},
		upload{FilePart, "scan.png", "image/png", "png"},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Journal-Errors"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslips.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(export.PayslipSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "123456", rows[1][0])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.post(t, "/convert", upload{FilePart, "march.pdf", service.MediaTypePDF, journal})

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `payroll_journal_documents_total{outcome="parsed"} 1`)
	assert.Contains(t, rec.Body.String(), "payroll_journal_conversions_total 1")
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, nil)

	const id = "0b6f3e0e-8f5c-4a4f-9d39-4f4a0f1e2b3c"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "https://payroll.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, "https://payroll.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := NewLimiter(0.001, 1, time.Minute)
	t.Cleanup(limiter.Stop)
	srv := newTestServer(t, limiter)

	first := srv.post(t, "/convert", upload{FilePart, "march.pdf", service.MediaTypePDF, journal})
	assert.Equal(t, http.StatusOK, first.Code)

	second := srv.post(t, "/convert", upload{FilePart, "march.pdf", service.MediaTypePDF, journal})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health checks are not limited")
}
