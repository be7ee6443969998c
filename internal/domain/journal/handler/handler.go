// Package handler exposes journal conversion over HTTP.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/export"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/service"
)

// FilePart is the multipart field documents are uploaded under.
const FilePart = "pdf"

// Converter turns uploaded documents into a conversion result.
type Converter interface {
	Convert(ctx context.Context, docs []service.Document) (*parser.Result, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// ConvertHandler serves the conversion endpoints.
type ConvertHandler struct {
	converter Converter
	maxUpload int64
	logger    *slog.Logger
}

func NewConvertHandler(converter Converter, maxUploadBytes int64, logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{
		converter: converter,
		maxUpload: maxUploadBytes,
		logger:    logger,
	}
}

// Convert handles POST /convert and answers with the table and logs as JSON.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convert(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ConvertXLSX handles POST /convert.xlsx and answers with a workbook.
func (h *ConvertHandler) ConvertXLSX(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convert(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res); err != nil {
		h.logger.Error("failed to render workbook", slog.Any("error", err), slog.String("request_id", RequestID(r.Context())))
		writeJSONError(w, http.StatusInternalServerError, "Failed to render workbook")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="payslips.xlsx"`)
	w.Header().Set("X-Journal-Errors", strconv.Itoa(len(res.Errors)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ConvertHandler) convert(w http.ResponseWriter, r *http.Request) (*parser.Result, bool) {
	logger := h.logger.With(slog.String("request_id", RequestID(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxUpload))
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			writeJSONError(w, http.StatusBadRequest, "No file part in the request")
		default:
			logger.Warn("failed to parse upload", slog.Any("error", err))
			writeJSONError(w, http.StatusBadRequest, "Failed to parse multipart form")
		}
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[FilePart]
	if len(files) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No file part in the request")
		return nil, false
	}

	docs := make([]service.Document, 0, len(files))
	for _, fh := range files {
		doc, err := readDocument(fh)
		if err != nil {
			logger.Error("failed to read upload", slog.String("file", fh.Filename), slog.Any("error", err))
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("'%s' could not be read", fh.Filename))
			return nil, false
		}
		docs = append(docs, doc)
	}

	res, err := h.converter.Convert(r.Context(), docs)
	if err != nil {
		logger.Error("conversion failed", slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "Conversion failed")
		return nil, false
	}

	logger.Info("converted upload",
		slog.Int("documents", len(docs)),
		slog.Int("errors", len(res.Errors)),
		slog.Int("ignored", len(res.Ignored)),
	)
	return res, true
}

func readDocument(fh *multipart.FileHeader) (service.Document, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Document{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Document{}, err
	}
	return service.Document{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, ErrorResponse{Errors: messages})
}
