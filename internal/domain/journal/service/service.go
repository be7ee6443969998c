// Package service converts uploaded payroll journals into a payslip table.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/extract"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/ledger"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
	"github.com/FACorreiaa/payroll-journal/pkg/metrics"
	"github.com/FACorreiaa/payroll-journal/pkg/money"
)

const tracerName = "github.com/FACorreiaa/payroll-journal/internal/domain/journal/service"

// MediaTypePDF is the only media type accepted by default.
const MediaTypePDF = "application/pdf"

var (
	ErrNotPDF     = errors.New("document is not a PDF")
	ErrNoRows     = errors.New("document yielded no rows")
	ErrUnreadable = errors.New("document could not be read")
)

// DocumentError is a problem with a whole document rather than one of its lines.
type DocumentError struct {
	Name      string
	MediaType string
	Err       error
	Cause     error
}

func (e *DocumentError) Error() string {
	switch e.Err {
	case ErrNotPDF:
		return fmt.Sprintf("'%s' is not a PDF, but has MIME type '%s'", e.Name, e.MediaType)
	case ErrNoRows:
		return fmt.Sprintf("'%s' yielded no rows that could be parsed", e.Name)
	default:
		return fmt.Sprintf("'%s' could not be read: %v", e.Name, e.Cause)
	}
}

func (e *DocumentError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Document is one uploaded file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// ConvertService runs a batch of documents through one parse session.
type ConvertService struct {
	extractor extract.Extractor
	accepted  map[string]bool
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewConvertService creates a service that accepts PDF documents only.
func NewConvertService(extractor extract.Extractor, logger *slog.Logger) *ConvertService {
	return &ConvertService{
		extractor: extractor,
		accepted:  map[string]bool{MediaTypePDF: true},
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
	}
}

// WithMetrics records conversions in m.
func (s *ConvertService) WithMetrics(m *metrics.Metrics) *ConvertService {
	s.metrics = m
	return s
}

// WithAcceptedTypes adds media types the extractor can read besides PDF.
func (s *ConvertService) WithAcceptedTypes(mediaTypes ...string) *ConvertService {
	for _, t := range mediaTypes {
		s.accepted[t] = true
	}
	return s
}

// Convert parses every document into a single ledger. Problems with one
// document are reported in the result and never stop the others.
func (s *ConvertService) Convert(ctx context.Context, docs []Document) (*parser.Result, error) {
	start := time.Now()
	logger := s.logger.With(slog.String("conversion_id", uuid.NewString()))

	ctx, span := s.tracer.Start(ctx, "journal.Convert", trace.WithAttributes(
		attribute.Int("journal.documents", len(docs)),
	))
	defer span.End()

	session := parser.NewSession()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
		s.convertDocument(ctx, logger, session, doc)
	}

	result, err := session.Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "serialization failed")
		return nil, fmt.Errorf("failed to build result: %w", err)
	}

	for _, role := range parser.Roles() {
		s.metrics.ObserveLines(role.String(), session.Count(role))
	}
	s.metrics.ObserveConversion(time.Since(start), len(result.Errors))
	span.SetAttributes(
		attribute.Int("journal.staff", session.Ledger().Len()),
		attribute.Int("journal.errors", len(result.Errors)),
	)

	for _, line := range result.Debug {
		logger.Debug(line)
	}
	s.logSummary(logger, session.Ledger(), len(result.Errors), time.Since(start))

	return result, nil
}

func (s *ConvertService) convertDocument(ctx context.Context, logger *slog.Logger, session *parser.Session, doc Document) {
	ctx, span := s.tracer.Start(ctx, "journal.Document", trace.WithAttributes(
		attribute.String("journal.document", doc.Name),
		attribute.Int("journal.bytes", len(doc.Data)),
	))
	defer span.End()

	logger = logger.With(slog.String("document", doc.Name))

	mediaType := mediaTypeOf(doc.ContentType)
	if !s.accepted[mediaType] {
		logger.Warn("rejected document", slog.String("media_type", doc.ContentType))
		session.AddError(&DocumentError{Name: doc.Name, MediaType: doc.ContentType, Err: ErrNotPDF})
		s.metrics.ObserveDocument(metrics.DocumentRejected)
		span.SetStatus(codes.Error, "unsupported media type")
		return
	}

	pages, err := s.extractor.Extract(ctx, bytes.NewReader(doc.Data))
	if err != nil {
		logger.Error("failed to extract text", slog.Any("error", err))
		session.AddError(&DocumentError{Name: doc.Name, MediaType: mediaType, Err: ErrUnreadable, Cause: err})
		s.metrics.ObserveDocument(metrics.DocumentFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return
	}

	parsed := false
	for _, page := range pages {
		parsed = session.ParseLines(page) || parsed
	}
	span.SetAttributes(attribute.Int("journal.pages", len(pages)))

	if !parsed {
		logger.Warn("document yielded no rows", slog.Int("pages", len(pages)))
		session.AddError(&DocumentError{Name: doc.Name, MediaType: mediaType, Err: ErrNoRows})
		s.metrics.ObserveDocument(metrics.DocumentEmpty)
		return
	}

	logger.Info("document parsed", slog.Int("pages", len(pages)))
	s.metrics.ObserveDocument(metrics.DocumentParsed)
}

// logSummary logs the per-category totals of the whole ledger, rounded to
// cents. A negative gross total is logged as a warning.
func (s *ConvertService) logSummary(logger *slog.Logger, l *ledger.Ledger, problems int, elapsed time.Duration) {
	payslips := l.Payslips()

	var gross *money.Money
	totals := make([]any, 0, len(ledger.Categories()))
	for _, c := range ledger.Categories() {
		amounts := make([]decimal.Decimal, len(payslips))
		for i, p := range payslips {
			amounts[i] = p.Total(c)
		}
		total, err := money.Sum(amounts, money.EUR)
		if err != nil {
			logger.Error("failed to total payslips", slog.String("category", string(c)), slog.Any("error", err))
			return
		}
		if c == ledger.Gross {
			gross = total
		}
		totals = append(totals, slog.String(string(c), total.String()))
	}

	if gross.IsNegative() {
		logger.Warn("gross total is negative", slog.String("gross", gross.Display()))
	}

	logger.Info("conversion finished",
		slog.Int("staff", l.Len()),
		slog.Int("payslips", len(payslips)),
		slog.Int("errors", problems),
		slog.String("gross", gross.Display()),
		slog.Group("totals", totals...),
		slog.Duration("elapsed", elapsed),
	)
}

// mediaTypeOf strips parameters from a Content-Type value.
func mediaTypeOf(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mediaType
}
