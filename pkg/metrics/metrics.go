// Package metrics holds the prometheus collectors for journal conversions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payroll_journal"

// Document outcomes
const (
	DocumentParsed   = "parsed"
	DocumentRejected = "rejected"
	DocumentEmpty    = "empty"
	DocumentFailed   = "failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Lines       *prometheus.CounterVec
	Documents   *prometheus.CounterVec
	Problems    prometheus.Counter
	Conversions prometheus.Counter
	Duration    prometheus.Histogram
}

// New creates the collectors and registers them with reg. Pass nil to create
// unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Journal lines seen, by classified role.",
		}, []string{"role"}),
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by outcome.",
		}, []string{"outcome"}),
		Problems: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "problems_total",
			Help:      "Errors reported in conversion results.",
		}),
		Conversions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Completed conversions.",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent converting one batch of documents.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveLines(role string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Lines.WithLabelValues(role).Add(float64(n))
}

func (m *Metrics) ObserveDocument(outcome string) {
	if m == nil {
		return
	}
	m.Documents.WithLabelValues(outcome).Inc()
}

// ObserveConversion records one finished conversion and the number of
// problems it reported.
func (m *Metrics) ObserveConversion(elapsed time.Duration, problems int) {
	if m == nil {
		return
	}
	m.Conversions.Inc()
	m.Problems.Add(float64(problems))
	m.Duration.Observe(elapsed.Seconds())
}
