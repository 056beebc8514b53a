package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	generated      *prometheus.HistogramVec
	historyLookups *prometheus.CounterVec
	upstream       *prometheus.CounterVec
	upstreamTime   *prometheus.HistogramVec
	cache          *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder on reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		generated: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_calendar_events",
				Help:    "Events returned per calendar request",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
			[]string{"period"},
		),
		historyLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_history_lookups_total",
				Help: "Indicator history lookups by source and outcome",
			},
			[]string{"source", "hit"},
		),
		upstream: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_upstream_requests_total",
				Help: "Third-party fetches by feed and outcome",
			},
			[]string{"feed", "outcome"},
		),
		upstreamTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_upstream_duration_seconds",
				Help:    "Duration of third-party fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_cache_lookups_total",
				Help: "Feed cache lookups by hit",
			},
			[]string{"feed", "hit"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordGeneration records the size of a calendar view.
func (r *Recorder) RecordGeneration(period string, events int) {
	r.generated.WithLabelValues(periodLabel(period)).Observe(float64(events))
}

// RecordHistoryLookup records where history came from.
func (r *Recorder) RecordHistoryLookup(source string, hit bool) {
	r.historyLookups.WithLabelValues(source, strconv.FormatBool(hit)).Inc()
}

// RecordUpstream records one third-party fetch.
func (r *Recorder) RecordUpstream(feed, outcome string, seconds float64) {
	r.upstream.WithLabelValues(feed, outcome).Inc()
	r.upstreamTime.WithLabelValues(feed).Observe(seconds)
}

// RecordCache records a feed cache lookup.
func (r *Recorder) RecordCache(feed string, hit bool) {
	r.cache.WithLabelValues(feed, strconv.FormatBool(hit)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Period is caller-controlled; anything unknown shares one label.
func periodLabel(p string) string {
	switch p {
	case "daily", "weekly", "monthly":
		return p
	default:
		return "other"
	}
}
