package usecase

import (
	"context"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	applogger "FinDash/pkg/logger"
)

// HistoryLookup serves indicator history from an optional live source,
// falling back to a static table.
type HistoryLookup struct {
	primary  domrepo.HistorySource
	fallback domrepo.HistorySource
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

// NewHistoryLookup; primary may be nil.
func NewHistoryLookup(primary, fallback domrepo.HistorySource, metrics domrepo.Metrics) *HistoryLookup {
	return &HistoryLookup{primary: primary, fallback: fallback, metrics: metrics}
}

// SetLogger injects a structured logger.
func (h *HistoryLookup) SetLogger(l *applogger.Logger) { h.l = l }

// HistoryFor never fails: unknown indicators and upstream errors yield the
// fallback table or an empty slice.
func (h *HistoryLookup) HistoryFor(ctx context.Context, indicator string) []models.HistoryPoint {
	if h.primary != nil {
		pts, err := h.primary.History(ctx, indicator)
		switch {
		case err != nil:
			if h.l != nil {
				h.l.Warn("history.primary error", applogger.String("indicator", indicator), applogger.Error(err))
			}
			h.record("primary", false)
		case len(pts) > 0:
			h.record("primary", true)
			return withSurprise(pts)
		default:
			h.record("primary", false)
		}
	}

	if h.fallback == nil {
		return []models.HistoryPoint{}
	}
	pts, err := h.fallback.History(ctx, indicator)
	if err != nil {
		if h.l != nil {
			h.l.Warn("history.fallback error", applogger.String("indicator", indicator), applogger.Error(err))
		}
		h.record("static", false)
		return []models.HistoryPoint{}
	}
	h.record("static", len(pts) > 0)
	return withSurprise(pts)
}

func (h *HistoryLookup) record(source string, hit bool) {
	if h.metrics != nil {
		h.metrics.RecordHistoryLookup(source, hit)
	}
}

func withSurprise(pts []models.HistoryPoint) []models.HistoryPoint {
	out := make([]models.HistoryPoint, len(pts))
	for i, p := range pts {
		out[i] = p.WithSurprise()
	}
	return out
}
