package usecase

import (
	"context"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	applogger "FinDash/pkg/logger"
)

// CalendarUseCase answers the economic-calendar endpoint.
type CalendarUseCase struct {
	gen      *EventGenerator
	history  *HistoryLookup
	metrics  domrepo.Metrics
	clock    func() time.Time
	ordering Ordering
	tier     models.Importance
	l        *applogger.Logger
}

// CalendarOption configures CalendarUseCase.
type CalendarOption func(*CalendarUseCase)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) CalendarOption {
	return func(uc *CalendarUseCase) { uc.clock = clock }
}

// WithOrdering selects catalog or chronological output.
func WithOrdering(o Ordering) CalendarOption {
	return func(uc *CalendarUseCase) { uc.ordering = o }
}

// WithTier sets the importance tier exposed by period views.
func WithTier(tier models.Importance) CalendarOption {
	return func(uc *CalendarUseCase) { uc.tier = tier }
}

func NewCalendarUseCase(gen *EventGenerator, history *HistoryLookup, metrics domrepo.Metrics, opts ...CalendarOption) *CalendarUseCase {
	uc := &CalendarUseCase{
		gen:      gen,
		history:  history,
		metrics:  metrics,
		clock:    time.Now,
		ordering: OrderCatalog,
		tier:     models.ImportanceHigh,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SetLogger injects a structured logger.
func (uc *CalendarUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// Events returns the period view. The clock is read once per call.
func (uc *CalendarUseCase) Events(_ context.Context, period string) models.CalendarResult {
	now := uc.clock()
	p := domrepo.NormalizePeriod(period)
	today := uc.gen.Today(now)

	all, err := uc.gen.GenerateFor(today)
	if err != nil {
		if uc.l != nil {
			uc.l.Error("calendar.generate error", applogger.Error(err))
		}
		if uc.metrics != nil {
			uc.metrics.RecordError("calendar_generate")
		}
		all = nil
	}

	events := FilterEvents(all, today, p, uc.tier)
	SortEvents(events, uc.ordering)

	if uc.metrics != nil {
		uc.metrics.RecordGeneration(string(p), len(events))
	}
	return models.CalendarResult{
		Period:      string(p),
		Events:      events,
		Count:       len(events),
		GeneratedAt: now.UTC(),
	}
}

// History returns past releases for indicator.
func (uc *CalendarUseCase) History(ctx context.Context, indicator string) models.HistoryResult {
	return models.HistoryResult{
		Indicator: indicator,
		History:   uc.history.HistoryFor(ctx, indicator),
	}
}

// Indicators lists catalog names in catalog order.
func (uc *CalendarUseCase) Indicators() []string {
	ps := uc.gen.catalog.ListPatterns()
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}
