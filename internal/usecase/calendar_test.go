package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/repository"
	"FinDash/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	pts []models.HistoryPoint
	err error
}

func (s stubHistory) History(context.Context, string) ([]models.HistoryPoint, error) {
	return s.pts, s.err
}

type countingMetrics struct {
	generations map[string]int
	lookups     map[string]int
	errors      int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{generations: map[string]int{}, lookups: map[string]int{}}
}

func (m *countingMetrics) RecordGeneration(period string, events int) { m.generations[period] = events }
func (m *countingMetrics) RecordHistoryLookup(source string, hit bool) {
	if hit {
		m.lookups[source]++
	}
}
func (m *countingMetrics) RecordUpstream(string, string, float64) {}
func (m *countingMetrics) RecordCache(string, bool)               {}
func (m *countingMetrics) RecordError(string)                     { m.errors++ }

func newTestCalendar(m *countingMetrics, opts ...CalendarOption) *CalendarUseCase {
	if m == nil {
		m = newCountingMetrics()
	}
	gen := NewEventGenerator(repository.DefaultCatalog())
	hist := NewHistoryLookup(nil, repository.DefaultHistory(), m)
	opts = append([]CalendarOption{WithClock(func() time.Time { return feb13Noon })}, opts...)
	return NewCalendarUseCase(gen, hist, m, opts...)
}

func TestCalendarPeriods(t *testing.T) {
	m := newCountingMetrics()
	uc := newTestCalendar(m)
	ctx := context.Background()

	cases := []struct {
		period string
		want   []string
	}{
		{"", []string{"1", "2"}},
		{"daily", []string{"1", "2"}},
		{"weekly", []string{"1", "2", "3", "5", "6", "7"}},
		{"monthly", []string{"1", "2", "3", "5", "6", "7", "8", "12", "13"}},
		{"yearly", []string{"1", "2", "3", "5", "6", "7", "8", "12", "13", "15"}},
	}
	for _, c := range cases {
		res := uc.Events(ctx, c.period)
		assert.Equal(t, c.want, ids(res.Events), c.period)
		assert.Equal(t, len(c.want), res.Count, c.period)
		assert.True(t, res.GeneratedAt.Equal(feb13Noon))
	}
	assert.Equal(t, "daily", uc.Events(ctx, "").Period)
	assert.Equal(t, 6, m.generations["weekly"])
}

func TestCalendarDailyContent(t *testing.T) {
	res := newTestCalendar(nil).Events(context.Background(), "daily")
	require.Len(t, res.Events, 2)
	nfp := res.Events[0]
	assert.Equal(t, "Non-Farm Payrolls", nfp.Name)
	assert.Equal(t, "2026-02-13", nfp.Date.String())
	assert.Equal(t, "2026-02-13 22:30", nfp.TimeKST)
	assert.Equal(t, "185K", nfp.Previous.String())
	assert.Nil(t, nfp.Actual)
}

func TestCalendarChronologicalOrdering(t *testing.T) {
	res := newTestCalendar(nil, WithOrdering(OrderChronological)).Events(context.Background(), "yearly")
	require.NotEmpty(t, res.Events)
	assert.Equal(t, "15", res.Events[0].ID)
	for i := 1; i < len(res.Events); i++ {
		assert.LessOrEqual(t, res.Events[i-1].TimeKST, res.Events[i].TimeKST)
	}
}

func TestCalendarBrokenCatalogYieldsEmpty(t *testing.T) {
	m := newCountingMetrics()
	catalog := repository.NewStaticCatalog(testPattern("x", "Broken", 0, "99:99", models.ImportanceHigh))
	uc := NewCalendarUseCase(NewEventGenerator(catalog), NewHistoryLookup(nil, nil, nil), m,
		WithClock(func() time.Time { return feb13Noon }))

	res := uc.Events(context.Background(), "daily")
	assert.NotNil(t, res.Events)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 1, m.errors)
}

func TestCalendarHistory(t *testing.T) {
	uc := newTestCalendar(newCountingMetrics())
	ctx := context.Background()

	res := uc.History(ctx, "Non-Farm Payrolls")
	assert.Equal(t, "Non-Farm Payrolls", res.Indicator)
	require.Len(t, res.History, 6)
	require.NotNil(t, res.History[0].Surprise)
	assert.Equal(t, "+15K", res.History[0].Surprise.String())

	miss := uc.History(ctx, "Nonexistent Indicator")
	assert.NotNil(t, miss.History)
	assert.Empty(t, miss.History)
}

func TestHistoryLookupPrefersPrimary(t *testing.T) {
	m := newCountingMetrics()
	live := []models.HistoryPoint{{Date: util.MustParseDate("2026-01-09"), Actual: models.MustParseValue("159K")}}
	h := NewHistoryLookup(stubHistory{pts: live}, repository.DefaultHistory(), m)

	got := h.HistoryFor(context.Background(), "Non-Farm Payrolls")
	require.Len(t, got, 1)
	assert.Equal(t, "159K", got[0].Actual.String())
	assert.Nil(t, got[0].Forecast)
	assert.Equal(t, 1, m.lookups["primary"])
}

func TestHistoryLookupFallsBack(t *testing.T) {
	for name, primary := range map[string]stubHistory{
		"error": {err: errors.New("fred down")},
		"empty": {pts: []models.HistoryPoint{}},
	} {
		h := NewHistoryLookup(primary, repository.DefaultHistory(), nil)
		got := h.HistoryFor(context.Background(), "Consumer Price Index (CPI)")
		assert.Len(t, got, 5, name)
	}
}

func TestCalendarIndicators(t *testing.T) {
	names := newTestCalendar(nil).Indicators()
	require.Len(t, names, 15)
	assert.Equal(t, "Non-Farm Payrolls", names[0])
}
