package repository

import (
	"context"

	"FinDash/internal/domain/models"
	"FinDash/pkg/util"
)

// StaticHistory serves a fixed, pre-ordered observation table.
type StaticHistory struct {
	m map[string][]models.HistoryPoint
}

func NewStaticHistory(m map[string][]models.HistoryPoint) *StaticHistory {
	cp := make(map[string][]models.HistoryPoint, len(m))
	for k, v := range m {
		cp[k] = append([]models.HistoryPoint(nil), v...)
	}
	return &StaticHistory{m: cp}
}

// History never fails; an unknown indicator yields an empty slice.
func (h *StaticHistory) History(_ context.Context, indicator string) ([]models.HistoryPoint, error) {
	pts, ok := h.m[indicator]
	if !ok {
		return []models.HistoryPoint{}, nil
	}
	out := make([]models.HistoryPoint, len(pts))
	copy(out, pts)
	return out, nil
}

func point(date, act, fcst string) models.HistoryPoint {
	f := models.MustParseValue(fcst)
	return models.HistoryPoint{
		Date:     util.MustParseDate(date),
		Actual:   models.MustParseValue(act),
		Forecast: &f,
	}
}

// DefaultHistory holds the most recent releases, newest first.
func DefaultHistory() *StaticHistory {
	return NewStaticHistory(map[string][]models.HistoryPoint{
		"Non-Farm Payrolls": {
			point("2026-01-10", "185K", "170K"),
			point("2025-12-06", "227K", "200K"),
			point("2025-11-01", "12K", "180K"),
			point("2025-10-04", "254K", "150K"),
			point("2025-09-06", "142K", "165K"),
			point("2025-08-02", "114K", "175K"),
		},
		"Consumer Price Index (CPI)": {
			point("2026-01-15", "0.3%", "0.4%"),
			point("2025-12-12", "0.4%", "0.3%"),
			point("2025-11-13", "0.2%", "0.3%"),
			point("2025-10-10", "0.4%", "0.3%"),
			point("2025-09-12", "0.3%", "0.3%"),
		},
	})
}
