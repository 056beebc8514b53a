package models

import (
	"time"

	"FinDash/pkg/util"
)

// Importance is the star rating of an indicator.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Valid reports whether i is one of the known tiers.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	default:
		return false
	}
}

// IndicatorPattern is a catalog entry scheduled DayOffset days from "today".
// Time is the release wall-clock in US Eastern at a fixed UTC-5 offset.
type IndicatorPattern struct {
	ID         string
	Name       string
	DayOffset  int
	Time       string
	Currency   string
	Previous   Value
	Forecast   Value
	Actual     *Value
	Importance Importance
}

// GeneratedEvent is a pattern materialized against a concrete date.
type GeneratedEvent struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Date       util.Date  `json:"date"`
	Time       string     `json:"time"`
	TimeKST    string     `json:"timeKST"`
	Importance Importance `json:"importance"`
	Currency   string     `json:"currency"`
	Previous   Value      `json:"previous"`
	Forecast   Value      `json:"forecast"`
	Actual     *Value     `json:"actual"`
}

// HistoryPoint is one past release of an indicator.
type HistoryPoint struct {
	Date     util.Date `json:"date"`
	Actual   Value     `json:"actual"`
	Forecast *Value    `json:"forecast"`
	Surprise *Value    `json:"surprise,omitempty"`
}

// WithSurprise fills Surprise when a comparable forecast exists.
func (p HistoryPoint) WithSurprise() HistoryPoint {
	if p.Forecast == nil {
		return p
	}
	if d, err := p.Actual.Sub(*p.Forecast); err == nil {
		p.Surprise = &d
	}
	return p
}

// CalendarResult is the period view of the calendar.
type CalendarResult struct {
	Period      string           `json:"period"`
	Events      []GeneratedEvent `json:"events"`
	Count       int              `json:"count"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// HistoryResult is the indicator view of the calendar.
type HistoryResult struct {
	Indicator string         `json:"indicator"`
	History   []HistoryPoint `json:"history"`
}
