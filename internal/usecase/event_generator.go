package usecase

import (
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/pkg/util"
)

// EventGenerator materializes catalog patterns against a reference day.
type EventGenerator struct {
	catalog   domrepo.EventCatalog
	loc       *time.Location
	srcOffset int
	dstOffset int
}

// GeneratorOption configures EventGenerator.
type GeneratorOption func(*EventGenerator)

// WithLocation sets the zone whose midnight defines "today".
func WithLocation(loc *time.Location) GeneratorOption {
	return func(g *EventGenerator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithOffsets sets the release-time and display-time UTC offsets in hours.
func WithOffsets(src, dst int) GeneratorOption {
	return func(g *EventGenerator) {
		g.srcOffset = src
		g.dstOffset = dst
	}
}

func NewEventGenerator(catalog domrepo.EventCatalog, opts ...GeneratorOption) *EventGenerator {
	g := &EventGenerator{
		catalog:   catalog,
		loc:       time.UTC,
		srcOffset: util.EasternOffsetHours,
		dstOffset: util.KoreaOffsetHours,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Today is the reference day for now.
func (g *EventGenerator) Today(now time.Time) util.Date {
	return util.Today(now, g.loc)
}

// Generate builds every catalog event relative to the day containing now.
func (g *EventGenerator) Generate(now time.Time) ([]models.GeneratedEvent, error) {
	return g.GenerateFor(g.Today(now))
}

// GenerateFor builds every catalog event relative to today, in catalog order.
func (g *EventGenerator) GenerateFor(today util.Date) ([]models.GeneratedEvent, error) {
	patterns := g.catalog.ListPatterns()
	out := make([]models.GeneratedEvent, 0, len(patterns))
	for _, p := range patterns {
		date := today.AddDays(p.DayOffset)
		kst, err := util.ConvertStamp(date, p.Time, g.srcOffset, g.dstOffset)
		if err != nil {
			return nil, fmt.Errorf("generate %q: %w", p.Name, err)
		}
		out = append(out, models.GeneratedEvent{
			ID:         p.ID,
			Name:       p.Name,
			Date:       date,
			Time:       p.Time,
			TimeKST:    kst,
			Importance: p.Importance,
			Currency:   p.Currency,
			Previous:   p.Previous,
			Forecast:   p.Forecast,
			Actual:     p.Actual,
		})
	}
	return out, nil
}
