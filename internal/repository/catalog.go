package repository

import (
	"FinDash/internal/domain/models"
)

// StaticCatalog is an immutable, ordered set of indicator patterns.
type StaticCatalog struct {
	patterns []models.IndicatorPattern
	byName   map[string]int
}

// NewStaticCatalog copies patterns; later mutation of the argument has no effect.
func NewStaticCatalog(patterns ...models.IndicatorPattern) *StaticCatalog {
	c := &StaticCatalog{
		patterns: make([]models.IndicatorPattern, len(patterns)),
		byName:   make(map[string]int, len(patterns)),
	}
	copy(c.patterns, patterns)
	for i, p := range c.patterns {
		c.byName[p.Name] = i
	}
	return c
}

// ListPatterns returns the patterns in insertion order.
func (c *StaticCatalog) ListPatterns() []models.IndicatorPattern {
	out := make([]models.IndicatorPattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Names returns indicator names in catalog order.
func (c *StaticCatalog) Names() []string {
	out := make([]string, 0, len(c.patterns))
	for _, p := range c.patterns {
		out = append(out, p.Name)
	}
	return out
}

// Find looks a pattern up by indicator name.
func (c *StaticCatalog) Find(name string) (models.IndicatorPattern, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.IndicatorPattern{}, false
	}
	return c.patterns[i], true
}

func actual(s string) *models.Value {
	v := models.MustParseValue(s)
	return &v
}

func pattern(id, name string, offset int, at string, prev, fcst string, act *models.Value, imp models.Importance) models.IndicatorPattern {
	return models.IndicatorPattern{
		ID:         id,
		Name:       name,
		DayOffset:  offset,
		Time:       at,
		Currency:   "USD",
		Previous:   models.MustParseValue(prev),
		Forecast:   models.MustParseValue(fcst),
		Actual:     act,
		Importance: imp,
	}
}

// DefaultCatalog is the built-in release schedule. Times are US Eastern.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(
		pattern("1", "Non-Farm Payrolls", 0, "08:30", "185K", "170K", nil, models.ImportanceHigh),
		pattern("2", "Consumer Price Index (CPI)", 0, "08:30", "0.3%", "0.4%", nil, models.ImportanceHigh),
		pattern("3", "GDP (QoQ)", 1, "08:30", "2.1%", "2.3%", nil, models.ImportanceHigh),
		pattern("4", "Initial Jobless Claims", 2, "08:30", "219K", "215K", nil, models.ImportanceMedium),
		pattern("5", "Fed Interest Rate Decision", 3, "14:00", "5.25%", "5.25%", nil, models.ImportanceHigh),
		pattern("6", "Producer Price Index (PPI)", 5, "08:30", "0.2%", "0.3%", nil, models.ImportanceHigh),
		pattern("7", "ISM Manufacturing PMI", 7, "10:00", "49.1", "49.5", nil, models.ImportanceHigh),
		pattern("8", "Retail Sales", 8, "08:30", "0.6%", "0.4%", nil, models.ImportanceHigh),
		pattern("9", "Michigan Consumer Sentiment", 10, "10:00", "71.1", "72.0", nil, models.ImportanceMedium),
		pattern("10", "Housing Starts", 14, "08:30", "1.36M", "1.38M", nil, models.ImportanceLow),
		pattern("11", "Building Permits", 14, "08:30", "1.45M", "1.44M", nil, models.ImportanceLow),
		pattern("12", "Core Retail Sales", 21, "08:30", "0.4%", "0.3%", nil, models.ImportanceHigh),
		pattern("13", "Consumer Confidence", 30, "10:00", "104.1", "105.0", nil, models.ImportanceHigh),
		pattern("14", "Federal Reserve Balance Sheet", -1, "16:30", "6.81T", "6.80T", actual("6.79T"), models.ImportanceMedium),
		pattern("15", "ADP Non-Farm Employment Change", -2, "08:15", "146K", "150K", actual("164K"), models.ImportanceHigh),
	)
}
