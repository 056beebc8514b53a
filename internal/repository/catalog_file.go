package repository

import (
	"fmt"
	"os"

	"FinDash/internal/domain/models"
	"FinDash/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Indicators []catalogEntry `yaml:"indicators" validate:"required,min=1,dive"`
}

type catalogEntry struct {
	ID         string `yaml:"id" validate:"required"`
	Name       string `yaml:"name" validate:"required"`
	DayOffset  int    `yaml:"day_offset" validate:"gte=-366,lte=366"`
	Time       string `yaml:"time" validate:"required,len=5"`
	Currency   string `yaml:"currency" default:"USD" validate:"required,alpha,len=3"`
	Previous   string `yaml:"previous" validate:"required"`
	Forecast   string `yaml:"forecast" validate:"required"`
	Actual     string `yaml:"actual"`
	Importance string `yaml:"importance" default:"medium" validate:"oneof=high medium low"`
}

var catalogValidate = validator.New()

// LoadCatalogFile reads a YAML catalog. Every problem is reported as
// util.ErrInvalidInput.
func LoadCatalogFile(path string) (*StaticCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog builds a catalog from YAML bytes.
func ParseCatalog(b []byte) (*StaticCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", util.ErrInvalidInput, err)
	}
	for i := range f.Indicators {
		if err := defaults.Set(&f.Indicators[i]); err != nil {
			return nil, fmt.Errorf("%w: defaults: %v", util.ErrInvalidInput, err)
		}
	}
	if err := catalogValidate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}

	ids := make(map[string]struct{}, len(f.Indicators))
	names := make(map[string]struct{}, len(f.Indicators))
	patterns := make([]models.IndicatorPattern, 0, len(f.Indicators))
	for _, e := range f.Indicators {
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", util.ErrInvalidInput, e.ID)
		}
		if _, dup := names[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", util.ErrInvalidInput, e.Name)
		}
		ids[e.ID] = struct{}{}
		names[e.Name] = struct{}{}

		p, err := e.pattern()
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", e.Name, err)
		}
		patterns = append(patterns, p)
	}
	return NewStaticCatalog(patterns...), nil
}

func (e catalogEntry) pattern() (models.IndicatorPattern, error) {
	if _, _, err := util.ParseClock(e.Time); err != nil {
		return models.IndicatorPattern{}, err
	}
	prev, err := models.ParseValue(e.Previous)
	if err != nil {
		return models.IndicatorPattern{}, fmt.Errorf("previous: %w", err)
	}
	fcst, err := models.ParseValue(e.Forecast)
	if err != nil {
		return models.IndicatorPattern{}, fmt.Errorf("forecast: %w", err)
	}
	p := models.IndicatorPattern{
		ID:         e.ID,
		Name:       e.Name,
		DayOffset:  e.DayOffset,
		Time:       e.Time,
		Currency:   e.Currency,
		Previous:   prev,
		Forecast:   fcst,
		Importance: models.Importance(e.Importance),
	}
	if e.Actual != "" {
		act, err := models.ParseValue(e.Actual)
		if err != nil {
			return models.IndicatorPattern{}, fmt.Errorf("actual: %w", err)
		}
		p.Actual = &act
	}
	return p, nil
}
