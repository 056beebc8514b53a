package fred

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	pkghttp "FinDash/pkg/http"
	applogger "FinDash/pkg/logger"
	"FinDash/pkg/util"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	observationLimit = 10
	historyDepth     = 7
)

// ErrNoAPIKey is returned when the client was built without a key.
var ErrNoAPIKey = errors.New("fred: api key not set")

// Client reads release history from the FRED API. It implements
// domain.repository.HistorySource.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	apiKey  string
	series  map[string]string
	limiter *ratelimit.Limiter
	units   sync.Map // series id -> units
	l       *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *pkghttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter throttles calls under the "fred" key.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithSeries replaces the indicator name to series id map.
func WithSeries(m map[string]string) Option {
	return func(c *Client) { c.series = m }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    pkghttp.NewClient(),
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		series:  DefaultSeries(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// DefaultSeries maps calendar indicator names to FRED series ids. Several
// names share a series where FRED has no exact match.
func DefaultSeries() map[string]string {
	return map[string]string{
		"Non-Farm Payrolls":              "PAYEMS",
		"ADP Non-Farm Employment Change": "CENCCV",
		"Initial Jobless Claims":         "ICSA",
		"Consumer Price Index (CPI)":     "CPIAUCSL",
		"Producer Price Index (PPI)":     "PPIACO",
		"GDP":                            "GDP",
		"GDP (YoY)":                      "GDPC1",
		"Fed Interest Rate Decision":     "FEDFUNDS",
		"ISM Manufacturing PMI":          "NAPM",
		"ISM Services PMI":               "NAPM",
		"Consumer Confidence":            "UMCSENT",
		"Michigan Consumer Sentiment":    "UMCSENT",
		"Retail Sales":                   "RSXFS",
		"Core Retail Sales":              "RSXFS",
		"Housing Starts":                 "HOUST",
		"Building Permits":               "PERMIT",
		"Federal Reserve Balance Sheet":  "WALCL",
	}
}

// SeriesID returns the FRED series backing indicator.
func (c *Client) SeriesID(indicator string) (string, bool) {
	id, ok := c.series[indicator]
	return id, ok
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

type seriesResponse struct {
	Seriess []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Units string `json:"units"`
	} `json:"seriess"`
}

// History returns up to seven recent observations, oldest first. Indicators
// without a series yield an empty slice. FRED has no consensus forecasts, so
// Forecast is always nil.
func (c *Client) History(ctx context.Context, indicator string) ([]models.HistoryPoint, error) {
	id, ok := c.SeriesID(indicator)
	if !ok {
		return []models.HistoryPoint{}, nil
	}
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	var obs observationsResponse
	if err := c.get(ctx, "/series/observations", map[string][]string{
		"series_id":  {id},
		"limit":      {strconv.Itoa(observationLimit)},
		"sort_order": {"desc"},
	}, &obs); err != nil {
		return nil, fmt.Errorf("fred observations %s: %w", id, err)
	}

	units, err := c.seriesUnits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fred series %s: %w", id, err)
	}

	out := make([]models.HistoryPoint, 0, historyDepth)
	for _, o := range obs.Observations {
		if len(out) == historyDepth {
			break
		}
		if o.Value == "." {
			continue
		}
		num, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		d, err := util.ParseDate(o.Date)
		if err != nil {
			continue
		}
		out = append(out, models.HistoryPoint{Date: d, Actual: FormatValue(num, units)})
	}

	// FRED answers newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (c *Client) seriesUnits(ctx context.Context, id string) (string, error) {
	if u, ok := c.units.Load(id); ok {
		return u.(string), nil
	}
	var info seriesResponse
	if err := c.get(ctx, "/series", map[string][]string{"series_id": {id}}, &info); err != nil {
		return "", err
	}
	units := ""
	if len(info.Seriess) > 0 {
		units = info.Seriess[0].Units
	}
	c.units.Store(id, units)
	return units, nil
}

func (c *Client) get(ctx context.Context, path string, q map[string][]string, dest interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "fred"); err != nil {
			return err
		}
	}
	q["api_key"] = []string{c.apiKey}
	q["file_type"] = []string{"json"}
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: q,
	}, dest)
}

// FormatValue renders a raw observation in the unit family named by FRED's
// units string.
func FormatValue(num float64, units string) models.Value {
	u := strings.ToLower(units)
	switch {
	case strings.Contains(u, "percent") || strings.Contains(u, "%"):
		return models.NewValue(num, models.UnitPercent, 1)
	case strings.Contains(u, "thousands"):
		return models.NewValue(num/1000, models.UnitThousands, 0)
	case strings.Contains(u, "millions"):
		return models.NewValue(num, models.UnitMillions, 1)
	}
	d := decimal.NewFromFloat(num).Round(1)
	places := int32(1)
	if d.Equal(d.Truncate(0)) {
		places = 0
	}
	return models.Value{Magnitude: d, Unit: models.UnitPlain, Places: places}
}
