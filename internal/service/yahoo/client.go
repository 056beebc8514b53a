package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	pkghttp "FinDash/pkg/http"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// BrowserAgent is sent to Yahoo, which rejects non-browser clients.
	BrowserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var errNoData = errors.New("yahoo: no chart data")

// Client reads daily index quotes from the Yahoo Finance chart API. It
// implements domain.repository.IndexFeed.
type Client struct {
	http           *pkghttp.Client
	baseURL        string
	requestTimeout time.Duration
	limiter        *ratelimit.Limiter
}

// Option configures Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *pkghttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter throttles calls under the "yahoo" key.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithRequestTimeout bounds each symbol fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		requestTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = pkghttp.NewClient(pkghttp.WithUserAgent(BrowserAgent))
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta *struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote fetches the last two daily closes for sym.
func (c *Client) Quote(ctx context.Context, sym models.IndexSymbol) (models.IndexQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "yahoo"); err != nil {
			return models.IndexQuote{}, err
		}
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(sym.Symbol),
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"2d"},
		},
	}, &resp)
	if err != nil {
		return models.IndexQuote{}, fmt.Errorf("yahoo %s: %w", sym.Symbol, err)
	}

	q, err := quoteFrom(resp)
	if err != nil {
		return models.IndexQuote{}, fmt.Errorf("yahoo %s: %w", sym.Symbol, err)
	}
	q.IndexSymbol = sym
	return q, nil
}

func quoteFrom(resp chartResponse) (models.IndexQuote, error) {
	if len(resp.Chart.Result) == 0 {
		return models.IndexQuote{}, errNoData
	}
	r := resp.Chart.Result[0]
	if r.Meta == nil || len(r.Indicators.Quote) == 0 || r.Indicators.Quote[0].Close == nil {
		return models.IndexQuote{}, fmt.Errorf("%w: missing meta or quote", errNoData)
	}

	closes := make([]float64, 0, len(r.Indicators.Quote[0].Close))
	for _, c := range r.Indicators.Quote[0].Close {
		if c != nil {
			closes = append(closes, *c)
		}
	}

	var prev, price float64
	switch {
	case len(closes) > 1:
		prev = closes[len(closes)-2]
	case r.Meta.PreviousClose != nil:
		prev = *r.Meta.PreviousClose
	case r.Meta.ChartPreviousClose != nil:
		prev = *r.Meta.ChartPreviousClose
	}
	if n := len(closes); n > 0 && closes[n-1] != 0 {
		price = closes[n-1]
	} else if r.Meta.RegularMarketPrice != nil {
		price = *r.Meta.RegularMarketPrice
	} else {
		return models.IndexQuote{}, fmt.Errorf("%w: no price", errNoData)
	}

	change := price - prev
	pct := 0.0
	if prev > 0 {
		pct = change / prev * 100
	}
	return models.IndexQuote{
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(pct),
		PreviousClose: round2(prev),
	}, nil
}

func round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}
