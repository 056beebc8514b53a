package coingecko

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	pkghttp "FinDash/pkg/http"
	"FinDash/pkg/util"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

var (
	// Coins quoted on the dashboard.
	Coins = []string{"bitcoin", "ethereum"}
	// Currencies each coin is quoted in.
	Currencies = []string{"usd", "krw"}
	// NewsKeywords select relevant headlines, matched case-insensitively
	// against title and description.
	NewsKeywords = []string{"microstrategy", "bitmine", "bitcoin", "ethereum", "mining", "crypto", "mstr", "btc", "eth"}
)

const (
	newsLimit          = 10
	descriptionRunes   = 200
	missingTitle       = "No title"
	missingDescription = "No description available"
)

// Client talks to the public CoinGecko API. It implements
// domain.repository.CryptoFeed and domain.repository.NewsFeed.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	limiter *ratelimit.Limiter
	now     func() time.Time
}

// Option configures Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *pkghttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter throttles calls under the "coingecko" key.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithClock stamps items that arrive without a publish time.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(opts ...Option) *Client {
	c := &Client{
		http:    pkghttp.NewClient(),
		baseURL: DefaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prices returns spot prices with 24h change for Coins in Currencies.
func (c *Client) Prices(ctx context.Context) (models.CryptoPrices, error) {
	var out models.CryptoPrices
	err := c.get(ctx, "/simple/price", map[string][]string{
		"ids":                 {strings.Join(Coins, ",")},
		"vs_currencies":       {strings.Join(Currencies, ",")},
		"include_24hr_change": {"true"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("coingecko prices: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("coingecko prices: empty response")
	}
	return out, nil
}

type newsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Thumb       string `json:"thumb"`
	CreatedAt   int64  `json:"created_at"`
}

type newsResponse struct {
	Data []newsItem `json:"data"`
}

// Latest returns up to ten keyword-matching headlines. An upstream success
// with nothing relevant is an empty, non-nil slice.
func (c *Client) Latest(ctx context.Context) ([]models.NewsItem, error) {
	var resp newsResponse
	if err := c.get(ctx, "/news", nil, &resp); err != nil {
		return nil, fmt.Errorf("coingecko news: %w", err)
	}
	return FilterNews(resp.Data, c.now()), nil
}

// FilterNews applies the keyword filter and fills defaults.
func FilterNews(items []newsItem, now time.Time) []models.NewsItem {
	out := make([]models.NewsItem, 0, newsLimit)
	for _, it := range items {
		if len(out) == newsLimit {
			break
		}
		if !relevant(it.Title, it.Description) {
			continue
		}
		out = append(out, normalize(it, now))
	}
	return out
}

func relevant(title, description string) bool {
	t := strings.ToLower(title)
	d := strings.ToLower(description)
	for _, k := range NewsKeywords {
		if strings.Contains(t, k) || strings.Contains(d, k) {
			return true
		}
	}
	return false
}

func normalize(it newsItem, now time.Time) models.NewsItem {
	n := models.NewsItem{
		Title:       it.Title,
		Description: util.Truncate(it.Description, descriptionRunes),
		URL:         it.URL,
		PublishedAt: publishedAt(it, now),
	}
	if n.Title == "" {
		n.Title = missingTitle
	}
	if n.Description == "" {
		n.Description = missingDescription
	}
	n.Description += "..."
	if n.URL == "" {
		n.URL = "#"
	}
	if it.Thumb != "" {
		thumb := it.Thumb
		n.Thumbnail = &thumb
	}
	return n
}

// publishedAt normalizes parseable stamps to RFC3339 and passes anything else
// through untouched.
func publishedAt(it newsItem, now time.Time) string {
	if it.PublishedAt != "" {
		if t, ok := util.ParseTime(it.PublishedAt); ok {
			return t.UTC().Format(time.RFC3339)
		}
		return it.PublishedAt
	}
	if it.CreatedAt > 0 {
		return time.Unix(it.CreatedAt, 0).UTC().Format(time.RFC3339)
	}
	return now.UTC().Format(time.RFC3339)
}

func (c *Client) get(ctx context.Context, path string, q map[string][]string, dest interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "coingecko"); err != nil {
			return err
		}
	}
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: q,
	}, dest)
}
