package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/pkg/cache"
	pkghttp "FinDash/pkg/http"
	applogger "FinDash/pkg/logger"
)

const (
	feedCrypto  = "crypto"
	feedNews    = "news"
	feedIndexes = "indexes"
)

var errNoQuotes = errors.New("no index quotes")

// MarketTTL is how long each feed stays cached.
type MarketTTL struct {
	Crypto  time.Duration
	News    time.Duration
	Indexes time.Duration
}

// DefaultMarketTTL matches the upstream revalidation windows.
func DefaultMarketTTL() MarketTTL {
	return MarketTTL{Crypto: 60 * time.Second, News: 300 * time.Second, Indexes: 60 * time.Second}
}

// MarketUseCase serves the dashboard market widgets.
type MarketUseCase struct {
	crypto  domrepo.CryptoFeed
	news    domrepo.NewsFeed
	indexes domrepo.IndexFeed
	symbols []models.IndexSymbol
	cache   cache.Service
	ttl     MarketTTL
	metrics domrepo.Metrics
	clock   func() time.Time
	l       *applogger.Logger
}

// MarketOption configures MarketUseCase.
type MarketOption func(*MarketUseCase)

func WithMarketCache(c cache.Service, ttl MarketTTL) MarketOption {
	return func(uc *MarketUseCase) {
		uc.cache = c
		uc.ttl = ttl
	}
}

func WithMarketClock(clock func() time.Time) MarketOption {
	return func(uc *MarketUseCase) { uc.clock = clock }
}

func WithMarketMetrics(m domrepo.Metrics) MarketOption {
	return func(uc *MarketUseCase) { uc.metrics = m }
}

func NewMarketUseCase(crypto domrepo.CryptoFeed, news domrepo.NewsFeed, indexes domrepo.IndexFeed, symbols []models.IndexSymbol, opts ...MarketOption) *MarketUseCase {
	uc := &MarketUseCase{
		crypto:  crypto,
		news:    news,
		indexes: indexes,
		symbols: symbols,
		ttl:     DefaultMarketTTL(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SetLogger injects a structured logger.
func (uc *MarketUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// CryptoPrices is the only feed without a fallback.
func (uc *MarketUseCase) CryptoPrices(ctx context.Context) (models.CryptoPrices, error) {
	prices, err := cached(ctx, uc, feedCrypto, uc.ttl.Crypto, uc.crypto.Prices)
	if err != nil {
		uc.warn("market.crypto error", err)
		return nil, pkghttp.UpstreamError("Failed to fetch crypto prices", err)
	}
	return prices, nil
}

// News returns at most limit items; limit <= 0 means all. Sample headlines
// stand in when the feed fails or has nothing relevant.
func (uc *MarketUseCase) News(ctx context.Context, limit int) []models.NewsItem {
	items, err := cached(ctx, uc, feedNews, uc.ttl.News, func(ctx context.Context) ([]models.NewsItem, error) {
		items, err := uc.news.Latest(ctx)
		if err == nil && len(items) == 0 {
			err = errors.New("no relevant news")
		}
		return items, err
	})
	if err != nil {
		uc.warn("market.news fallback", err)
		items = SampleNews(uc.clock())
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// StockIndexes fetches every symbol concurrently and drops failures. When all
// fail the zero-valued fallback list is returned.
func (uc *MarketUseCase) StockIndexes(ctx context.Context) []models.IndexQuote {
	quotes, err := cached(ctx, uc, feedIndexes, uc.ttl.Indexes, uc.fetchIndexes)
	if err != nil {
		uc.warn("market.indexes fallback", err)
		return FallbackQuotes(uc.symbols)
	}
	return quotes
}

func (uc *MarketUseCase) fetchIndexes(ctx context.Context) ([]models.IndexQuote, error) {
	results := make([]*models.IndexQuote, len(uc.symbols))
	var wg sync.WaitGroup
	for i, sym := range uc.symbols {
		wg.Add(1)
		go func(i int, sym models.IndexSymbol) {
			defer wg.Done()
			q, err := uc.indexes.Quote(ctx, sym)
			if err != nil {
				if uc.l != nil {
					uc.l.Debug("market.index quote failed", applogger.String("symbol", sym.Symbol), applogger.Error(err))
				}
				return
			}
			results[i] = &q
		}(i, sym)
	}
	wg.Wait()

	out := make([]models.IndexQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			out = append(out, *q)
		}
	}
	if len(out) == 0 {
		return nil, errNoQuotes
	}
	if uc.l != nil && len(out) < len(uc.symbols) {
		uc.l.Warn("market.indexes partial",
			applogger.Int("quoted", len(out)),
			applogger.Float64("coverage", float64(len(out))/float64(len(uc.symbols))),
		)
	}
	return out, nil
}

// Warm refreshes every feed cache from upstream.
func (uc *MarketUseCase) Warm(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	var errs []error
	if _, err := uc.refresh(ctx, feedCrypto, uc.ttl.Crypto, func(ctx context.Context) (any, error) { return uc.crypto.Prices(ctx) }); err != nil {
		errs = append(errs, err)
	}
	if _, err := uc.refresh(ctx, feedNews, uc.ttl.News, func(ctx context.Context) (any, error) {
		items, err := uc.news.Latest(ctx)
		if err == nil && len(items) == 0 {
			err = errors.New("no relevant news")
		}
		return items, err
	}); err != nil {
		errs = append(errs, err)
	}
	if _, err := uc.refresh(ctx, feedIndexes, uc.ttl.Indexes, func(ctx context.Context) (any, error) { return uc.fetchIndexes(ctx) }); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// cached reads feed from the cache, fetching and storing it on a miss.
// Failed fetches are never cached.
func cached[T any](ctx context.Context, uc *MarketUseCase, feed string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	key := cache.Key("feed", feed)
	if uc.cache != nil {
		v, err := cache.GetTyped[T](ctx, uc.cache, key)
		switch {
		case err == nil:
			uc.recordCache(feed, true)
			return v, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			uc.warn("market.cache get error", err)
		}
		uc.recordCache(feed, false)
	}

	v, err := uc.refresh(ctx, feed, ttl, func(ctx context.Context) (any, error) { return fetch(ctx) })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (uc *MarketUseCase) refresh(ctx context.Context, feed string, ttl time.Duration, fetch func(context.Context) (any, error)) (any, error) {
	start := time.Now()
	v, err := fetch(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if uc.metrics != nil {
		uc.metrics.RecordUpstream(feed, outcome, time.Since(start).Seconds())
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordError("upstream_" + feed)
		}
		return nil, fmt.Errorf("%s: %w", feed, err)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cache.Key("feed", feed), v, ttl); err != nil {
			uc.warn("market.cache set error", err)
		}
	}
	return v, nil
}

func (uc *MarketUseCase) recordCache(feed string, hit bool) {
	if uc.metrics != nil {
		uc.metrics.RecordCache(feed, hit)
	}
}

func (uc *MarketUseCase) warn(msg string, err error) {
	if uc.l != nil {
		uc.l.Warn(msg, applogger.Error(err))
	}
}

// SampleNews is served when the news feed is unavailable.
func SampleNews(now time.Time) []models.NewsItem {
	stamp := func(ago time.Duration) string { return now.Add(-ago).UTC().Format(time.RFC3339) }
	return []models.NewsItem{
		{
			Title:       "Bitcoin Holds Strong Above $67,000 as Institutional Adoption Continues",
			Description: "Major financial institutions continue to increase their Bitcoin holdings amid growing market confidence.",
			URL:         "https://coingecko.com/news/bitcoin-holds-strong-above-67000",
			PublishedAt: stamp(0),
		},
		{
			Title:       "MicroStrategy Increases Bitcoin Treasury Holdings",
			Description: "The software company adds more Bitcoin to its balance sheet, cementing its position as the largest corporate holder.",
			URL:         "https://coingecko.com/news/microstrategy-increases-bitcoin-holdings",
			PublishedAt: stamp(time.Hour),
		},
		{
			Title:       "Ethereum Layer 2 Solutions See Record Transaction Volumes",
			Description: "Scalability solutions on the Ethereum network continue to gain traction among users and developers.",
			URL:         "https://coingecko.com/news/ethereum-layer2-solutions-gain-traction",
			PublishedAt: stamp(2 * time.Hour),
		},
	}
}

// FallbackQuotes returns zeroed placeholder rows for symbols.
func FallbackQuotes(symbols []models.IndexSymbol) []models.IndexQuote {
	out := make([]models.IndexQuote, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, models.IndexQuote{IndexSymbol: s, Fallback: true})
	}
	return out
}
