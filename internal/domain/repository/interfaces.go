package repository

import (
	"context"

	"FinDash/internal/domain/models"
)

// EventCatalog lists indicator patterns in a stable order.
type EventCatalog interface {
	ListPatterns() []models.IndicatorPattern
}

// HistorySource returns past releases for an indicator. A miss is an empty
// slice; errors are reserved for upstream failures.
type HistorySource interface {
	History(ctx context.Context, indicator string) ([]models.HistoryPoint, error)
}

type CryptoFeed interface {
	Prices(ctx context.Context) (models.CryptoPrices, error)
}

type NewsFeed interface {
	Latest(ctx context.Context) ([]models.NewsItem, error)
}

type IndexFeed interface {
	Quote(ctx context.Context, sym models.IndexSymbol) (models.IndexQuote, error)
}

type Metrics interface {
	RecordGeneration(period string, events int)
	RecordHistoryLookup(source string, hit bool)
	RecordUpstream(feed, outcome string, seconds float64)
	RecordCache(feed string, hit bool)
	RecordError(kind string)
}
