package models

// CoinQuote is the spot price of one coin.
type CoinQuote struct {
	USD          float64 `json:"usd"`
	KRW          float64 `json:"krw"`
	USD24hChange float64 `json:"usd_24h_change"`
	KRW24hChange float64 `json:"krw_24h_change"`
}

// CryptoPrices is keyed by coin id ("bitcoin", "ethereum").
type CryptoPrices map[string]CoinQuote

type NewsItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
	Thumbnail   *string `json:"thumbnail"`
}

// IndexSymbol identifies a stock index tracked on the dashboard.
type IndexSymbol struct {
	Symbol  string `json:"symbol" yaml:"symbol"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
}

// IndexQuote is a daily quote. Fallback marks placeholder rows served when
// every upstream call failed.
type IndexQuote struct {
	IndexSymbol
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	PreviousClose float64 `json:"previousClose"`
	Fallback      bool    `json:"fallback,omitempty"`
}
