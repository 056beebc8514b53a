package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeeds struct {
	prices models.CryptoPrices
	err    error
	news   []models.NewsItem
}

func (s stubFeeds) Prices(context.Context) (models.CryptoPrices, error) { return s.prices, s.err }
func (s stubFeeds) Latest(context.Context) ([]models.NewsItem, error)   { return s.news, s.err }
func (s stubFeeds) Quote(_ context.Context, sym models.IndexSymbol) (models.IndexQuote, error) {
	if s.err != nil {
		return models.IndexQuote{}, s.err
	}
	return models.IndexQuote{IndexSymbol: sym, Price: 100, Change: 1, ChangePercent: 1.01, PreviousClose: 99}, nil
}

func newMarketServer(feeds stubFeeds, limiter *ratelimit.Limiter) *echo.Echo {
	symbols := []models.IndexSymbol{{Symbol: "^KS11", Name: "KOSPI", Country: "Korea"}}
	uc := usecase.NewMarketUseCase(feeds, feeds, feeds, symbols,
		usecase.WithMarketClock(func() time.Time { return fixedNow }))
	e := echo.New()
	NewMarketEchoHandler(nil, uc, limiter).RegisterRoutes(e)
	return e
}

func serve(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCryptoPrices(t *testing.T) {
	e := newMarketServer(stubFeeds{prices: models.CryptoPrices{"bitcoin": {USD: 67000, KRW: 9e7}}}, nil)
	rec := serve(e, "/api/crypto-prices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bitcoin":{"usd":67000,"krw":90000000,"usd_24h_change":0,"krw_24h_change":0}}`, rec.Body.String())
}

func TestCryptoPricesFailure(t *testing.T) {
	rec := serve(newMarketServer(stubFeeds{err: errors.New("down")}, nil), "/api/crypto-prices")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch crypto prices"}`, rec.Body.String())
}

func TestNewsFallbackAndLimit(t *testing.T) {
	e := newMarketServer(stubFeeds{err: errors.New("down")}, nil)

	rec := serve(e, "/api/news")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.NewsItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 3)

	rec = serve(e, "/api/news?limit=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestNewsRejectsBadLimit(t *testing.T) {
	e := newMarketServer(stubFeeds{}, nil)
	for _, q := range []string{"11", "-1", "abc"} {
		rec := serve(e, "/api/news?limit="+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestStockIndexes(t *testing.T) {
	rec := serve(newMarketServer(stubFeeds{}, nil), "/api/stock-indexes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"symbol":"^KS11","name":"KOSPI","country":"Korea","price":100,"change":1,"changePercent":1.01,"previousClose":99}]`, rec.Body.String())

	rec = serve(newMarketServer(stubFeeds{err: errors.New("down")}, nil), "/api/stock-indexes")
	assert.JSONEq(t, `[{"symbol":"^KS11","name":"KOSPI","country":"Korea","price":0,"change":0,"changePercent":0,"previousClose":0,"fallback":true}]`, rec.Body.String())
}

func TestMarketRateLimited(t *testing.T) {
	e := newMarketServer(stubFeeds{}, ratelimit.New(0.001, 2))

	assert.Equal(t, http.StatusOK, serve(e, "/api/stock-indexes").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/api/stock-indexes").Code)
	rec := serve(e, "/api/stock-indexes")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "ERR_TOO_MANY_REQUESTS")
}
