package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

func TestPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "bitcoin,ethereum", q.Get("ids"))
		assert.Equal(t, "usd,krw", q.Get("vs_currencies"))
		assert.Equal(t, "true", q.Get("include_24hr_change"))
		fmt.Fprint(w, `{"bitcoin":{"usd":97000.5,"krw":140000000,"usd_24h_change":1.25,"krw_24h_change":1.1},
			"ethereum":{"usd":2700,"krw":3900000,"usd_24h_change":-0.5,"krw_24h_change":-0.7}}`)
	}))
	defer srv.Close()

	prices, err := New(WithBaseURL(srv.URL)).Prices(context.Background())
	require.NoError(t, err)
	require.Contains(t, prices, "bitcoin")
	assert.Equal(t, 97000.5, prices["bitcoin"].USD)
	assert.Equal(t, -0.5, prices["ethereum"].USD24hChange)
}

func TestPricesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Prices(context.Background())
	assert.Error(t, err)
}

func TestLatestFiltersAndNormalizes(t *testing.T) {
	long := strings.Repeat("b", 250)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		fmt.Fprintf(w, `{"data":[
			{"title":"Fed minutes released","description":"rates"},
			{"title":"MicroStrategy buys more","description":%q,"url":"https://x/1","published_at":"2026-02-13T10:00:00Z","thumb":"https://x/t.png"},
			{"title":"","description":"new mining rigs"},
			{"title":"BTC ETF flows","description":"","created_at":1770976800}
		]}`, long)
	}))
	defer srv.Close()

	items, err := New(WithBaseURL(srv.URL), WithClock(func() time.Time { return testNow })).Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "MicroStrategy buys more", items[0].Title)
	assert.Equal(t, strings.Repeat("b", 200)+"...", items[0].Description)
	require.NotNil(t, items[0].Thumbnail)
	assert.Equal(t, "https://x/t.png", *items[0].Thumbnail)
	assert.Equal(t, "2026-02-13T10:00:00Z", items[0].PublishedAt)

	assert.Equal(t, "No title", items[1].Title)
	assert.Equal(t, "new mining rigs...", items[1].Description)
	assert.Equal(t, "#", items[1].URL)
	assert.Nil(t, items[1].Thumbnail)
	assert.Equal(t, "2026-02-13T12:00:00Z", items[1].PublishedAt)

	assert.Equal(t, "No description available...", items[2].Description)
	assert.Equal(t, "2026-02-13T10:00:00Z", items[2].PublishedAt)
}

func TestFilterNewsCapsAtTen(t *testing.T) {
	in := make([]newsItem, 15)
	for i := range in {
		in[i] = newsItem{Title: fmt.Sprintf("Ethereum update %d", i)}
	}
	out := FilterNews(in, testNow)
	require.Len(t, out, 10)
	assert.Equal(t, "Ethereum update 9", out[9].Title)
}

func TestFilterNewsNothingRelevant(t *testing.T) {
	out := FilterNews([]newsItem{{Title: "Weather"}}, testNow)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
