package fred

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const observationsBody = `{"observations":[
	{"date":"2026-01-01","value":"159526"},
	{"date":"2025-12-01","value":"."},
	{"date":"2025-11-01","value":"159300"},
	{"date":"2025-10-01","value":"159100"},
	{"date":"2025-09-01","value":"158900"},
	{"date":"2025-08-01","value":"158700"},
	{"date":"2025-07-01","value":"158500"},
	{"date":"2025-06-01","value":"158300"},
	{"date":"2025-05-01","value":"158100"},
	{"date":"2025-04-01","value":"157900"}
]}`

func newFakeFRED(t *testing.T, units string, seriesCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/series/observations", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "PAYEMS", q.Get("series_id"))
		assert.Equal(t, "k", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("file_type"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		fmt.Fprint(w, observationsBody)
	})
	mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(seriesCalls, 1)
		fmt.Fprintf(w, `{"seriess":[{"id":"PAYEMS","title":"All Employees","units":%q}]}`, units)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHistoryFromObservations(t *testing.T) {
	var calls int32
	srv := newFakeFRED(t, "Thousands of Persons", &calls)
	c := New("k", WithBaseURL(srv.URL))

	pts, err := c.History(context.Background(), "Non-Farm Payrolls")
	require.NoError(t, err)
	require.Len(t, pts, 7)

	assert.Equal(t, "2025-06-01", pts[0].Date.String())
	assert.Equal(t, "2026-01-01", pts[6].Date.String())
	assert.Equal(t, "160K", pts[6].Actual.String())
	assert.Equal(t, "159K", pts[5].Actual.String())
	for _, p := range pts {
		assert.Nil(t, p.Forecast)
	}

	_, err = c.History(context.Background(), "Non-Farm Payrolls")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "series units are cached")
}

func TestHistoryUnknownIndicator(t *testing.T) {
	c := New("k", WithBaseURL("http://127.0.0.1:1"))
	pts, err := c.History(context.Background(), "Nonexistent Indicator")
	require.NoError(t, err)
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

func TestHistoryNeedsKey(t *testing.T) {
	_, err := New("").History(context.Background(), "Non-Farm Payrolls")
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestHistoryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New("k", WithBaseURL(srv.URL)).History(context.Background(), "Non-Farm Payrolls")
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		num   float64
		units string
		want  string
	}{
		{4.33, "Percent", "4.3%"},
		{3.0, "Percent Change from Preceding Period", "3.0%"},
		{227000, "Thousands of Persons", "227K"},
		{1420, "Thousands of Units", "1K"},
		{6794.3, "Millions of U.S. Dollars", "6794.3M"},
		{315.605, "Index 1982-1984=100", "315.6"},
		{7015123.46, "Millions", "7015123.5M"},
		{1234567, "Number", "1,234,567"},
		{-12.25, "Index", "-12.3"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatValue(c.num, c.units).String(), "%v %s", c.num, c.units)
	}
}
