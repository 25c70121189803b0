package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/collector"
	"TickerLens/internal/model"
	"TickerLens/internal/pipeline"
)

func newTestServer(p collector.Provider) *Server {
	log := zerolog.Nop()
	orch := pipeline.NewOrchestrator(
		collector.NewHistoryFetcher(p, time.Second, log),
		collector.NewFundamentalsExtractor(p, time.Second, log),
		nil, pipeline.DefaultOptions(), log,
	)
	s := New(Config{Addr: ":0", Log: log, Runner: orch})
	s.now = func() time.Time { return time.Date(2024, 3, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBundle(t *testing.T, rec *httptest.ResponseRecorder) model.ResponseBundle {
	t.Helper()
	var b model.ResponseBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&collector.MockProvider{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestStock_Ready(t *testing.T) {
	rec := get(t, newTestServer(&collector.MockProvider{Price: 250}), "/api/v1/stocks/TCS.NS?start=2024-03-01&end=2024-03-28")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	b := decodeBundle(t, rec)
	assert.Equal(t, model.OutcomeReady, b.Outcome)
	assert.Equal(t, "TCS.NS", b.Ticker)
	assert.Len(t, b.Prices, 20)
	assert.Len(t, b.Forecast, 11)
	assert.True(t, b.Visibility.ForecastChart)
	assert.Equal(t, "TCS.NS Stock Price", b.PriceChart.Title)
}

func TestStock_DefaultRange(t *testing.T) {
	rec := get(t, newTestServer(&collector.MockProvider{Price: 100}), "/api/v1/stocks/INFY.NS")
	require.Equal(t, http.StatusOK, rec.Code)

	b := decodeBundle(t, rec)
	assert.Equal(t, "2023-03-30..2024-03-29", b.Range.String())
}

func TestStock_NotFoundIsStill200(t *testing.T) {
	rec := get(t, newTestServer(&collector.MockProvider{BarsErr: collector.ErrSymbolNotFound}), "/api/v1/stocks/BADSYM")
	require.Equal(t, http.StatusOK, rec.Code)

	b := decodeBundle(t, rec)
	assert.Equal(t, model.OutcomeNotFoundOrError, b.Outcome)
	assert.True(t, b.NotFound)
	assert.Equal(t, model.NotFoundMessage, b.Notice)
	assert.Equal(t, model.Visibility{}, b.Visibility)
	assert.NotNil(t, b.Prices)
}

func TestStock_BadDate(t *testing.T) {
	mock := &collector.MockProvider{Price: 100}
	rec := get(t, newTestServer(mock), "/api/v1/stocks/TCS.NS?start=March")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid start date")

	barCalls, _ := mock.Calls()
	assert.Zero(t, barCalls)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestServer(&collector.MockProvider{}), "/api/v1/stocks/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStock_EscapedTicker(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/api/v1/stocks/M%26M.NS", "M&M.NS"},
		{"/api/v1/stocks/BRK%2FB", "BRK/B"},
		{"/api/v1/stocks/%5EGSPC", "^GSPC"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := get(t, newTestServer(&collector.MockProvider{Price: 100}), tt.target)
			require.Equal(t, http.StatusOK, rec.Code)

			b := decodeBundle(t, rec)
			assert.Equal(t, tt.want, b.Ticker)
			assert.Equal(t, model.OutcomeReady, b.Outcome)
		})
	}
}

func TestStock_BadTickerEscape(t *testing.T) {
	mock := &collector.MockProvider{Price: 100}
	s := newTestServer(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks/BAD", nil)
	req.URL.RawPath = "/api/v1/stocks/BAD%ZZ"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid ticker")
	barCalls, _ := mock.Calls()
	assert.Zero(t, barCalls)
}
