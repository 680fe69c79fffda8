package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

type fakeCurrencyStore struct {
	cached map[string]*models.Currency

	upsertCalled int
	lastCoin     string
	lastPrice    float64
}

func (f *fakeCurrencyStore) UpsertCurrency(coin string, price float64) error {
	f.upsertCalled++
	f.lastCoin = coin
	f.lastPrice = price
	return nil
}

func (f *fakeCurrencyStore) GetCurrency(coin string) (*models.Currency, error) {
	return f.cached[coin], nil
}

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) Alert(ctx context.Context, text string) {
	f.alerts = append(f.alerts, text)
}

func TestUnitPriceWritesThroughOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/simple/price", r.URL.Path)
		require.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer server.Close()

	store := &fakeCurrencyStore{}
	alerter := &fakeAlerter{}
	service := NewService(server.URL, store, alerter, logger.NewNop())

	price := service.UnitPrice(context.Background(), "btc", "bitcoin")
	require.Equal(t, 60000.0, price)
	require.Equal(t, 1, store.upsertCalled)
	require.Equal(t, "btc", store.lastCoin)
	require.Equal(t, 60000.0, store.lastPrice)
	require.Empty(t, alerter.alerts)
}

func TestUnitPriceFallsBackToCachedOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	store := &fakeCurrencyStore{cached: map[string]*models.Currency{
		"eth": {Coin: "eth", Price: 3000},
	}}
	alerter := &fakeAlerter{}
	service := NewService(server.URL, store, alerter, logger.NewNop())

	price := service.UnitPrice(context.Background(), "eth", "ethereum")
	require.Equal(t, 3000.0, price)
	require.Zero(t, store.upsertCalled, "a fallback must not overwrite the cache")
	require.Len(t, alerter.alerts, 1)
	require.Contains(t, alerter.alerts[0], "eth")
}

func TestUnitPriceMissingQuoteIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := &fakeCurrencyStore{cached: map[string]*models.Currency{
		"ton": {Coin: "ton", Price: 5.5},
	}}
	alerter := &fakeAlerter{}
	service := NewService(server.URL, store, alerter, logger.NewNop())

	price := service.UnitPrice(context.Background(), "ton", "the-open-network")
	require.Equal(t, 5.5, price)
	require.Len(t, alerter.alerts, 1)
}

func TestUnitPriceNoCacheYieldsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := &fakeCurrencyStore{}
	alerter := &fakeAlerter{}
	service := NewService(server.URL, store, alerter, logger.NewNop())

	price := service.UnitPrice(context.Background(), "usdt", "tether")
	require.Equal(t, 0.0, price)
	require.Len(t, alerter.alerts, 1)
}
