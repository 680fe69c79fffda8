package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/pkg/logger"
)

const ethAddr = "0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"

func TestETHFetchConvertsWei(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api", r.URL.Path)
		require.Equal(t, "account", r.URL.Query().Get("module"))
		require.Equal(t, "balance", r.URL.Query().Get("action"))
		require.Equal(t, ethAddr, r.URL.Query().Get("address"))
		require.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"1","message":"OK","result":"600000000000000000"}`))
	}))
	defer server.Close()

	fetcher := NewETHFetcher(server.URL, "test-key", logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), ethAddr)
	require.NoError(t, err)
	require.InDelta(t, 0.6, amount, 1e-12)
}

func TestETHFetchLargeBalanceExceedsInt64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// ~123456.79 ETH in wei, larger than max int64.
		w.Write([]byte(`{"status":"1","message":"OK","result":"123456789012345678901234"}`))
	}))
	defer server.Close()

	fetcher := NewETHFetcher(server.URL, "", logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), ethAddr)
	require.NoError(t, err)
	require.InDelta(t, 123456.789012345678901234, amount, 1e-6)
}

func TestETHFetchNonOKEnvelopeIsFailureNotZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Max rate limit reached"}`))
	}))
	defer server.Close()

	fetcher := NewETHFetcher(server.URL, "", logger.NewNop())
	_, err := fetcher.Fetch(context.Background(), ethAddr)
	require.Error(t, err)
	require.Contains(t, err.Error(), "NOTOK")
}

func TestETHFetchNonNumericResultIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"1","message":"OK","result":"not-a-number"}`))
	}))
	defer server.Close()

	fetcher := NewETHFetcher(server.URL, "", logger.NewNop())
	_, err := fetcher.Fetch(context.Background(), ethAddr)
	require.Error(t, err)
}
