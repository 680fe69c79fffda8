package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/pkg/logger"
)

const tronAddr = "TQn9Y2khEsLJW1ChVWFMSMeRDow5KcbLSE"

func TestTronFetchFindsUSDTByContract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/account", r.URL.Path)
		require.Equal(t, tronAddr, r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"trc20token_balances":[
			{"tokenId":"TLa2f6VPqDgRE67v1736s7bJ8Ray5wYjU7","balance":"99","tokenDecimal":0},
			{"tokenId":"` + USDTContractAddress + `","balance":"12345678","tokenDecimal":6}
		]}`))
	}))
	defer server.Close()

	fetcher := NewTronFetcher(server.URL, logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), tronAddr)
	require.NoError(t, err)
	require.InDelta(t, 12.345678, amount, 1e-9)
}

func TestTronFetchMissingTokenIsZeroNotFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"trc20token_balances":[{"tokenId":"TLa2f6VPqDgRE67v1736s7bJ8Ray5wYjU7","balance":"99","tokenDecimal":0}]}`))
	}))
	defer server.Close()

	fetcher := NewTronFetcher(server.URL, logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), tronAddr)
	require.NoError(t, err)
	require.Equal(t, 0.0, amount)
}

func TestTronFetchMissingBalanceListIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fetcher := NewTronFetcher(server.URL, logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), tronAddr)
	require.NoError(t, err)
	require.Equal(t, 0.0, amount)
}

func TestTronFetchServerErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewTronFetcher(server.URL, logger.NewNop())
	_, err := fetcher.Fetch(context.Background(), tronAddr)
	require.Error(t, err)
}
