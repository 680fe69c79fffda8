package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/pkg/logger"
)

const tonAddr = "EQDrjaLahLkMB-hMCmkzOyBuHJ139ZUYmPHu6RRBKnbdLIYI"

func TestTONFetchConvertsNanotons(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/getAddressInformation", r.URL.Path)
		require.Equal(t, tonAddr, r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"balance":"2500000000","state":"active"}}`))
	}))
	defer server.Close()

	fetcher := NewTONFetcher(server.URL, logger.NewNop())
	amount, err := fetcher.Fetch(context.Background(), tonAddr)
	require.NoError(t, err)
	require.Equal(t, 2.5, amount)
}

func TestTONFetchNotOKIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"incorrect address"}`))
	}))
	defer server.Close()

	fetcher := NewTONFetcher(server.URL, logger.NewNop())
	_, err := fetcher.Fetch(context.Background(), tonAddr)
	require.Error(t, err)
}

func TestTONFetchMissingBalanceIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"state":"uninitialized"}}`))
	}))
	defer server.Close()

	fetcher := NewTONFetcher(server.URL, logger.NewNop())
	_, err := fetcher.Fetch(context.Background(), tonAddr)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no balance field")
}
