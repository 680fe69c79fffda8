package chain

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/pkg/logger"
)

// BTCFetcher reads confirmed balances from the blockchain.info balance API.
type BTCFetcher struct {
	logger *logger.Logger
	client *resty.Client
}

type btcAddressInfo struct {
	FinalBalance  int64 `json:"final_balance"`
	NTx           int64 `json:"n_tx"`
	TotalReceived int64 `json:"total_received"`
}

func NewBTCFetcher(baseURL string, logger *logger.Logger) *BTCFetcher {
	return &BTCFetcher{logger: logger, client: newClient(baseURL)}
}

func (f *BTCFetcher) Coin() string { return "btc" }

func (f *BTCFetcher) PriceID() string { return "bitcoin" }

// Fetch returns the address balance in BTC. A reply that does not mention
// the address is a fetch failure, not a zero balance.
func (f *BTCFetcher) Fetch(ctx context.Context, address string) (float64, error) {
	var reply map[string]btcAddressInfo
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("active", address).
		SetResult(&reply).
		Get("/balance")
	if err != nil {
		return 0, fmt.Errorf("blockchain.info request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("blockchain.info returned %s", resp.Status())
	}

	info, ok := reply[address]
	if !ok {
		return 0, fmt.Errorf("address %s missing from blockchain.info response", address)
	}

	// 1 BTC = 100,000,000 satoshi
	return float64(info.FinalBalance) / 1e8, nil
}
