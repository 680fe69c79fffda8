package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/pkg/logger"
)

// ETHFetcher reads balances from the Etherscan account API.
type ETHFetcher struct {
	logger *logger.Logger
	client *resty.Client
	apiKey string
}

type etherscanReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func NewETHFetcher(baseURL, apiKey string, logger *logger.Logger) *ETHFetcher {
	return &ETHFetcher{logger: logger, client: newClient(baseURL), apiKey: apiKey}
}

func (f *ETHFetcher) Coin() string { return "eth" }

func (f *ETHFetcher) PriceID() string { return "ethereum" }

// Fetch returns the address balance in ETH. Etherscan wraps results in a
// status/message envelope; anything but status "1" / message "OK" is a fetch
// failure, never a zero balance.
func (f *ETHFetcher) Fetch(ctx context.Context, address string) (float64, error) {
	var reply etherscanReply
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":  "account",
			"action":  "balance",
			"address": address,
			"tag":     "latest",
			"apikey":  f.apiKey,
		}).
		SetResult(&reply).
		Get("/api")
	if err != nil {
		return 0, fmt.Errorf("etherscan request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("etherscan returned %s", resp.Status())
	}

	if reply.Status != "1" || reply.Message != "OK" {
		return 0, fmt.Errorf("etherscan error envelope: status=%s message=%s", reply.Status, reply.Message)
	}

	// Balances are reported in wei and can exceed int64.
	wei, ok := new(big.Int).SetString(reply.Result, 10)
	if !ok {
		return 0, fmt.Errorf("etherscan returned non-numeric balance %q", reply.Result)
	}

	// 1 ETH = 10^18 wei
	amount, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return amount, nil
}
