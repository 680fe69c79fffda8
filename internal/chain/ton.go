package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/pkg/logger"
)

// TONFetcher reads balances from the toncenter address info API.
type TONFetcher struct {
	logger *logger.Logger
	client *resty.Client
}

type toncenterReply struct {
	OK     bool `json:"ok"`
	Result struct {
		// Balance arrives as a decimal string of nanotons.
		Balance string `json:"balance"`
		State   string `json:"state"`
	} `json:"result"`
}

func NewTONFetcher(baseURL string, logger *logger.Logger) *TONFetcher {
	return &TONFetcher{logger: logger, client: newClient(baseURL)}
}

func (f *TONFetcher) Coin() string { return "ton" }

func (f *TONFetcher) PriceID() string { return "the-open-network" }

// Fetch returns the address balance in TON. A reply without ok=true or
// without a balance field is a fetch failure.
func (f *TONFetcher) Fetch(ctx context.Context, address string) (float64, error) {
	var reply toncenterReply
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetResult(&reply).
		Get("/api/v2/getAddressInformation")
	if err != nil {
		return 0, fmt.Errorf("toncenter request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("toncenter returned %s", resp.Status())
	}

	if !reply.OK {
		return 0, fmt.Errorf("toncenter reported failure for %s", address)
	}
	if reply.Result.Balance == "" {
		return 0, fmt.Errorf("toncenter reply for %s has no balance field", address)
	}

	nano, ok := new(big.Int).SetString(reply.Result.Balance, 10)
	if !ok {
		return 0, fmt.Errorf("toncenter returned non-numeric balance %q", reply.Result.Balance)
	}

	// 1 TON = 10^9 nanotons
	amount, _ := new(big.Float).Quo(new(big.Float).SetInt(nano), big.NewFloat(1e9)).Float64()
	return amount, nil
}
