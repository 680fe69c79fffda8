package chain

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/pkg/logger"
)

// USDTContractAddress is the TRC20 contract of Tether on TRON.
const USDTContractAddress = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

// TronFetcher reads the USDT TRC20 balance from the tronscan account API.
type TronFetcher struct {
	logger *logger.Logger
	client *resty.Client
}

type tronscanReply struct {
	TRC20Balances []trc20Balance `json:"trc20token_balances"`
}

type trc20Balance struct {
	TokenID      string `json:"tokenId"`
	Balance      string `json:"balance"`
	TokenDecimal int    `json:"tokenDecimal"`
}

func NewTronFetcher(baseURL string, logger *logger.Logger) *TronFetcher {
	return &TronFetcher{logger: logger, client: newClient(baseURL)}
}

func (f *TronFetcher) Coin() string { return "usdt" }

func (f *TronFetcher) PriceID() string { return "tether" }

// Fetch returns the address USDT balance. Unlike the other chains, an
// account reply that simply does not list the USDT token is a confirmed zero
// balance; only transport and decode errors count as fetch failures.
func (f *TronFetcher) Fetch(ctx context.Context, address string) (float64, error) {
	var reply tronscanReply
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetResult(&reply).
		Get("/api/account")
	if err != nil {
		return 0, fmt.Errorf("tronscan request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("tronscan returned %s", resp.Status())
	}

	for _, token := range reply.TRC20Balances {
		if token.TokenID != USDTContractAddress {
			continue
		}
		raw, err := strconv.ParseFloat(token.Balance, 64)
		if err != nil {
			return 0, fmt.Errorf("tronscan returned non-numeric USDT balance %q: %w", token.Balance, err)
		}
		return raw / math.Pow10(token.TokenDecimal), nil
	}

	// Account holds no USDT.
	return 0, nil
}
