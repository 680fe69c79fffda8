package models

import "context"

// BalanceFetcher queries one chain explorer for a wallet's balance.
type BalanceFetcher interface {
	// Fetch returns the current balance of the address in native units.
	// A non-nil error means the fetch FAILED: the wallet is skipped for the
	// cycle and nothing is recorded. A zero return with a nil error is a
	// confirmed zero balance.
	Fetch(ctx context.Context, address string) (float64, error)
	// Coin is the display symbol of the fetched asset (btc, eth, ton, usdt).
	Coin() string
	// PriceID is the CoinGecko identifier used for USD valuation.
	PriceID() string
}

// PriceSource resolves a USD unit price for a coin. It never fails: on a
// live-quote failure it falls back to the last persisted price, and to 0
// when no price was ever cached.
type PriceSource interface {
	UnitPrice(ctx context.Context, coin, priceID string) float64
}

// NotificationService delivers a report to administrators and active
// subscribers. Per-recipient failures are swallowed.
type NotificationService interface {
	Broadcast(ctx context.Context, text string)
}

// AlertService delivers diagnostics to the maintainer side channel.
type AlertService interface {
	Alert(ctx context.Context, text string)
}

// APIServer serves the read-only HTTP API.
type APIServer interface {
	Start()
	Shutdown() error
}
