package custos

import (
	"context"
	"fmt"
	"time"

	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

// Store is the persistence surface the poll cycle needs.
type Store interface {
	ListWallets() ([]*models.Wallet, error)
	AddBalance(balance *models.Balance) error
	LastTwoBalances(walletID int64) ([]*models.Balance, error)
	AddFlow(flow *models.CryptoFlow) error
}

// Custos runs the balance poll cycle: fetch, value, record, diff, report.
type Custos struct {
	logger *logger.Logger

	store    Store
	fetchers map[models.Token]models.BalanceFetcher
	prices   models.PriceSource
	notifier models.NotificationService
	alerter  models.AlertService

	interval time.Duration
	// pacing is the mandatory pause before each external call, a deliberate
	// self-throttle against explorer rate limits.
	pacing time.Duration

	now func() time.Time
}

// NewCustos creates a new Custos instance.
func NewCustos(
	store Store,
	fetchers map[models.Token]models.BalanceFetcher,
	prices models.PriceSource,
	notifier models.NotificationService,
	alerter models.AlertService,
	interval, pacing time.Duration,
	logger *logger.Logger,
) *Custos {
	return &Custos{
		logger:   logger,
		store:    store,
		fetchers: fetchers,
		prices:   prices,
		notifier: notifier,
		alerter:  alerter,
		interval: interval,
		pacing:   pacing,
		now:      time.Now,
	}
}

// Start runs poll cycles until the context is cancelled. Cycles never
// overlap; when a cycle overruns the interval the next one starts
// immediately. A failed cycle never stops the loop.
func (c *Custos) Start(ctx context.Context) {
	c.logger.Info("Starting balance watcher ", "interval ", c.interval)
	for {
		start := c.now()
		c.RunCycle(ctx)
		if ctx.Err() != nil {
			c.logger.Info("Balance watcher stopped")
			return
		}

		wait := nextWait(c.interval, c.now().Sub(start))
		select {
		case <-ctx.Done():
			c.logger.Info("Balance watcher stopped")
			return
		case <-time.After(wait):
		}
	}
}

// nextWait floors the remaining sleep at zero so an overrunning cycle never
// produces a negative sleep.
func nextWait(interval, elapsed time.Duration) time.Duration {
	if wait := interval - elapsed; wait > 0 {
		return wait
	}
	return 0
}

// RunCycle performs one full pass over the wallet registry. Wallets whose
// fetch fails are skipped for the cycle: no observation, no flow, no
// contribution to the totals.
func (c *Custos) RunCycle(ctx context.Context) {
	observedAt := c.now().UTC()

	wallets, err := c.store.ListWallets()
	if err != nil {
		c.logger.Error("Failed to list wallets ", "error ", err)
		c.alerter.Alert(ctx, fmt.Sprintf("cycle aborted, wallet registry unavailable: %v", err))
		return
	}
	if len(wallets) == 0 {
		c.logger.Debug("No wallets tracked, skipping cycle")
		return
	}

	prices := c.refreshPrices(ctx, wallets)
	report := newCycleReport()

	for _, wallet := range wallets {
		if ctx.Err() != nil {
			return
		}
		fetcher, ok := c.fetchers[wallet.Token]
		if !ok {
			c.logger.Warn("No fetcher for token ", "token ", wallet.Token)
			continue
		}

		c.pause(ctx)
		amount, err := fetcher.Fetch(ctx, wallet.Address)
		if err != nil {
			c.logger.Error("Failed to fetch balance ", "address ", wallet.Address, " token ", wallet.Token, " error ", err)
			c.alerter.Alert(ctx, fmt.Sprintf("balance fetch failed for %s (%s): %v", wallet.Address, wallet.Token, err))
			continue
		}

		usdValue := amount * prices[wallet.Token]
		balance := &models.Balance{
			WalletID:   wallet.ID,
			Coin:       wallet.Token,
			Amount:     amount,
			USDValue:   usdValue,
			ObservedAt: observedAt,
		}
		if err := c.store.AddBalance(balance); err != nil {
			c.logger.Error("Failed to record observation ", "address ", wallet.Address, " error ", err)
			c.alerter.Alert(ctx, fmt.Sprintf("observation not recorded for %s: %v", wallet.Address, err))
			continue
		}

		report.addEntry(wallet, fetcher.Coin(), amount, usdValue)

		last, err := c.store.LastTwoBalances(wallet.ID)
		if err != nil {
			c.logger.Error("Failed to load last observations ", "address ", wallet.Address, " error ", err)
			continue
		}

		changed, flow := classifyChange(wallet, last)
		if !changed {
			continue
		}
		report.markChanged()
		if flow == nil {
			// First-ever observation: reported, but no baseline to diff.
			continue
		}
		flow.CreatedAt = observedAt
		if err := c.store.AddFlow(flow); err != nil {
			c.logger.Error("Failed to record flow ", "address ", wallet.Address, " error ", err)
			continue
		}
		report.addFlow(flow.USDValue)
	}

	if ctx.Err() != nil {
		return
	}
	if !report.changed {
		c.logger.Debug("No balance changes this cycle")
		return
	}

	text := report.String()
	c.logger.Info("Balance changes detected, broadcasting report")
	c.notifier.Broadcast(ctx, text)
}

// refreshPrices resolves one USD unit price per coin family present in the
// registry. The price source handles its own fallback, so a missing quote
// degrades to the cached or zero price instead of failing the cycle.
func (c *Custos) refreshPrices(ctx context.Context, wallets []*models.Wallet) map[models.Token]float64 {
	tracked := map[models.Token]bool{}
	for _, wallet := range wallets {
		tracked[wallet.Token] = true
	}

	prices := map[models.Token]float64{}
	for _, token := range models.AllTokens {
		if !tracked[token] {
			continue
		}
		fetcher, ok := c.fetchers[token]
		if !ok {
			continue
		}
		c.pause(ctx)
		prices[token] = c.prices.UnitPrice(ctx, fetcher.Coin(), fetcher.PriceID())
	}
	return prices
}

// classifyChange compares the two most recent observations of a wallet. It
// is a pure function of its inputs: re-running it against the same pair
// yields the same classification. A single observation means the wallet was
// just added; it is reported as changed but produces no flow.
func classifyChange(wallet *models.Wallet, last []*models.Balance) (bool, *models.CryptoFlow) {
	switch {
	case len(last) == 1:
		return true, nil
	case len(last) >= 2 && last[0].Amount != last[1].Amount:
		return true, &models.CryptoFlow{
			WalletID: wallet.ID,
			Coin:     wallet.Token,
			Amount:   last[0].Amount - last[1].Amount,
			USDValue: last[0].USDValue - last[1].USDValue,
		}
	}
	return false, nil
}

func (c *Custos) pause(ctx context.Context) {
	if c.pacing <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.pacing):
	}
}
