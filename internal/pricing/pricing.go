package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

const requestTimeout = 15 * time.Second

// CurrencyStore persists the last known good price per coin.
type CurrencyStore interface {
	UpsertCurrency(coin string, price float64) error
	GetCurrency(coin string) (*models.Currency, error)
}

// Service resolves USD spot prices from CoinGecko with the Currency table as
// a write-through fallback cache.
type Service struct {
	logger  *logger.Logger
	store   CurrencyStore
	alerter models.AlertService
	client  *resty.Client
}

func NewService(baseURL string, store CurrencyStore, alerter models.AlertService, logger *logger.Logger) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &Service{
		logger:  logger,
		store:   store,
		alerter: alerter,
		client:  client,
	}
}

// UnitPrice returns the USD price for one native unit of the coin. On a live
// quote it writes through to the Currency store so the next failure has a
// fresh fallback. On failure it alerts the maintainer and falls back to the
// cached row, or 0 when no price was ever recorded.
func (s *Service) UnitPrice(ctx context.Context, coin, priceID string) float64 {
	price, err := s.fetchLive(ctx, priceID)
	if err != nil {
		s.logger.Error("Failed to fetch live price ", "coin ", coin, " error ", err)
		s.alerter.Alert(ctx, fmt.Sprintf("price lookup failed for %s: %v", coin, err))
		return s.cached(coin)
	}

	if err := s.store.UpsertCurrency(coin, price); err != nil {
		s.logger.Error("Failed to cache price ", "coin ", coin, " error ", err)
	}

	return price
}

func (s *Service) fetchLive(ctx context.Context, priceID string) (float64, error) {
	var quotes map[string]map[string]float64
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("ids", priceID).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&quotes).
		Get("/api/v3/simple/price")
	if err != nil {
		return 0, fmt.Errorf("coingecko request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("coingecko returned %s", resp.Status())
	}

	price, ok := quotes[priceID]["usd"]
	if !ok {
		return 0, fmt.Errorf("no usd quote for %s in response", priceID)
	}

	return price, nil
}

func (s *Service) cached(coin string) float64 {
	currency, err := s.store.GetCurrency(coin)
	if err != nil {
		s.logger.Error("Failed to read cached price ", "coin ", coin, " error ", err)
		return 0
	}
	if currency == nil {
		s.logger.Warn("No cached price available ", "coin ", coin)
		return 0
	}
	s.logger.Info("Using cached price ", "coin ", coin, " price ", currency.Price)
	return currency.Price
}
