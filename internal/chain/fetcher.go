package chain

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/custos-watch/custos/internal/config"
	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

const requestTimeout = 20 * time.Second

func newClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")
}

// NewRegistry builds the fetcher for each supported chain family. Dispatch is
// a map lookup on the wallet's token.
func NewRegistry(cfg *config.Config, logger *logger.Logger) map[models.Token]models.BalanceFetcher {
	return map[models.Token]models.BalanceFetcher{
		models.TokenBTC:  NewBTCFetcher(cfg.BlockchainInfoURL, logger),
		models.TokenETH:  NewETHFetcher(cfg.EtherscanURL, cfg.EtherscanAPIKey, logger),
		models.TokenTON:  NewTONFetcher(cfg.ToncenterURL, logger),
		models.TokenTRON: NewTronFetcher(cfg.TronscanURL, logger),
	}
}
