package custos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/internal/models"
)

func TestReportGroupsFamiliesInFixedOrder(t *testing.T) {
	report := newCycleReport()
	report.addEntry(&models.Wallet{Address: "TXYZa", Token: models.TokenTRON}, "usdt", 120, 120)
	report.addEntry(&models.Wallet{Address: "1Abc", Token: models.TokenBTC}, "btc", 0.5, 30000)
	report.addEntry(&models.Wallet{Address: "0xDef", Token: models.TokenETH}, "eth", 2, 6000)
	report.markChanged()

	text := report.String()

	btcAt := strings.Index(text, "btc\n")
	ethAt := strings.Index(text, "eth\n")
	tronAt := strings.Index(text, "tron\n")
	require.True(t, btcAt >= 0 && ethAt >= 0 && tronAt >= 0, text)
	require.Less(t, btcAt, ethAt)
	require.Less(t, ethAt, tronAt)

	// TRON wallets are listed with the usdt symbol.
	require.Contains(t, text, "TXYZa - 120 usdt")
	require.Contains(t, text, "1Abc - 0.5 btc")
	require.Contains(t, text, "Total balance in USD - 36120.00")
}

func TestReportOmitsZeroFlowLines(t *testing.T) {
	report := newCycleReport()
	report.addEntry(&models.Wallet{Address: "1Abc", Token: models.TokenBTC}, "btc", 0.5, 30000)
	report.markChanged()

	text := report.String()
	require.NotContains(t, text, "Inflow")
	require.NotContains(t, text, "Outflow")
}

func TestReportAccumulatesFlowBuckets(t *testing.T) {
	report := newCycleReport()
	report.addFlow(6000)
	report.addFlow(-1500)
	report.addFlow(250)

	require.Equal(t, 6250.0, report.totalInflow)
	require.Equal(t, 1500.0, report.totalOutflow)

	text := report.String()
	require.Contains(t, text, "Inflow in USD - 6250.00")
	require.Contains(t, text, "Outflow in USD - 1500.00")
}
