package custos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custos-watch/custos/internal/models"
)

type reportEntry struct {
	address string
	coin    string
	amount  float64
}

// cycleReport accumulates the per-family wallet listing and the running
// totals for one poll cycle.
type cycleReport struct {
	changed  bool
	sections map[models.Token][]reportEntry

	totalBalance float64
	totalInflow  float64
	totalOutflow float64
}

func newCycleReport() *cycleReport {
	return &cycleReport{sections: make(map[models.Token][]reportEntry)}
}

func (r *cycleReport) addEntry(wallet *models.Wallet, coin string, amount, usdValue float64) {
	r.sections[wallet.Token] = append(r.sections[wallet.Token], reportEntry{
		address: wallet.Address,
		coin:    coin,
		amount:  amount,
	})
	r.totalBalance += usdValue
}

func (r *cycleReport) markChanged() {
	r.changed = true
}

func (r *cycleReport) addFlow(usdDelta float64) {
	if usdDelta > 0 {
		r.totalInflow += usdDelta
	} else {
		r.totalOutflow += -usdDelta
	}
}

// String renders the report: family sections in fixed order, then the USD
// totals. Inflow and outflow lines appear only when non-zero.
func (r *cycleReport) String() string {
	var b strings.Builder
	for _, token := range models.AllTokens {
		entries := r.sections[token]
		if len(entries) == 0 {
			continue
		}
		b.WriteString(string(token))
		b.WriteString("\n")
		for _, entry := range entries {
			fmt.Fprintf(&b, "%s - %s %s\n", entry.address, formatAmount(entry.amount), entry.coin)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total balance in USD - %.2f", r.totalBalance)
	if r.totalInflow > 0 {
		fmt.Fprintf(&b, "\nInflow in USD - %.2f", r.totalInflow)
	}
	if r.totalOutflow > 0 {
		fmt.Fprintf(&b, "\nOutflow in USD - %.2f", r.totalOutflow)
	}
	return b.String()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
