package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/custos-watch/custos/internal/models"
)

// HistorySource provides the joined balance history for export.
type HistorySource interface {
	BalanceHistory() ([]*models.BalanceExport, error)
}

// BalanceHistoryCSV renders the full balance time series as a CSV document,
// one row per observation, oldest first.
func BalanceHistoryCSV(source HistorySource) ([]byte, error) {
	rows, err := source.BalanceHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to load balance history: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := []string{"address", "token", "amount", "usd_value", "observed_at"}
	if err := w.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record[0] = row.Address
		record[1] = string(row.Token)
		record[2] = strconv.FormatFloat(row.Amount, 'f', -1, 64)
		record[3] = strconv.FormatFloat(row.USDValue, 'f', 2, 64)
		record[4] = row.ObservedAt.UTC().Format(time.RFC3339)
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}
