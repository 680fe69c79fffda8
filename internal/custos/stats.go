package custos

import (
	"fmt"
	"time"
)

// FlowStore is the flow aggregation surface used by statistics consumers.
type FlowStore interface {
	InflowSince(since time.Time) (float64, error)
}

// InflowStats holds USD inflow totals per reporting window.
type InflowStats struct {
	Day     float64 `json:"day"`
	Week    float64 `json:"week"`
	Month   float64 `json:"month"`
	AllTime float64 `json:"all_time"`
}

// CollectInflowStats sums positive flow deltas for the day, week (starting
// Monday), month and all-time windows, all in UTC.
func CollectInflowStats(store FlowStore, now time.Time) (*InflowStats, error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := dayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &InflowStats{}
	windows := []struct {
		since time.Time
		dst   *float64
	}{
		{dayStart, &stats.Day},
		{weekStart, &stats.Week},
		{monthStart, &stats.Month},
		{time.Time{}, &stats.AllTime},
	}
	for _, window := range windows {
		total, err := store.InflowSince(window.since)
		if err != nil {
			return nil, fmt.Errorf("failed to collect inflow stats: %w", err)
		}
		*window.dst = total
	}

	return stats, nil
}

// Format renders the stats as the admin console message.
func (s *InflowStats) Format() string {
	return fmt.Sprintf(
		"Inflow statistics:\n\nToday: %.2f $\nThis week: %.2f $\nThis month: %.2f $\nAll time: %.2f $",
		s.Day, s.Week, s.Month, s.AllTime,
	)
}
