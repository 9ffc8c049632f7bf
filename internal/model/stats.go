package model

import "time"

// LifetimeStats accumulates totals across all runs on this machine.
type LifetimeStats struct {
	TotalRuns         int64     `json:"total_runs"`
	TotalClicks       int64     `json:"total_clicks"`
	TotalPurchases    int64     `json:"total_purchases"`
	TotalCookiesSpent int64     `json:"total_cookies_spent"`
	BestRunClicks     int64     `json:"best_run_clicks"`
	UpdatedAt         time.Time `json:"updated_at"`
}
