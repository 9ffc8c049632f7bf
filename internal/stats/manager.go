package stats

import (
	"log"
	"sync"

	"CookiePilot/internal/model"
)

// Manager folds completed runs into lifetime totals with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.LifetimeStats
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// Snapshot returns a copy of the current lifetime stats.
func (m *Manager) Snapshot() model.LifetimeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// RecordRun folds one run into the totals and saves to disk.
func (m *Manager) RecordRun(rs *model.RunStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.TotalRuns++
	m.state.TotalClicks += rs.Clicks
	m.state.TotalPurchases += rs.Purchases
	m.state.TotalCookiesSpent += rs.CookiesSpent
	if rs.Clicks > m.state.BestRunClicks {
		m.state.BestRunClicks = rs.Clicks
	}

	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save lifetime stats: %v", err)
	}
}
