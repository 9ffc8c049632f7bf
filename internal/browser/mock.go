package browser

import (
	"strconv"
	"sync"
	"time"

	"CookiePilot/internal/model"
)

// MockSession returns controllable fixed data for development (-dry-run)
// and testing. Every field may be set before use; errors assigned to the
// *Err fields are returned by the matching method.
type MockSession struct {
	mu sync.Mutex

	// Bank grows by CookiesPerClick on every primary click.
	Bank            int64
	CookiesPerClick int64

	// CurrencyText, when set, is returned verbatim instead of the bank.
	CurrencyText string

	// Options is the current set of enabled upgrades. When Prices has an
	// entry for an option id, Buy deducts the price and removes the option.
	Options []model.PurchaseOption
	Prices  map[string]int64

	Bought []string
	Clicks int64

	ReadyErr error
	ClickErr error
	ReadErr  error
	ListErr  error
	BuyErr   error
}

func NewMockSession() *MockSession {
	return &MockSession{CookiesPerClick: 1, Prices: map[string]int64{}}
}

func (m *MockSession) OpenGame() error       { return nil }
func (m *MockSession) DismissConsent() error { return nil }
func (m *MockSession) SelectLanguage() error { return nil }
func (m *MockSession) Close() error          { return nil }

func (m *MockSession) WaitReady(_ time.Duration) error {
	return m.ReadyErr
}

func (m *MockSession) ClickPrimary() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClickErr != nil {
		return m.ClickErr
	}
	m.Clicks++
	m.Bank += m.CookiesPerClick
	return nil
}

func (m *MockSession) ReadCurrencyText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	if m.CurrencyText != "" {
		return m.CurrencyText, nil
	}
	return strconv.FormatInt(m.Bank, 10) + " cookies", nil
}

func (m *MockSession) ListEnabledOptions() ([]model.PurchaseOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.PurchaseOption, len(m.Options))
	copy(out, m.Options)
	return out, nil
}

func (m *MockSession) Buy(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BuyErr != nil {
		return m.BuyErr
	}
	idx := -1
	for i, opt := range m.Options {
		if opt.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrStale
	}
	if price, ok := m.Prices[id]; ok {
		m.Bank -= price
		m.Options = append(m.Options[:idx], m.Options[idx+1:]...)
	}
	m.Bought = append(m.Bought, id)
	return nil
}
