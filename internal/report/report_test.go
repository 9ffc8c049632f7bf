package report

import (
	"strings"
	"testing"
	"time"

	"CookiePilot/internal/model"
)

func TestProgress(t *testing.T) {
	got := Progress(1234, 56789, 3)
	if !strings.Contains(got, "1,234") || !strings.Contains(got, "56,789") {
		t.Errorf("expected comma-grouped counts, got %q", got)
	}
	if !strings.Contains(got, "purchases: 3") {
		t.Errorf("missing purchase count in %q", got)
	}
}

func TestSummary(t *testing.T) {
	rs := &model.RunStats{
		Clicks:       4200,
		Purchases:    7,
		CookiesSpent: 12500,
		FinalCookies: 1234567,
		Elapsed:      61 * time.Second,
	}
	got := Summary(rs)
	for _, want := range []string{
		"Final Statistics",
		"Total Clicks: 4,200",
		"Total Purchases: 7",
		"Cookies Spent: 12,500",
		"Final Cookie Count: 1,234,567",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestLifetime(t *testing.T) {
	st := &model.LifetimeStats{
		TotalRuns:     4,
		TotalClicks:   10000,
		BestRunClicks: 4200,
	}
	got := Lifetime(st)
	if !strings.Contains(got, "Runs: 4") || !strings.Contains(got, "10,000") {
		t.Errorf("unexpected lifetime block:\n%s", got)
	}
}
