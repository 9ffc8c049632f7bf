package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CookiePilot/internal/model"
)

const rule = "=================================================="

// Progress formats the periodic progress line emitted during a run.
func Progress(clicks, cookies, purchases int64) string {
	return fmt.Sprintf("clicks: %s | cookies: %s | purchases: %d",
		humanize.Comma(clicks), humanize.Comma(cookies), purchases)
}

// Summary formats the final statistics block for a run.
func Summary(rs *model.RunStats) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("CookiePilot - Final Statistics\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total Clicks: %s\n", humanize.Comma(rs.Clicks))
	fmt.Fprintf(&b, "Total Purchases: %d\n", rs.Purchases)
	fmt.Fprintf(&b, "Cookies Spent: %s\n", humanize.Comma(rs.CookiesSpent))
	fmt.Fprintf(&b, "Final Cookie Count: %s\n", humanize.Comma(rs.FinalCookies))
	fmt.Fprintf(&b, "Elapsed: %s\n", rs.Elapsed.Round(time.Millisecond))
	b.WriteString(rule)
	return b.String()
}

// Lifetime formats the accumulated cross-run totals.
func Lifetime(st *model.LifetimeStats) string {
	var b strings.Builder
	b.WriteString("CookiePilot - Lifetime Statistics\n\n")
	fmt.Fprintf(&b, "Runs: %d\n", st.TotalRuns)
	fmt.Fprintf(&b, "Clicks: %s\n", humanize.Comma(st.TotalClicks))
	fmt.Fprintf(&b, "Purchases: %s\n", humanize.Comma(st.TotalPurchases))
	fmt.Fprintf(&b, "Cookies Spent: %s\n", humanize.Comma(st.TotalCookiesSpent))
	fmt.Fprintf(&b, "Best Run: %s clicks\n", humanize.Comma(st.BestRunClicks))
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "Updated: %s\n", st.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}
