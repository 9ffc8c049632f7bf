package model

import "time"

// PurchaseOption is one buyable upgrade currently enabled on screen.
// ID is the DOM element id used to issue the buy click; Text is the
// element's visible text with the price on its last line.
type PurchaseOption struct {
	ID   string
	Text string
}

// RunStats summarizes a single bot run.
type RunStats struct {
	StartedAt    time.Time
	Elapsed      time.Duration
	Clicks       int64
	Purchases    int64
	CookiesSpent int64
	FinalCookies int64
	EndThreshold float64
}
