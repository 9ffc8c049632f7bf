package recorder

import "time"

// RunRecord holds the final statistics of one bot run.
type RunRecord struct {
	StartedAt    time.Time
	Elapsed      time.Duration
	Clicks       int64
	Purchases    int64
	CookiesSpent int64
	FinalCookies int64
	EndThreshold float64
}

// PurchaseRecord holds one upgrade purchase. RunStartedAt ties the
// purchase back to its run.
type PurchaseRecord struct {
	RunStartedAt   time.Time
	OptionID       string
	OptionName     string
	Price          int64
	CookiesBefore  int64
	ThresholdAfter float64
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordPurchase(rec *PurchaseRecord) error
	Close() error
}
