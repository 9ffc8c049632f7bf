package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"CookiePilot/internal/browser"
	"CookiePilot/internal/model"
	"CookiePilot/internal/recorder"
)

// captureRecorder records calls for assertions.
type captureRecorder struct {
	runs      []recorder.RunRecord
	purchases []recorder.PurchaseRecord
}

func (c *captureRecorder) RecordRun(rec *recorder.RunRecord) error {
	c.runs = append(c.runs, *rec)
	return nil
}

func (c *captureRecorder) RecordPurchase(rec *recorder.PurchaseRecord) error {
	c.purchases = append(c.purchases, *rec)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

func TestTick_BuysMostExpensiveAffordable(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 300
	sess.Options = []model.PurchaseOption{
		{ID: "a", Text: "Cursor\n100"},
		{ID: "b", Text: "Grandma\n250"},
		{ID: "c", Text: "Farm\n80"},
	}

	b := New(sess, nil, Options{InitialThreshold: 50})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}

	if len(sess.Bought) != 1 || sess.Bought[0] != "b" {
		t.Fatalf("expected single buy of b, got %v", sess.Bought)
	}
	if b.purchases != 1 {
		t.Errorf("expected purchase count 1, got %d", b.purchases)
	}
	// max(250*2, 50*1.5) = 500
	if b.threshold != 500 {
		t.Errorf("expected threshold 500, got %.1f", b.threshold)
	}
}

func TestTick_BelowThresholdIsNoop(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 5
	sess.Options = []model.PurchaseOption{{ID: "a", Text: "Cursor\n1"}}

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 0 {
		t.Errorf("expected no buys, got %v", sess.Bought)
	}
	if b.threshold != 10 {
		t.Errorf("threshold changed without a buy: %.1f", b.threshold)
	}
}

func TestTick_NoAffordableOption(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 50
	sess.Options = []model.PurchaseOption{{ID: "a", Text: "Cursor\n100"}}

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 0 {
		t.Errorf("expected no buys, got %v", sess.Bought)
	}
	if b.threshold != 10 {
		t.Errorf("threshold changed without a buy: %.1f", b.threshold)
	}
}

func TestTick_EmptyOptionList(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 1000

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 0 {
		t.Errorf("expected no buys, got %v", sess.Bought)
	}
}

func TestTick_TieBreakFirstSeen(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 300
	sess.Options = []model.PurchaseOption{
		{ID: "a", Text: "Cursor\n200"},
		{ID: "b", Text: "Grandma\n200"},
	}

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 1 || sess.Bought[0] != "a" {
		t.Errorf("expected first-seen option a, got %v", sess.Bought)
	}
}

func TestTick_SkipsUnparseablePrices(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 500
	sess.Options = []model.PurchaseOption{
		{ID: "a", Text: "Bank\n12.5 billion"},
		{ID: "b", Text: "Grandma\n100"},
	}

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 1 || sess.Bought[0] != "b" {
		t.Errorf("expected buy of b, got %v", sess.Bought)
	}
}

func TestTick_MalformedCurrencyFallsBackToZero(t *testing.T) {
	sess := browser.NewMockSession()
	sess.CurrencyText = "cookies galore"
	sess.Options = []model.PurchaseOption{{ID: "a", Text: "Cursor\n1"}}

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("unexpected tick error: %v", err)
	}
	if len(sess.Bought) != 0 {
		t.Errorf("expected no buys with unparseable bank, got %v", sess.Bought)
	}
}

func TestTick_StaleOptionIsSkipped(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 300
	sess.Options = []model.PurchaseOption{{ID: "a", Text: "Cursor\n100"}}
	sess.BuyErr = browser.ErrStale

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); err != nil {
		t.Fatalf("stale element should not fail the tick: %v", err)
	}
	if b.purchases != 0 {
		t.Errorf("expected no recorded purchase, got %d", b.purchases)
	}
	if b.threshold != 10 {
		t.Errorf("threshold changed without a buy: %.1f", b.threshold)
	}
}

func TestTick_SessionLostPropagates(t *testing.T) {
	sess := browser.NewMockSession()
	sess.ReadErr = browser.ErrSessionLost

	b := New(sess, nil, Options{InitialThreshold: 10})
	if err := b.Tick(); !errors.Is(err, browser.ErrSessionLost) {
		t.Fatalf("expected ErrSessionLost, got %v", err)
	}
}

func TestTick_ThresholdNonDecreasing(t *testing.T) {
	sess := browser.NewMockSession()
	sess.Bank = 100
	sess.CookiesPerClick = 0
	sess.Options = []model.PurchaseOption{
		{ID: "p0", Text: "Cursor\n15"},
		{ID: "p1", Text: "Grandma\n100"},
		{ID: "p2", Text: "Farm\n1,100"},
	}
	sess.Prices = map[string]int64{"p0": 15, "p1": 100, "p2": 1100}

	b := New(sess, nil, Options{InitialThreshold: 10})
	prev := b.threshold
	for i := 0; i < 20; i++ {
		sess.Bank += 500
		if err := b.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if b.threshold < prev {
			t.Fatalf("threshold decreased from %.1f to %.1f on tick %d", prev, b.threshold, i)
		}
		prev = b.threshold
	}
}

func TestRun_ZeroDurationTerminatesWithSummary(t *testing.T) {
	sess := browser.NewMockSession()
	rec := &captureRecorder{}

	b := New(sess, rec, Options{})
	rs, err := b.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if rs.Clicks != 0 {
		t.Errorf("expected 0 clicks, got %d", rs.Clicks)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected one run record, got %d", len(rec.runs))
	}
}

func TestRun_ClicksUntilDurationElapses(t *testing.T) {
	sess := browser.NewMockSession()
	rec := &captureRecorder{}

	b := New(sess, rec, Options{})
	rs, err := b.Run(context.Background(), 30*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if rs.Clicks == 0 {
		t.Fatal("expected clicks to be performed")
	}
	if rs.Clicks != sess.Clicks {
		t.Errorf("stats report %d clicks, session saw %d", rs.Clicks, sess.Clicks)
	}
	if rs.Elapsed < 30*time.Millisecond {
		t.Errorf("run returned before duration elapsed: %s", rs.Elapsed)
	}
}

func TestRun_PurchasesOnCadence(t *testing.T) {
	sess := browser.NewMockSession()
	sess.CookiesPerClick = 100
	sess.Options = []model.PurchaseOption{{ID: "a", Text: "Cursor\n150"}}
	sess.Prices = map[string]int64{"a": 150}
	rec := &captureRecorder{}

	b := New(sess, rec, Options{InitialThreshold: 10, PurchaseEvery: 10})
	rs, err := b.Run(context.Background(), 30*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if rs.Purchases != 1 {
		t.Fatalf("expected exactly one purchase (option consumed), got %d", rs.Purchases)
	}
	if len(rec.purchases) != 1 {
		t.Fatalf("expected one purchase record, got %d", len(rec.purchases))
	}
	if rec.purchases[0].Price != 150 {
		t.Errorf("recorded price %d, want 150", rec.purchases[0].Price)
	}
	if rs.CookiesSpent != 150 {
		t.Errorf("expected 150 cookies spent, got %d", rs.CookiesSpent)
	}
}

func TestRun_SessionLostAbortsWithStats(t *testing.T) {
	sess := browser.NewMockSession()
	sess.ClickErr = browser.ErrSessionLost
	rec := &captureRecorder{}

	b := New(sess, rec, Options{})
	rs, err := b.Run(context.Background(), time.Minute)
	if !errors.Is(err, browser.ErrSessionLost) {
		t.Fatalf("expected ErrSessionLost, got %v", err)
	}
	if rs.Clicks != 0 {
		t.Errorf("expected 0 clicks before abort, got %d", rs.Clicks)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected run record despite abort, got %d", len(rec.runs))
	}
}

func TestSetup_NotReadySurfaces(t *testing.T) {
	sess := browser.NewMockSession()
	sess.ReadyErr = browser.ErrNotReady

	b := New(sess, nil, Options{})
	err := b.Setup(time.Second)
	if !errors.Is(err, browser.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestRun_CancelledContextStopsPromptly(t *testing.T) {
	sess := browser.NewMockSession()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(sess, nil, Options{})
	start := time.Now()
	rs, err := b.Run(ctx, time.Hour)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled run did not stop promptly")
	}
	if rs.Clicks != 0 {
		t.Errorf("expected 0 clicks after immediate cancel, got %d", rs.Clicks)
	}
}
