package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"CookiePilot/internal/browser"
	"CookiePilot/internal/config"
	"CookiePilot/internal/notifier"
	"CookiePilot/internal/recorder"
	"CookiePilot/internal/stats"
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

func newTestScheduler(t *testing.T) (*Scheduler, *captureRecorder) {
	t.Helper()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Run.DurationSeconds = 0

	sm, err := stats.NewManager(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("new stats manager: %v", err)
	}

	rec := &captureRecorder{}
	s := NewScheduler(context.Background(), cfg, sm, rec, notifier.NewNotifier("", ""), false)
	return s, rec
}

func TestRunNow_RecordsAndFolds(t *testing.T) {
	s, rec := newTestScheduler(t)
	sess := browser.NewMockSession()
	s.NewSession = func() (browser.Session, error) { return sess, nil }

	if _, err := s.RunNow(); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected one run record, got %d", len(rec.runs))
	}
	if st := s.Stats.Snapshot(); st.TotalRuns != 1 {
		t.Errorf("expected lifetime total of 1 run, got %d", st.TotalRuns)
	}
}

func TestRunNow_NotReadyStillRecordsRun(t *testing.T) {
	s, rec := newTestScheduler(t)
	sess := browser.NewMockSession()
	sess.ReadyErr = browser.ErrNotReady
	s.NewSession = func() (browser.Session, error) { return sess, nil }

	_, err := s.RunNow()
	if !errors.Is(err, browser.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected run record despite setup failure, got %d", len(rec.runs))
	}
	if rec.runs[0].Clicks != 0 {
		t.Errorf("expected 0 clicks on aborted setup, got %d", rec.runs[0].Clicks)
	}
	if st := s.Stats.Snapshot(); st.TotalRuns != 1 {
		t.Errorf("expected aborted run folded into lifetime stats, got %d runs", st.TotalRuns)
	}
}

func TestHandleCommand_RunRepliesBusyWhileRunning(t *testing.T) {
	s, _ := newTestScheduler(t)

	if !s.tryAcquire() {
		t.Fatal("fresh scheduler should acquire")
	}
	defer s.release()

	if got := s.HandleCommand("/run"); got != "a run is already in progress" {
		t.Fatalf("expected busy reply, got %q", got)
	}
}
