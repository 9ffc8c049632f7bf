package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"CookiePilot/internal/bot"
	"CookiePilot/internal/browser"
	"CookiePilot/internal/config"
	"CookiePilot/internal/model"
	"CookiePilot/internal/notifier"
	"CookiePilot/internal/recorder"
	"CookiePilot/internal/report"
	"CookiePilot/internal/stats"
)

// Scheduler runs the bot, either once on demand or repeatedly on a cron
// schedule. The browser is an exclusively-owned resource, so overlapping
// firings are skipped rather than queued.
type Scheduler struct {
	Cron     *cron.Cron
	Ctx      context.Context
	Config   *config.Config
	Stats    *stats.Manager
	Recorder recorder.Recorder
	Notifier *notifier.Notifier
	DryRun   bool

	// NewSession acquires the browser session for a run. Replaceable
	// in tests; defaults to Chrome (or the mock in dry-run mode).
	NewSession func() (browser.Session, error)

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, sm *stats.Manager, rec recorder.Recorder, n *notifier.Notifier, dryRun bool) *Scheduler {
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ctx:      ctx,
		Config:   cfg,
		Stats:    sm,
		Recorder: rec,
		Notifier: n,
		DryRun:   dryRun,
	}
	s.NewSession = s.newSession
	return s
}

// Register registers the recurring run task.
func (s *Scheduler) Register(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.scheduledRun); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one full run immediately: acquire a session, play for
// the configured duration, release the session, fold the statistics.
func (s *Scheduler) RunNow() (model.RunStats, error) {
	if !s.tryAcquire() {
		return model.RunStats{}, fmt.Errorf("a run is already in progress")
	}
	defer s.release()
	return s.runOnce()
}

func (s *Scheduler) scheduledRun() {
	if !s.tryAcquire() {
		log.Println("[WARN] previous run still in progress, skipping this firing")
		return
	}
	defer s.release()
	if _, err := s.runOnce(); err != nil {
		log.Printf("[ERROR] scheduled run: %v", err)
	}
}

func (s *Scheduler) runOnce() (model.RunStats, error) {
	sess, err := s.NewSession()
	if err != nil {
		return model.RunStats{}, fmt.Errorf("acquire browser session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("[ERROR] close session: %v", err)
		}
	}()

	b := bot.New(sess, s.Recorder, bot.Options{
		InitialThreshold: s.Config.Run.InitialThreshold,
		PurchaseEvery:    s.Config.Run.PurchaseEveryClicks,
		ReportEvery:      s.Config.Run.ReportEveryClicks,
	})

	var rs model.RunStats
	var runErr error
	if err := b.Setup(time.Duration(s.Config.Game.ReadyTimeoutSeconds) * time.Second); err != nil {
		// Aborted before the first click; the run still counts.
		rs = model.RunStats{StartedAt: time.Now(), EndThreshold: s.Config.Run.InitialThreshold}
		runErr = err
		if err := s.Recorder.RecordRun(&recorder.RunRecord{
			StartedAt:    rs.StartedAt,
			EndThreshold: rs.EndThreshold,
		}); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}
	} else {
		rs, runErr = b.Run(s.Ctx, time.Duration(s.Config.Run.DurationSeconds)*time.Second)
	}

	// The summary is emitted even when the run aborted.
	summary := report.Summary(&rs)
	fmt.Println(summary)
	s.Stats.RecordRun(&rs)
	s.trySend(summary)

	return rs, runErr
}

func (s *Scheduler) newSession() (browser.Session, error) {
	if s.DryRun {
		m := browser.NewMockSession()
		m.CookiesPerClick = 10
		m.Options = []model.PurchaseOption{
			{ID: "product0", Text: "Cursor\nowned: 0\n15"},
			{ID: "product1", Text: "Grandma\nowned: 0\n100"},
			{ID: "product2", Text: "Farm\nowned: 0\n1,100"},
		}
		m.Prices = map[string]int64{"product0": 15, "product1": 100, "product2": 1100}
		return m, nil
	}
	return browser.NewChromeSession(browser.Options{
		URL:           s.Config.Game.URL,
		Headless:      s.Config.Browser.Headless,
		WindowWidth:   s.Config.Browser.WindowWidth,
		WindowHeight:  s.Config.Browser.WindowHeight,
		DisableImages: s.Config.Browser.DisableImages,
		ActionTimeout: time.Duration(s.Config.Game.ActionTimeoutSeconds) * time.Second,
	})
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		if !s.tryAcquire() {
			return "a run is already in progress"
		}
		go func() {
			defer s.release()
			if _, err := s.runOnce(); err != nil {
				log.Printf("[ERROR] commanded run: %v", err)
			}
		}()
		return "run started"
	case "/stats":
		st := s.Stats.Snapshot()
		return report.Lifetime(&st)
	default:
		return "commands:\n• /run\n• /stats"
	}
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
