package bot

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CookiePilot/internal/browser"
	"CookiePilot/internal/model"
	"CookiePilot/internal/recorder"
	"CookiePilot/internal/report"
)

// Options configures the purchase loop.
type Options struct {
	// InitialThreshold is the minimum banked cookies before the loop
	// considers any purchase. It only ever grows from here.
	InitialThreshold float64
	// PurchaseEvery is the tick cadence in clicks.
	PurchaseEvery int64
	// ReportEvery is the progress-report cadence in clicks.
	ReportEvery int64
}

func (o Options) withDefaults() Options {
	if o.InitialThreshold <= 0 {
		o.InitialThreshold = 10
	}
	if o.PurchaseEvery <= 0 {
		o.PurchaseEvery = 10
	}
	if o.ReportEvery <= 0 {
		o.ReportEvery = 100
	}
	return o
}

// Bot clicks the big cookie as fast as the session allows and, on a
// fixed click cadence, greedily buys the most expensive affordable
// upgrade once the banked count clears an adaptively growing threshold.
type Bot struct {
	session browser.Session
	rec     recorder.Recorder
	opts    Options

	threshold   float64
	clicks      int64
	purchases   int64
	spent       int64
	lastCookies int64
	startedAt   time.Time
}

// New creates a Bot. A nil recorder disables history recording.
func New(session browser.Session, rec recorder.Recorder, opts Options) *Bot {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	opts = opts.withDefaults()
	return &Bot{
		session:   session,
		rec:       rec,
		opts:      opts,
		threshold: opts.InitialThreshold,
	}
}

// Threshold returns the current purchase threshold.
func (b *Bot) Threshold() float64 { return b.threshold }

// Setup navigates to the game and waits for it to become playable.
func (b *Bot) Setup(readyTimeout time.Duration) error {
	log.Println("[INFO] setting up Cookie Clicker...")
	if err := b.session.OpenGame(); err != nil {
		return err
	}
	if err := b.session.DismissConsent(); err != nil {
		log.Printf("[WARN] dismiss consent banner: %v", err)
	}
	if err := b.session.SelectLanguage(); err != nil {
		return err
	}
	if err := b.session.WaitReady(readyTimeout); err != nil {
		return err
	}
	log.Println("[INFO] game ready")
	return nil
}

// Run clicks until duration elapses, ticking the purchase decision on
// the configured click cadence. The elapsed check runs once per click,
// so Run(ctx, 0) terminates before the first click. Statistics are
// returned even when the run aborts.
func (b *Bot) Run(ctx context.Context, duration time.Duration) (model.RunStats, error) {
	b.startedAt = time.Now()
	log.Printf("[INFO] running bot for %s", duration)

	var runErr error
	for time.Since(b.startedAt) < duration {
		if ctx.Err() != nil {
			log.Println("[INFO] run cancelled")
			break
		}

		if err := b.session.ClickPrimary(); err != nil {
			if errors.Is(err, browser.ErrSessionLost) {
				runErr = err
				break
			}
			log.Printf("[WARN] primary click: %v", err)
			continue
		}
		b.clicks++

		if b.clicks%b.opts.PurchaseEvery == 0 {
			if err := b.Tick(); err != nil {
				runErr = err
				break
			}
		}
		if b.clicks%b.opts.ReportEvery == 0 {
			log.Printf("[INFO] %s", report.Progress(b.clicks, b.currentCookies(), b.purchases))
		}
	}

	stats := b.snapshot()
	if err := b.rec.RecordRun(&recorder.RunRecord{
		StartedAt:    stats.StartedAt,
		Elapsed:      stats.Elapsed,
		Clicks:       stats.Clicks,
		Purchases:    stats.Purchases,
		CookiesSpent: stats.CookiesSpent,
		FinalCookies: stats.FinalCookies,
		EndThreshold: stats.EndThreshold,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	return stats, runErr
}

// Tick performs one purchase decision: read the bank, gate on the
// threshold, pick the most expensive affordable upgrade (first seen
// wins on equal prices), buy it, and grow the threshold. At most one
// buy per call. Transient failures skip the cycle; only a lost session
// propagates.
func (b *Bot) Tick() error {
	text, err := b.session.ReadCurrencyText()
	if err != nil {
		if errors.Is(err, browser.ErrSessionLost) {
			return err
		}
		log.Printf("[WARN] read cookie counter: %v", err)
		return nil
	}
	cookies, ok := ParseCurrency(text)
	if !ok {
		log.Printf("[WARN] unparseable cookie count %q, treating as 0", text)
		cookies = 0
	} else {
		b.lastCookies = cookies
	}

	if float64(cookies) < b.threshold {
		return nil
	}

	options, err := b.session.ListEnabledOptions()
	if err != nil {
		if errors.Is(err, browser.ErrSessionLost) {
			return err
		}
		log.Printf("[WARN] list upgrades: %v", err)
		return nil
	}

	var best model.PurchaseOption
	bestPrice := int64(-1)
	for _, opt := range options {
		price, ok := ParsePrice(opt.Text)
		if !ok {
			continue
		}
		if price > cookies {
			continue
		}
		if price > bestPrice {
			best, bestPrice = opt, price
		}
	}
	if bestPrice < 0 {
		return nil
	}

	if err := b.session.Buy(best.ID); err != nil {
		if errors.Is(err, browser.ErrSessionLost) {
			return err
		}
		if errors.Is(err, browser.ErrStale) {
			log.Printf("[WARN] upgrade %s vanished before purchase", best.ID)
			return nil
		}
		log.Printf("[WARN] buy %s: %v", best.ID, err)
		return nil
	}

	b.purchases++
	b.spent += bestPrice
	b.threshold = math.Max(float64(bestPrice)*2, b.threshold*1.5)
	log.Printf("[INFO] purchased %s for %s cookies (total purchases: %d, threshold now %.0f)",
		optionName(best), humanize.Comma(bestPrice), b.purchases, b.threshold)

	if err := b.rec.RecordPurchase(&recorder.PurchaseRecord{
		RunStartedAt:   b.startedAt,
		OptionID:       best.ID,
		OptionName:     optionName(best),
		Price:          bestPrice,
		CookiesBefore:  cookies,
		ThresholdAfter: b.threshold,
	}); err != nil {
		log.Printf("[ERROR] record purchase: %v", err)
	}
	return nil
}

// currentCookies reads the counter, falling back to the last successful
// read so the final summary still has a value after the session dies.
func (b *Bot) currentCookies() int64 {
	text, err := b.session.ReadCurrencyText()
	if err != nil {
		return b.lastCookies
	}
	n, ok := ParseCurrency(text)
	if !ok {
		return b.lastCookies
	}
	b.lastCookies = n
	return n
}

func (b *Bot) snapshot() model.RunStats {
	return model.RunStats{
		StartedAt:    b.startedAt,
		Elapsed:      time.Since(b.startedAt),
		Clicks:       b.clicks,
		Purchases:    b.purchases,
		CookiesSpent: b.spent,
		FinalCookies: b.currentCookies(),
		EndThreshold: b.threshold,
	}
}

func optionName(opt model.PurchaseOption) string {
	line, _, _ := strings.Cut(opt.Text, "\n")
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return opt.ID
}
