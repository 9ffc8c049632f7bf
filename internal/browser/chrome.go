package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"CookiePilot/internal/model"
)

// Locators for the Cookie Clicker page.
const (
	selLanguageEN      = "#langSelect-EN"
	selBigCookie       = "#bigCookie"
	selCookieCounter   = "#cookies"
	selEnabledProducts = ".product.unlocked.enabled"
	selConsentAccept   = "a.cc_btn_accept_all"
)

// gameSettleDelay gives the game time to finish initializing after the
// big cookie first appears.
const gameSettleDelay = 5 * time.Second

// Options configures a ChromeSession.
type Options struct {
	URL           string
	Headless      bool
	WindowWidth   int
	WindowHeight  int
	DisableImages bool
	ActionTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.URL == "" {
		o.URL = "https://orteil.dashnet.org/cookieclicker/"
	}
	if o.WindowWidth == 0 {
		o.WindowWidth = 1920
	}
	if o.WindowHeight == 0 {
		o.WindowHeight = 1080
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = 10 * time.Second
	}
	return o
}

// ChromeSession drives a Chrome tab over the DevTools protocol.
type ChromeSession struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChromeSession launches Chrome and returns a connected session.
// The caller must Close it on every exit path.
func NewChromeSession(opts Options) (*ChromeSession, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.DisableImages {
		allocOpts = append(allocOpts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		ctxCancel()
		allocCancel()
	}

	// Force the browser process to start before the first real action.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	log.Printf("[INFO] chrome session started (headless=%v)", opts.Headless)
	return &ChromeSession{opts: opts, ctx: ctx, cancel: cancel}, nil
}

// run executes actions under a per-action timeout and maps a dead
// session context to ErrSessionLost.
func (s *ChromeSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, actions...)
	if err != nil && s.ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	return err
}

func (s *ChromeSession) OpenGame() error {
	if err := s.run(s.opts.ActionTimeout*3, chromedp.Navigate(s.opts.URL)); err != nil {
		return fmt.Errorf("open game: %w", err)
	}
	return nil
}

func (s *ChromeSession) DismissConsent() error {
	err := s.run(3*time.Second,
		chromedp.Click(selConsentAccept, chromedp.ByQuery),
	)
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		// No banner shown.
		return nil
	}
	return err
}

func (s *ChromeSession) SelectLanguage() error {
	err := s.run(30*time.Second,
		chromedp.WaitVisible(selLanguageEN, chromedp.ByQuery),
		chromedp.Click(selLanguageEN, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("select language: %w", err)
	}
	return nil
}

func (s *ChromeSession) WaitReady(timeout time.Duration) error {
	err := s.run(timeout, chromedp.WaitVisible(selBigCookie, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, ErrSessionLost) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	// Let the game finish initializing before the first click.
	time.Sleep(gameSettleDelay)
	return nil
}

func (s *ChromeSession) ClickPrimary() error {
	return s.run(s.opts.ActionTimeout, chromedp.Click(selBigCookie, chromedp.ByQuery))
}

func (s *ChromeSession) ReadCurrencyText() (string, error) {
	var text string
	err := s.run(s.opts.ActionTimeout, chromedp.Text(selCookieCounter, &text, chromedp.ByQuery))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *ChromeSession) ListEnabledOptions() ([]model.PurchaseOption, error) {
	// Element ids are collected in one pass, then each option's text is
	// read separately. A product that vanishes between the two reads is
	// simply dropped.
	var nodes []*cdp.Node
	err := s.run(s.opts.ActionTimeout,
		chromedp.Nodes(selEnabledProducts, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, err
	}

	opts := make([]model.PurchaseOption, 0, len(nodes))
	for _, n := range nodes {
		id := n.AttributeValue("id")
		if id == "" {
			continue
		}
		var text string
		if err := s.run(s.opts.ActionTimeout, chromedp.Text("#"+id, &text, chromedp.ByQuery)); err != nil {
			if errors.Is(err, ErrSessionLost) {
				return nil, err
			}
			continue
		}
		opts = append(opts, model.PurchaseOption{ID: id, Text: text})
	}
	return opts, nil
}

func (s *ChromeSession) Buy(id string) error {
	err := s.run(s.opts.ActionTimeout, chromedp.Click("#"+id, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, ErrSessionLost) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStale, err)
	}
	return nil
}

func (s *ChromeSession) Close() error {
	log.Println("[INFO] closing chrome session")
	s.cancel()
	return nil
}
