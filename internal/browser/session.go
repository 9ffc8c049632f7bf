package browser

import (
	"errors"
	"time"

	"CookiePilot/internal/model"
)

// Session is the narrow capability the bot needs from an automated
// browser tab.
type Session interface {
	// OpenGame navigates to the game URL.
	OpenGame() error
	// DismissConsent clicks through the cookie-consent banner if one is
	// shown. Absence of the banner is not an error.
	DismissConsent() error
	// SelectLanguage picks English on the first-run language screen.
	SelectLanguage() error
	// WaitReady blocks until the big cookie is present, or fails with
	// ErrNotReady after timeout.
	WaitReady(timeout time.Duration) error
	// ClickPrimary performs one click on the big cookie.
	ClickPrimary() error
	// ReadCurrencyText returns the raw text of the cookie counter.
	ReadCurrencyText() (string, error)
	// ListEnabledOptions returns the currently purchasable upgrades.
	// An empty slice is a valid result.
	ListEnabledOptions() ([]model.PurchaseOption, error)
	// Buy clicks the upgrade with the given element id. Fails with
	// ErrStale if the element is no longer present or enabled.
	Buy(id string) error
	// Close releases the underlying browser.
	Close() error
}

var (
	// ErrNotReady means the game did not reach a ready state in time.
	// Fatal: the run aborts before any clicking starts.
	ErrNotReady = errors.New("browser: game not ready")

	// ErrStale means a purchase option vanished before the buy landed.
	// The cycle is skipped and the loop continues.
	ErrStale = errors.New("browser: option no longer available")

	// ErrSessionLost means the underlying browser session is unusable.
	// Fatal: the run aborts, statistics are reported as of the last cycle.
	ErrSessionLost = errors.New("browser: session lost")
)
