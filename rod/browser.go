// Package rod implements siteport.Browser with headless Chrome driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

var _ siteport.Browser = (*BrowserManager)(nil)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// Readiness defaults.
const (
	DefaultIdleWindow  = 500 * time.Millisecond
	DefaultSettleDelay = 1500 * time.Millisecond
)

// BrowserManager manages browser lifecycle with automatic recycling to prevent
// memory accumulation. Chrome accumulates memory over time (~0.5MB/s under load),
// and the baseline never returns to initial levels even with proper page cleanup.
// Recycling the browser periodically addresses this issue.
//
// A browser is only recycled while no page is open, so pages handed out by
// NewPage stay valid until they are closed.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	openPages int64
	maxPages  int64
	mu        sync.Mutex
	closed    atomic.Bool

	stealth     bool
	idleWindow  time.Duration
	settleDelay time.Duration
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithStealth creates pages through go-rod/stealth, which masks the usual
// headless fingerprints.
func WithStealth(enabled bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.stealth = enabled
	}
}

// WithIdleWindow sets how long the network must be quiet before a page
// counts as idle.
func WithIdleWindow(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.idleWindow = d
	}
}

// WithSettleDelay sets the fixed delay after network idle that absorbs
// client-side rendering.
func WithSettleDelay(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.settleDelay = d
	}
}

// NewBrowserManager creates a new BrowserManager that launches a headless Chrome browser.
// The browser will be recycled after maxPages (default 75) pages have been processed.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages:    DefaultMaxPages,
		idleWindow:  DefaultIdleWindow,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// NewPage opens a fresh tab. The caller must Close the returned page.
func (bm *BrowserManager) NewPage(ctx context.Context) (siteport.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bm.mu.Lock()
	if bm.closed.Load() {
		bm.mu.Unlock()
		return nil, fmt.Errorf("browser manager is closed")
	}
	if bm.openPages == 0 && bm.pageCount >= bm.maxPages {
		bm.recycleBrowser()
	}
	browser := bm.browser
	bm.openPages++
	bm.pageCount++
	bm.mu.Unlock()

	var (
		page *rod.Page
		err  error
	)
	if bm.stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		bm.release()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	return &Page{
		page:        page,
		idleWindow:  bm.idleWindow,
		settleDelay: bm.settleDelay,
		release:     bm.release,
	}, nil
}

// release marks one page as closed.
func (bm *BrowserManager) release() {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.openPages--
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held and no pages open.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	bm.browser = nil
	bm.launcher = nil

	if err := bm.launchBrowser(); err != nil {
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.pageCount = 0
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
