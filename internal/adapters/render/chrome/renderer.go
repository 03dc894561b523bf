// Package chrome implements the page acquisition session on headless
// Chrome. Every acquisition starts a fresh browser instance so no state
// leaks between unrelated requests, and releases it on every exit path.
package chrome

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// Options configure one renderer. Zero values fall back to the defaults
// below.
type Options struct {
	// Timeout bounds the whole acquisition: navigation plus the wait for
	// the view model to populate the bound elements.
	Timeout time.Duration

	// PollInterval is how often the populated-data predicate is evaluated.
	PollInterval time.Duration

	// Headless disables the visible browser window. Always true in
	// production; kept configurable for local debugging.
	Headless bool

	// ExecPath optionally pins the Chrome binary (containers ship their
	// own chromium).
	ExecPath string
}

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 250 * time.Millisecond

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// dataPopulatedJS is the render-completion predicate: the loading spinner
// is gone and the Knockout-bound tax id element carries text.
const dataPopulatedJS = `(function() {
	if (document.querySelector('.sk-spinner') !== null) { return false; }
	var tin = document.querySelector('#tinLabel');
	return tin !== null && tin.textContent.trim().length > 0;
})()`

// expandSpecsJS opens the collapsed specification (line items) panel when
// the portal renders it closed.
const expandSpecsJS = `(function() {
	var panel = document.querySelector('#collapse-specs');
	if (panel === null || panel.className.indexOf('show') >= 0) { return true; }
	var toggle = document.querySelector("a[href='#collapse-specs']");
	if (toggle !== null) { toggle.click(); }
	return true;
})()`

// Renderer acquires rendered verification pages via headless Chrome.
type Renderer struct {
	opts Options
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Renderer{opts: opts}
}

var _ receipt.Renderer = (*Renderer)(nil)

// Acquire starts a fresh browser, navigates to url and waits until the
// reactive view model has populated the bound elements. On success the
// returned page owns the browser instance; its Close releases it. On any
// failure the instance is released before returning, and a deadline hit is
// reported as a RenderTimeoutError.
func (r *Renderer) Acquire(ctx context.Context, url string) (receipt.Page, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if r.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	release := func() {
		cancelTab()
		cancelAlloc()
	}

	runCtx, cancelRun := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer cancelRun()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Poll(dataPopulatedJS, nil, chromedp.WithPollingInterval(r.opts.PollInterval)),
		chromedp.Evaluate(expandSpecsJS, nil),
	)
	if err != nil {
		release()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &receipt.RenderTimeoutError{URL: url, Timeout: r.opts.Timeout}
		}
		return nil, err
	}

	// Give the expanded panel a moment to attach its rows. Some receipts
	// legitimately have an empty table, so a polling timeout here is not a
	// failure.
	rowsErr := chromedp.Run(runCtx,
		chromedp.Poll(`document.querySelectorAll("tbody[data-bind*='Specifications'] tr").length > 0`, nil,
			chromedp.WithPollingInterval(r.opts.PollInterval),
			chromedp.WithPollingTimeout(2*time.Second)),
	)
	if rowsErr != nil && !errors.Is(rowsErr, chromedp.ErrPollingTimeout) {
		release()
		if errors.Is(rowsErr, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &receipt.RenderTimeoutError{URL: url, Timeout: r.opts.Timeout}
		}
		return nil, rowsErr
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		release()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &receipt.RenderTimeoutError{URL: url, Timeout: r.opts.Timeout}
		}
		return nil, err
	}

	return &page{html: html, release: release}, nil
}

// page holds the rendered HTML and the browser teardown. Close is
// idempotent: the orchestrator defers it unconditionally and the adapter
// may have released early on error paths.
type page struct {
	html    string
	release func()
	once    sync.Once
}

func (p *page) Content() string { return p.html }

func (p *page) Close() error {
	p.once.Do(p.release)
	return nil
}
