package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/FunctionFreak/link-scraper/internal/engine"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures a browser session.
type Options struct {
	// Debug runs Chrome headed and leaves it open on Close for manual
	// inspection. It also dumps each fetched page's HTML into the
	// working directory.
	Debug bool
	// Timeout bounds each page load. Zero means 30s.
	Timeout time.Duration
	// UserAgent overrides the default desktop Chrome user agent.
	UserAgent string
}

// Session owns one Chrome instance for the duration of a run and
// implements engine.Fetcher. Unless Debug is set, Close tears the
// browser down on every exit path.
type Session struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	debug         bool
}

// New launches Chrome and verifies it is responsive.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Debug),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 720),
		chromedp.UserAgent(ua),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       opts.Timeout,
		debug:         opts.Debug,
	}

	// First Run starts the browser. It must use browserCtx directly:
	// chromedp binds the session to the context of the first Run, and a
	// derived timeout context would kill it on cancel.
	startDone := make(chan error, 1)
	go func() { startDone <- chromedp.Run(browserCtx) }()
	select {
	case err := <-startDone:
		if err != nil {
			s.teardown()
			return nil, fmt.Errorf("start browser: %w", err)
		}
	case <-time.After(opts.Timeout):
		s.teardown()
		return nil, fmt.Errorf("start browser: timed out after %v", opts.Timeout)
	}

	log.Debug().Bool("headless", !opts.Debug).Msg("browser started")
	return s, nil
}

// Load navigates a fresh tab to the request URL, dismisses consent
// interstitials best-effort, waits for the organic-results region, and
// returns the rendered HTML.
func (s *Session) Load(ctx context.Context, req engine.PageRequest) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	if !s.debug {
		defer tabCancel()
	}

	// Bind the tab's session to tabCtx before applying a timeout, so a
	// debug session survives past the load.
	if err := chromedp.Run(tabCtx); err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}

	runCtx, cancel := context.WithTimeout(tabCtx, s.timeout)
	defer cancel()
	if dl, ok := ctx.Deadline(); ok {
		var dlCancel context.CancelFunc
		runCtx, dlCancel = context.WithDeadline(runCtx, dl)
		defer dlCancel()
	}

	actions := []chromedp.Action{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(req.URL),
		chromedp.WaitReady("body"),
	}
	for _, sel := range req.ConsentSelectors {
		actions = append(actions, dismissConsent(sel))
	}
	if req.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(req.WaitSelector, chromedp.ByQuery))
	}
	var page string
	actions = append(actions, chromedp.OuterHTML("html", &page))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", fmt.Errorf("load %s: %w", req.URL, err)
	}

	if s.debug && req.DebugName != "" {
		name := req.DebugName + "_debug.html"
		if werr := os.WriteFile(name, []byte(page), 0o644); werr != nil {
			log.Warn().Err(werr).Str("file", name).Msg("debug HTML dump failed")
		} else {
			log.Debug().Str("file", name).Msg("saved debug HTML")
		}
	}
	return page, nil
}

// dismissConsent clicks a consent button if present. A missing button is
// the common case and not an error.
func dismissConsent(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var clicked bool
		script := fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); if (el) { el.click(); return true; } return false; })()`,
			selector)
		if err := chromedp.Evaluate(script, &clicked).Do(ctx); err != nil {
			return nil
		}
		if clicked {
			log.Debug().Str("selector", selector).Msg("dismissed consent dialog")
			// Give the overlay a moment to clear.
			return chromedp.Sleep(500 * time.Millisecond).Do(ctx)
		}
		return nil
	})
}

// Close releases the browser unless the session runs in debug mode, in
// which case the browser intentionally stays open for inspection.
func (s *Session) Close() {
	if s.debug {
		log.Info().Msg("debug mode: leaving browser open")
		return
	}
	s.teardown()
}

func (s *Session) teardown() {
	s.browserCancel()
	s.allocCancel()
}
