package base

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	log "github.com/sirupsen/logrus"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var defaultHeaders = map[string]interface{}{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Upgrade-Insecure-Requests": "1",
}

// ChromeLauncher launches a fresh headless Chrome per session via chromedp
type ChromeLauncher struct {
	Headless         bool
	ExecPath         string
	UserAgent        string
	LaunchTimeout    time.Duration
	ScrollSettle     time.Duration
	MaxSnapshotBytes int
}

// NewChromeLauncher creates a launcher with the default user agent
func NewChromeLauncher(headless bool, execPath string, launchTimeout, scrollSettle time.Duration, maxSnapshotBytes int) *ChromeLauncher {
	return &ChromeLauncher{
		Headless:         headless,
		ExecPath:         execPath,
		UserAgent:        defaultUserAgent,
		LaunchTimeout:    launchTimeout,
		ScrollSettle:     scrollSettle,
		MaxSnapshotBytes: maxSnapshotBytes,
	}
}

// Launch starts the browser and waits up to LaunchTimeout for it to come up.
// The session lives until Close or until ctx is done.
func (l *ChromeLauncher) Launch(ctx context.Context) (scrapers.Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(l.UserAgent),
	)
	if l.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	teardown := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// The first Run allocates the browser. A deadline on its context would kill the
	// browser afterwards, so the launch timeout is enforced from outside.
	started := make(chan error, 1)
	go func() {
		started <- chromedp.Run(browserCtx)
	}()

	var timeout <-chan time.Time
	if l.LaunchTimeout > 0 {
		timer := time.NewTimer(l.LaunchTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-started:
		if err != nil {
			teardown()
			return nil, fmt.Errorf("chromedp launch error: %w", err)
		}
	case <-timeout:
		teardown()
		return nil, fmt.Errorf("chromedp launch error: browser did not start within %s", l.LaunchTimeout)
	}

	log.Debug("[Browser] Launched")
	return &chromeBrowser{
		ctx:              browserCtx,
		cancelAlloc:      cancelAlloc,
		scrollSettle:     l.ScrollSettle,
		maxSnapshotBytes: l.MaxSnapshotBytes,
	}, nil
}

type chromeBrowser struct {
	ctx              context.Context
	cancelAlloc      context.CancelFunc
	scrollSettle     time.Duration
	maxSnapshotBytes int
}

func (b *chromeBrowser) NewPage() (scrapers.Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers(defaultHeaders)),
	); err != nil {
		cancel()
		return nil, fmt.Errorf("chromedp new page error: %w", err)
	}
	return &chromePage{
		ctx:              tabCtx,
		cancel:           cancel,
		scrollSettle:     b.scrollSettle,
		maxSnapshotBytes: b.maxSnapshotBytes,
	}, nil
}

func (b *chromeBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancelAlloc()
	log.Debug("[Browser] Closed")
	if err != nil {
		return fmt.Errorf("chromedp close error: %w", err)
	}
	return nil
}

type chromePage struct {
	ctx              context.Context
	cancel           context.CancelFunc
	scrollSettle     time.Duration
	maxSnapshotBytes int
}

func (p *chromePage) Goto(url string) error {
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chromedp navigation error: %w", err)
	}
	return nil
}

func (p *chromePage) GotoObservingRedirect(url string) (*scrapers.Navigation, error) {
	obs := newNavigationObserver(url)

	listenCtx, stop := context.WithCancel(p.ctx)
	defer stop()
	chromedp.ListenTarget(listenCtx, obs.observe)

	var location string
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url), chromedp.Location(&location)); err != nil {
		return nil, fmt.Errorf("chromedp navigation error: %w", err)
	}
	return obs.result(location), nil
}

// navigationObserver watches network events of one navigation and records whether the
// requested URL itself answered with a 3xx.
type navigationObserver struct {
	mu  sync.Mutex
	nav scrapers.Navigation
}

func newNavigationObserver(requested string) *navigationObserver {
	return &navigationObserver{nav: scrapers.Navigation{RequestedURL: requested, FinalURL: requested}}
}

func (o *navigationObserver) observe(ev interface{}) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		// A redirect shows up as the next request carrying the 3xx response that caused it.
		r := e.RedirectResponse
		if r == nil || r.Status < 300 || r.Status >= 400 || !utils.SameURL(r.URL, o.nav.RequestedURL) {
			return
		}
		o.mu.Lock()
		o.nav.Redirected = true
		o.nav.StatusCode = int(r.Status)
		if e.Request != nil && e.Request.URL != "" {
			o.nav.FinalURL = e.Request.URL
		}
		o.mu.Unlock()
	case *network.EventResponseReceived:
		if e.Response == nil || e.Type != network.ResourceTypeDocument || !utils.SameURL(e.Response.URL, o.nav.RequestedURL) {
			return
		}
		o.mu.Lock()
		if !o.nav.Redirected {
			o.nav.StatusCode = int(e.Response.Status)
		}
		o.mu.Unlock()
	}
}

// result returns the outcome. location is where the tab ended up and wins over the first
// redirect target when the chain continued.
func (o *navigationObserver) result(location string) *scrapers.Navigation {
	o.mu.Lock()
	defer o.mu.Unlock()
	nav := o.nav
	if nav.Redirected && location != "" {
		nav.FinalURL = location
	}
	return &nav
}

func (p *chromePage) Wheel(deltaY float64) error {
	actions := []chromedp.Action{
		input.DispatchMouseEvent(input.MouseWheel, 0, 0).WithDeltaX(0).WithDeltaY(deltaY),
	}
	if p.scrollSettle > 0 {
		actions = append(actions, chromedp.Sleep(p.scrollSettle))
	}
	if err := chromedp.Run(p.ctx, actions...); err != nil {
		return fmt.Errorf("chromedp scroll error: %w", err)
	}
	return nil
}

func (p *chromePage) Snapshot() (*scrapers.Snapshot, error) {
	var htmlContent, location string
	if err := chromedp.Run(p.ctx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("chromedp snapshot error: %w", err)
	}
	return ReduceHTML(htmlContent, location, p.maxSnapshotBytes)
}

func (p *chromePage) Close() {
	p.cancel()
}
