package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Executables tried, in order, when no explicit path is configured
var chromeCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
}

// Renders pages in a headless Chrome, one browser process per session
type ChromeEngine struct {
	// Path of the browser executable. When empty CHROME_PATH is used,
	// and then the usual executable names are searched in PATH
	ExecPath string
}

func (engine *ChromeEngine) execPath() (string, error) {
	if engine.ExecPath != "" {
		path, err := exec.LookPath(engine.ExecPath)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return path, nil
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		path, err := exec.LookPath(env)
		if err != nil {
			return "", fmt.Errorf("%w: CHROME_PATH: %v", ErrEngineUnavailable, err)
		}
		return path, nil
	}
	for _, candidate := range chromeCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no chrome executable found in PATH", ErrEngineUnavailable)
}

func (engine *ChromeEngine) Launch(ctx context.Context, config ResolverConfig) (Session, error) {

	path, err := engine.execPath()
	if err != nil {
		return nil, err
	}

	// Flags needed to run inside containers
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.UserAgent(config.UserAgent),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-zygote", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(browserLogf),
		chromedp.WithErrorf(browserLogf),
	)
	session := &chromeSession{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		readiness:     config.Readiness,
	}

	// Start the browser now, so launch problems are not mistaken for
	// navigation problems
	log.Debug().Msgf("Starting browser %s", path)
	if err := chromedp.Run(browserCtx); err != nil {
		session.Close()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return session, nil
}

func browserLogf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

type chromeSession struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	readiness     Readiness
	closeOnce     sync.Once
	closeErr      error
}

func (session *chromeSession) Render(ctx context.Context, url string) (string, error) {

	runCtx, cancel := context.WithCancel(session.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	idleEvent := session.readiness.lifecycleEvent()
	watcher := newIdleWatcher(idleEvent)
	if idleEvent != "" {
		chromedp.ListenTarget(runCtx, watcher.listen)
	}

	var html string
	err := chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if idleEvent == "" {
				return nil
			}
			return watcher.wait(ctx)
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		// The caller deadline is what made the run stop
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("could not render %s: %w", url, err)
	}
	return html, nil
}

// Close the browser and wait for its process to be gone
func (session *chromeSession) Close() error {
	session.closeOnce.Do(func() {
		err := chromedp.Cancel(session.ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			session.closeErr = err
		}
		session.cancelBrowser()
		session.cancelAlloc()
	})
	return session.closeErr
}

// Tracks the lifecycle events of the main frame until its current
// document fires the idle event
type idleWatcher struct {
	mu        sync.Mutex
	idleEvent string
	mainFrame cdp.FrameID
	loader    cdp.LoaderID
	idle      bool
	notify    chan struct{}
}

func newIdleWatcher(idleEvent string) *idleWatcher {
	return &idleWatcher{idleEvent: idleEvent, notify: make(chan struct{}, 1)}
}

// Called synchronously by chromedp, must not block
func (watcher *idleWatcher) listen(ev interface{}) {
	event, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}

	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	switch {
	case event.Name == "init":
		// The first document started is the main frame, later ones
		// on the same frame are redirects
		if watcher.mainFrame == "" || watcher.mainFrame == event.FrameID {
			watcher.mainFrame = event.FrameID
			watcher.loader = event.LoaderID
			watcher.idle = false
		}
	case event.Name == watcher.idleEvent:
		if event.FrameID == watcher.mainFrame && event.LoaderID == watcher.loader {
			watcher.idle = true
			select {
			case watcher.notify <- struct{}{}:
			default:
			}
		}
	}
}

func (watcher *idleWatcher) isIdle() bool {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.idle
}

func (watcher *idleWatcher) wait(ctx context.Context) error {
	for !watcher.isIdle() {
		select {
		case <-watcher.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
