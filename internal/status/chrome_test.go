package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lifecycle(frame, loader, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{FrameID: cdp.FrameID(frame), LoaderID: cdp.LoaderID(loader), Name: name}
}

func TestIdleWatcher_MainFrameIdle(t *testing.T) {
	watcher := newIdleWatcher("networkIdle")

	watcher.listen(lifecycle("main", "l1", "init"))
	watcher.listen(lifecycle("main", "l1", "load"))
	assert.False(t, watcher.isIdle())

	// An iframe going idle says nothing about the main document
	watcher.listen(lifecycle("ad", "l2", "init"))
	watcher.listen(lifecycle("ad", "l2", "networkIdle"))
	assert.False(t, watcher.isIdle())

	watcher.listen(lifecycle("main", "l1", "networkIdle"))
	assert.True(t, watcher.isIdle())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, watcher.wait(ctx))
}

func TestIdleWatcher_RedirectResetsIdle(t *testing.T) {
	watcher := newIdleWatcher("networkIdle")

	watcher.listen(lifecycle("main", "l1", "init"))
	watcher.listen(lifecycle("main", "l1", "networkIdle"))
	watcher.listen(lifecycle("main", "l3", "init"))
	assert.False(t, watcher.isIdle())

	// A late event of the old document is ignored
	watcher.listen(lifecycle("main", "l1", "networkIdle"))
	assert.False(t, watcher.isIdle())

	watcher.listen(lifecycle("main", "l3", "networkIdle"))
	assert.True(t, watcher.isIdle())
}

func TestIdleWatcher_NetworkAlmostIdle(t *testing.T) {
	watcher := newIdleWatcher(ReadinessNetworkAlmostIdle.lifecycleEvent())

	watcher.listen(lifecycle("main", "l1", "init"))
	watcher.listen(lifecycle("main", "l1", "load"))
	watcher.listen(lifecycle("main", "l1", "networkAlmostIdle"))
	assert.True(t, watcher.isIdle())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, watcher.wait(ctx))
}

func TestIdleWatcher_NetworkIdleIgnoresAlmostIdle(t *testing.T) {
	watcher := newIdleWatcher(ReadinessNetworkIdle.lifecycleEvent())

	watcher.listen(lifecycle("main", "l1", "init"))
	watcher.listen(lifecycle("main", "l1", "networkAlmostIdle"))
	assert.False(t, watcher.isIdle())
}

func TestReadiness_LifecycleEvent(t *testing.T) {
	assert.Equal(t, "networkAlmostIdle", ReadinessNetworkAlmostIdle.lifecycleEvent())
	assert.Equal(t, "networkIdle", ReadinessNetworkIdle.lifecycleEvent())
	assert.Equal(t, "", ReadinessLoad.lifecycleEvent())
	assert.Equal(t, ReadinessNetworkAlmostIdle, DefaultResolverConfig().Readiness)
}

func TestIdleWatcher_WaitTimesOut(t *testing.T) {
	watcher := newIdleWatcher("networkIdle")
	watcher.listen(lifecycle("main", "l1", "init"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, watcher.wait(ctx), context.DeadlineExceeded)
}

func TestIdleWatcher_WaitWakesUp(t *testing.T) {
	watcher := newIdleWatcher("networkIdle")
	watcher.listen(lifecycle("main", "l1", "init"))

	go func() {
		time.Sleep(10 * time.Millisecond)
		watcher.listen(lifecycle("main", "l1", "networkIdle"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, watcher.wait(ctx))
}

func TestChromeEngine_ExplicitPathMissing(t *testing.T) {
	engine := &ChromeEngine{ExecPath: "/nonexistent/overseer/chrome"}

	_, err := engine.Launch(context.Background(), DefaultResolverConfig())

	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestChromeEngine_ChromePathEnvMissing(t *testing.T) {
	t.Setenv("CHROME_PATH", "/nonexistent/overseer/chromium")
	engine := &ChromeEngine{}

	_, err := engine.Launch(context.Background(), DefaultResolverConfig())

	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

// Same markup as testdata/sibling.html, but only after a script ran
const scriptedPage = `<!DOCTYPE html>
<html>
<head><title>Status</title></head>
<body>
<div id="root"></div>
<script>
setTimeout(function () {
	var services = [["Bethesda.net", "Operational"], ["Fallout 76", "Operational"]];
	var root = document.getElementById("root");
	services.forEach(function (service) {
		var container = document.createElement("div");
		container.className = "status-container";
		service.forEach(function (text) {
			var div = document.createElement("div");
			div.textContent = text;
			container.appendChild(div);
		});
		root.appendChild(container);
	});
}, 100);
</script>
</body>
</html>`

func TestResolve_ChromeRendersScriptedPage(t *testing.T) {
	if _, err := (&ChromeEngine{}).execPath(); err != nil {
		t.Skip("no chrome executable available")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(scriptedPage))
	}))
	defer server.Close()

	query := StatusQuery{TargetServiceName: "Fallout 76", SourceURL: server.URL}
	config := DefaultResolverConfig()
	config.RenderTimeout = 60 * time.Second

	rendered := NewResolver(&ChromeEngine{}).Resolve(context.Background(), query, config)
	assert.Equal(t, Found("Operational"), rendered)

	// Without running the script the page is an empty shell
	fetched := NewResolver(&StaticEngine{}).Resolve(context.Background(), query, config)
	assert.Equal(t, NotListed("Fallout 76"), fetched)
}
