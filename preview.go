package splash

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-splash/internal/fileutil"
	"github.com/alnah/go-splash/internal/hints"
	"github.com/alnah/go-splash/internal/pipeline"
	"github.com/alnah/go-splash/internal/process"
)

// DefaultPreviewTimeout bounds one preview when the context has no deadline.
const DefaultPreviewTimeout = 30 * time.Second

// PreviewOptions configures one preview.
type PreviewOptions struct {
	// Suppress opens the page with ?gss=false.
	Suppress bool

	// PageDir is the directory the page was read from. When set, the
	// scripts, stylesheets and images it references are loaded from there
	// instead of the temporary copy's directory.
	PageDir string

	// RootDir resolves root-relative references such as "/assets/app.js"
	// (default PageDir).
	RootDir string
}

// PreviewReport is what the browser observed.
type PreviewReport struct {
	URL               string        `json:"url"`
	Suppressed        bool          `json:"suppressed"`
	GlobalPresent     bool          `json:"globalPresent"`
	OverlayAttached   bool          `json:"overlayAttached"`
	StyleAttached     bool          `json:"styleAttached"`
	Visibility        string        `json:"visibility,omitempty"`
	ZIndex            string        `json:"zIndex,omitempty"`
	MinDuration       time.Duration `json:"minDuration"`
	HideDuration      time.Duration `json:"hideDuration"`
	DismissedAfter    time.Duration `json:"dismissedAfter"` // render to removal, as the page measured it
	DetachedAfterHide bool          `json:"detachedAfterHide"`
	QueryStripped     bool          `json:"queryStripped"`
}

// pageDriver abstracts the browser so Previewer can be tested without Chrome.
type pageDriver interface {
	Inspect(ctx context.Context, pageURL string, hide bool) (*PreviewReport, error)
	Close() error
}

var _ pageDriver = (*rodDriver)(nil)

// Previewer loads pages in headless Chrome and reports on the overlay.
// One browser is launched lazily per Previewer; call Close when done.
type Previewer struct {
	driver pageDriver
}

// NewPreviewer creates a Previewer. timeout bounds each page when the
// context carries no deadline; zero means DefaultPreviewTimeout.
func NewPreviewer(timeout time.Duration) *Previewer {
	if timeout <= 0 {
		timeout = DefaultPreviewTimeout
	}
	return &Previewer{driver: &rodDriver{timeout: timeout}}
}

// Preview writes htmlContent to a temporary file, opens it and, unless the
// overlay is suppressed, calls window.__GSS__.hide() and measures how long
// dismissal took.
func (p *Previewer) Preview(ctx context.Context, htmlContent string, opts PreviewOptions) (*PreviewReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.PageDir != "" {
		rewritten, err := pipeline.RewriteAssetURLs(htmlContent, opts.PageDir, opts.RootDir)
		if err != nil {
			return nil, fmt.Errorf("resolving page assets: %w", err)
		}
		htmlContent = rewritten
	}

	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pageURL := fileURL(path, opts.Suppress)
	report, err := p.driver.Inspect(ctx, pageURL, !opts.Suppress)
	if err != nil {
		return nil, err
	}
	report.URL = pageURL
	report.Suppressed = opts.Suppress
	return report, nil
}

// Close releases the browser.
func (p *Previewer) Close() error {
	if p.driver != nil {
		return p.driver.Close()
	}
	return nil
}

func fileURL(path string, suppress bool) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if suppress {
		u.RawQuery = url.Values{QueryParam: {"false"}}.Encode()
	}
	return u.String()
}

// rodDriver implements pageDriver using go-rod.
// Rod downloads Chromium on first run if not found.
type rodDriver struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodDriver) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if hints.InCI() || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close closes the browser and kills its process group so Chrome helpers
// do not outlive the previewer.
func (r *rodDriver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// probeScript reports the overlay state as the page sees it.
const probeScript = `(id, global) => {
  const el = document.getElementById(id);
  const st = document.getElementById(id + "-style");
  const g = window[global];
  const cs = el ? getComputedStyle(el) : null;
  return {
    global: !!g,
    overlay: !!el,
    style: !!st,
    visibility: cs ? cs.visibility : "",
    zIndex: cs ? cs.zIndex : "",
    minDurationMs: g ? g.minDurationMs : 0,
    hasParam: new URLSearchParams(window.location.search).has(id)
  };
}`

const hideScript = `(global) => {
  const g = window[global];
  return Promise.resolve(g.hide()).then(() => Date.now() - g.renderedAt);
}`

type probeResult struct {
	Global        bool   `json:"global"`
	Overlay       bool   `json:"overlay"`
	Style         bool   `json:"style"`
	Visibility    string `json:"visibility"`
	ZIndex        string `json:"zIndex"`
	MinDurationMs int64  `json:"minDurationMs"`
	HasParam      bool   `json:"hasParam"`
}

// Inspect opens pageURL, probes the overlay and optionally dismisses it.
func (r *rodDriver) Inspect(ctx context.Context, pageURL string, hide bool) (*PreviewReport, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, hints.ForTimeout())
	}

	before, err := probe(page)
	if err != nil {
		return nil, err
	}

	report := &PreviewReport{
		GlobalPresent:   before.Global,
		OverlayAttached: before.Overlay,
		StyleAttached:   before.Style,
		Visibility:      before.Visibility,
		ZIndex:          before.ZIndex,
		MinDuration:     time.Duration(before.MinDurationMs) * time.Millisecond,
		QueryStripped:   !before.HasParam,
	}

	if !hide || !before.Global {
		report.DetachedAfterHide = !before.Overlay && !before.Style
		return report, nil
	}

	start := time.Now()
	res, err := page.Eval(hideScript, GlobalObject)
	if err != nil {
		return nil, fmt.Errorf("%w: hide: %v", ErrPageEval, err)
	}
	report.HideDuration = time.Since(start)
	report.DismissedAfter = time.Duration(res.Value.Int()) * time.Millisecond

	after, err := probe(page)
	if err != nil {
		return nil, err
	}
	report.DetachedAfterHide = !after.Overlay && !after.Style
	return report, nil
}

func probe(page *rod.Page) (*probeResult, error) {
	res, err := page.Eval(probeScript, OverlayID, GlobalObject)
	if err != nil {
		return nil, fmt.Errorf("%w: probe: %v", ErrPageEval, err)
	}
	var out probeResult
	if err := res.Value.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding probe: %v", ErrPageEval, err)
	}
	return &out, nil
}
