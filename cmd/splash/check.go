package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/ctxlog"
	"github.com/alnah/go-splash/internal/dom"
)

// ErrCheckFailed is returned when at least one page fails a check.
var ErrCheckFailed = errors.New("splash check failed")

// minDurationPattern extracts the minimum duration from the inline script.
var minDurationPattern = regexp.MustCompile(`minDurationMs:\s*(\d+)`)

// checkReport is the outcome of checking one processed page.
type checkReport struct {
	Path          string        `json:"path"`
	Overlays      int           `json:"overlays"`
	Styles        int           `json:"styles"`
	StyleParent   string        `json:"styleParent,omitempty"`
	OverlayParent string        `json:"overlayParent,omitempty"`
	InlineScript  bool          `json:"inlineScript"`
	MinDuration   time.Duration `json:"minDuration"`
	Dismissal     time.Duration `json:"dismissal"`
	Suppressible  bool          `json:"suppressible"`
	Problems      []string      `json:"problems,omitempty"`
}

// OK reports whether the page passed every check.
func (r *checkReport) OK() bool {
	return len(r.Problems) == 0
}

// simClock advances instantly and records the total simulated wait.
type simClock struct {
	start   time.Time
	elapsed time.Duration
}

func (c *simClock) Now() time.Time { return c.start.Add(c.elapsed) }

func (c *simClock) After(d time.Duration) <-chan time.Time {
	c.elapsed += d
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

// runCheckCmd verifies processed pages and simulates their dismissal.
func runCheckCmd(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseCheckFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: check needs at least one HTML file", ErrNoInput)
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	ctx = ctxlog.WithLogger(ctx, logger)

	reports := make([]*checkReport, 0, len(paths))
	failed := 0
	for _, path := range paths {
		report, err := checkFile(ctx, path, env.Now())
		if err != nil {
			return err
		}
		if !report.OK() {
			failed++
		}
		reports = append(reports, report)
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printCheckReport(env.Stdout, r, flags.common.quiet)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d page(s)", ErrCheckFailed, failed, len(reports))
	}
	return nil
}

// checkFile parses the page, verifies the injected elements, then mounts
// the overlay twice: once shown and dismissed, once suppressed.
func checkFile(ctx context.Context, path string, now time.Time) (*checkReport, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadHTML, err)
	}

	doc, err := dom.ParseString(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	r := &checkReport{
		Path:          path,
		Overlays:      doc.Count(splash.OverlayID),
		Styles:        doc.Count(splash.StyleID),
		StyleParent:   doc.ParentTag(splash.StyleID),
		OverlayParent: doc.ParentTag(splash.OverlayID),
	}

	if r.Overlays != 1 {
		r.Problems = append(r.Problems, fmt.Sprintf("expected 1 overlay element #%s, found %d", splash.OverlayID, r.Overlays))
	}
	if r.Styles != 1 {
		r.Problems = append(r.Problems, fmt.Sprintf("expected 1 style element #%s, found %d", splash.StyleID, r.Styles))
	}
	if r.Styles > 0 && r.StyleParent != "head" {
		r.Problems = append(r.Problems, fmt.Sprintf("style element is inside <%s>, want <head>", r.StyleParent))
	}
	if r.Overlays > 0 && r.OverlayParent != "body" {
		r.Problems = append(r.Problems, fmt.Sprintf("overlay is inside <%s>, want <body>", r.OverlayParent))
	}

	for _, script := range doc.Scripts() {
		if !strings.Contains(script, "window."+splash.GlobalObject) {
			continue
		}
		r.InlineScript = true
		if m := minDurationPattern.FindStringSubmatch(script); m != nil {
			if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				r.MinDuration = time.Duration(ms) * time.Millisecond
			}
		}
		break
	}
	if !r.InlineScript {
		r.Problems = append(r.Problems, "inline script defining window."+splash.GlobalObject+" not found")
	}

	if r.Overlays == 0 {
		return r, nil
	}

	clock := &simClock{start: now}
	overlay, _ := splash.Mount(doc, splash.MountConfig{MinDuration: r.MinDuration, Clock: clock}, url.Values{})
	if err := splash.HideSplashScreen(ctx, overlay); err != nil {
		return nil, err
	}
	r.Dismissal = clock.elapsed
	if doc.HasElement(splash.OverlayID) || doc.HasElement(splash.StyleID) {
		r.Problems = append(r.Problems, "overlay still attached after dismissal")
	}

	suppressed, err := dom.ParseString(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	splash.Mount(suppressed, splash.MountConfig{Clock: clock}, url.Values{splash.QueryParam: {"false"}})
	r.Suppressible = !suppressed.HasElement(splash.OverlayID) && !suppressed.HasElement(splash.StyleID)
	if !r.Suppressible {
		r.Problems = append(r.Problems, "?"+splash.QueryParam+"=false did not remove the overlay")
	}

	return r, nil
}

// printCheckReport outputs a human-readable report.
func printCheckReport(w io.Writer, r *checkReport, quiet bool) {
	if r.OK() {
		if !quiet {
			fmt.Fprintf(w, "[OK] %s (min %v, dismissed after %v)\n", r.Path, r.MinDuration, r.Dismissal)
		}
		return
	}
	fmt.Fprintf(w, "[FAIL] %s\n", r.Path)
	for _, p := range r.Problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
}
