package splash

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/alnah/go-splash/internal/ctxlog"
)

// Document is the part of a page the dismissal runtime manipulates.
// internal/dom provides an implementation over parsed HTML.
type Document interface {
	HasElement(id string) bool
	SetStyle(id, property, value string) bool
	RemoveElement(id string) bool
}

// Clock abstracts time for the dismissal runtime.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// State is the lifecycle position of an overlay.
type State int

// Overlay states. Initial moves to Shown or Suppressed at mount; Shown
// moves to Hiding on the first Hide; every path ends in Removed.
const (
	StateInitial State = iota
	StateShown
	StateSuppressed
	StateHiding
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateShown:
		return "shown"
	case StateSuppressed:
		return "suppressed"
	case StateHiding:
		return "hiding"
	case StateRemoved:
		return "removed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MountConfig configures Mount. Zero values take the defaults.
type MountConfig struct {
	ID           string        // Overlay element id and query parameter (default "gss")
	MinDuration  time.Duration // Minimum visible time
	FadeDuration time.Duration // Fade-out length (default 200ms)
	Clock        Clock         // Time source (default wall clock)
}

// Overlay is the runtime state of one mounted splash screen, the Go
// counterpart of window.__GSS__. Hide is safe to call concurrently and
// repeatedly; only the first call does any work.
type Overlay struct {
	ID           string
	RenderedAt   time.Time
	MinDuration  time.Duration
	FadeDuration time.Duration

	doc   Document
	clock Clock

	mu       sync.Mutex
	hidden   bool
	state    State
	done     chan struct{}
	doneOnce sync.Once
}

// Mount initializes the overlay of a freshly parsed page. When query carries
// gss=false the overlay and its styles are removed at once and never shown;
// otherwise the overlay is made visible. The returned values are query
// without the parameter, for the caller to rewrite the visible URL.
func Mount(doc Document, cfg MountConfig, query url.Values) (*Overlay, url.Values) {
	o := &Overlay{
		ID:           cfg.ID,
		MinDuration:  cfg.MinDuration,
		FadeDuration: cfg.FadeDuration,
		doc:          doc,
		clock:        cfg.Clock,
	}
	if o.ID == "" {
		o.ID = OverlayID
	}
	if o.FadeDuration == 0 {
		o.FadeDuration = DefaultFadeDuration
	}
	if o.clock == nil {
		o.clock = realClock{}
	}
	o.RenderedAt = o.clock.Now()

	rest := make(url.Values, len(query))
	for k, v := range query {
		if k != o.ID {
			rest[k] = v
		}
	}

	if query.Get(o.ID) == "false" {
		o.mu.Lock()
		o.hidden = true
		o.state = StateSuppressed
		o.mu.Unlock()
		o.Remove()
		return o, rest
	}

	o.Show()
	return o, rest
}

// Show makes the overlay visible.
func (o *Overlay) Show() {
	if o.doc != nil {
		o.doc.SetStyle(o.ID, "visibility", "visible")
	}
	o.mu.Lock()
	if o.state == StateInitial {
		o.state = StateShown
	}
	o.mu.Unlock()
}

// Hide dismisses the overlay: it waits until MinDuration has elapsed since
// RenderedAt, fades the overlay out over FadeDuration, then removes it and
// its styles. The hidden flag is set before any wait, so later and
// concurrent callers return nil immediately.
//
// If ctx ends during a wait the overlay is still removed and ctx.Err() is
// returned.
func (o *Overlay) Hide(ctx context.Context) error {
	o.mu.Lock()
	if o.hidden {
		o.mu.Unlock()
		return nil
	}
	o.hidden = true
	if o.doc == nil || !o.doc.HasElement(o.ID) {
		o.mu.Unlock()
		o.Remove()
		return nil
	}
	o.state = StateHiding
	o.mu.Unlock()

	remaining := o.MinDuration - o.now().Sub(o.RenderedAt)
	err := o.wait(ctx, remaining)
	if err == nil {
		fade := o.FadeDuration
		o.doc.SetStyle(o.ID, "transition", fmt.Sprintf("opacity %dms ease-out", fade.Milliseconds()))
		o.doc.SetStyle(o.ID, "opacity", "0")
		err = o.wait(ctx, fade)
	}

	o.Remove()
	return err
}

// Remove detaches the overlay element and its style element, if present,
// and moves the overlay to StateRemoved.
func (o *Overlay) Remove() {
	if o.doc != nil {
		o.doc.RemoveElement(o.ID)
		o.doc.RemoveElement(o.ID + "-style")
	}
	o.mu.Lock()
	o.hidden = true
	o.state = StateRemoved
	o.mu.Unlock()
	o.doneOnce.Do(func() { close(o.doneChan()) })
}

// Done returns a channel closed once the overlay has been removed.
func (o *Overlay) Done() <-chan struct{} {
	return o.doneChan()
}

// Hidden reports whether dismissal has started or the overlay was suppressed.
func (o *Overlay) Hidden() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hidden
}

// State returns the current lifecycle state.
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Overlay) doneChan() chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done == nil {
		o.done = make(chan struct{})
	}
	return o.done
}

func (o *Overlay) now() time.Time {
	if o.clock == nil {
		return time.Now()
	}
	return o.clock.Now()
}

func (o *Overlay) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	after := time.After
	if o.clock != nil {
		after = o.clock.After
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d):
		return nil
	}
}

// HideSplashScreen is the entry point applications call once ready. A nil
// overlay stands for a page whose inline script never ran and is treated as
// {ID: "gss"} without a document.
//
// It returns nil without waiting when the overlay is already hidden, and
// logs a diagnostic through the context logger when the overlay element or
// its styles are missing, which usually means the page was not processed.
func HideSplashScreen(ctx context.Context, o *Overlay) error {
	if o == nil {
		o = &Overlay{ID: OverlayID}
	}
	if o.ID == "" {
		o.ID = OverlayID
	}
	if o.Hidden() {
		return nil
	}

	if o.doc == nil || !o.doc.HasElement(o.ID) || !o.doc.HasElement(o.ID+"-style") {
		// A concurrent Hide may have removed the nodes after the first check.
		if o.Hidden() {
			return nil
		}
		ctxlog.FromContext(ctx).Error("splash screen not found, was the page processed by the splash injector?",
			"id", o.ID)
		return nil
	}

	return o.Hide(ctx)
}
