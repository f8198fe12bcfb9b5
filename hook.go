package splash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alnah/go-splash/internal/ctxlog"
	"github.com/alnah/go-splash/internal/fileutil"
)

// PluginName identifies the plugin to hosts that keep a tap registry.
const PluginName = "go-splash"

// Asset is one emitted build output.
type Asset struct {
	Name   string // Output-relative path with forward slashes
	Source []byte
}

// Compilation is the set of assets a host is about to emit.
type Compilation interface {
	Assets() []Asset
	UpdateAsset(name string, source []byte) error
}

// ProcessAssetsFunc is called by the host with the assets of one build.
type ProcessAssetsFunc func(ctx context.Context, c Compilation) error

// ProcessAssetsHook is the host's registration point for asset processing.
type ProcessAssetsHook interface {
	Tap(name string, fn ProcessAssetsFunc)
}

// Apply registers ProcessAssets on the host hook, exactly once per call.
func (p *Plugin) Apply(hook ProcessAssetsHook) error {
	if hook == nil {
		return ErrNilHook
	}
	hook.Tap(PluginName, p.ProcessAssets)
	return nil
}

// ProcessAssets transforms every asset whose name ends in .html and writes
// it back through c. Other assets are left untouched. Errors from individual
// assets are joined; processing stops early only when ctx ends.
func (p *Plugin) ProcessAssets(ctx context.Context, c Compilation) error {
	logger := p.logger(ctx)

	var errs []error
	for _, asset := range c.Assets() {
		if !fileutil.IsHTML(asset.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out, err := p.Transform(ctx, string(asset.Source))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", asset.Name, err))
			continue
		}
		if err := c.UpdateAsset(asset.Name, []byte(out)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", asset.Name, err))
			continue
		}
		logger.Debug("splash injected", "asset", asset.Name)
	}
	return errors.Join(errs...)
}

// Hooks is a minimal in-process ProcessAssetsHook: taps run in registration
// order. Hosts without their own hook system can drive plugins with it.
type Hooks struct {
	mu   sync.Mutex
	taps []tap
}

type tap struct {
	name string
	fn   ProcessAssetsFunc
}

// Tap registers fn under name.
func (h *Hooks) Tap(name string, fn ProcessAssetsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap{name: name, fn: fn})
}

// Names lists registered tap names in order.
func (h *Hooks) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.taps))
	for i, t := range h.taps {
		names[i] = t.name
	}
	return names
}

// Run calls every tap in order with c and joins their errors.
func (h *Hooks) Run(ctx context.Context, c Compilation) error {
	h.mu.Lock()
	taps := append([]tap(nil), h.taps...)
	h.mu.Unlock()

	var errs []error
	for _, t := range taps {
		if err := t.fn(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}

// DirCompilation exposes the .html files under a directory as a
// Compilation. Files are read once by NewDirCompilation and rewritten in
// place, atomically, by UpdateAsset.
type DirCompilation struct {
	root   string
	assets []Asset
	modes  map[string]fs.FileMode
}

// NewDirCompilation collects every .html file under dir.
func NewDirCompilation(ctx context.Context, dir string) (*DirCompilation, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading output directory: %s is not a directory", dir)
	}

	c := &DirCompilation{root: dir, modes: make(map[string]fs.FileMode)}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !fileutil.IsHTML(path) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		src, err := os.ReadFile(path) // #nosec G304 -- walking a caller-provided directory
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		c.assets = append(c.assets, Asset{Name: name, Source: src})
		c.modes[name] = fi.Mode().Perm()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting html files: %w", err)
	}

	sort.Slice(c.assets, func(i, j int) bool { return c.assets[i].Name < c.assets[j].Name })
	ctxlog.FromContext(ctx).Debug("collected html assets", "dir", dir, "count", len(c.assets))
	return c, nil
}

// Assets returns the collected HTML assets sorted by name.
func (c *DirCompilation) Assets() []Asset {
	return append([]Asset(nil), c.assets...)
}

// UpdateAsset rewrites a collected asset on disk.
func (c *DirCompilation) UpdateAsset(name string, source []byte) error {
	mode, ok := c.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, name)
	}
	path := filepath.Join(c.root, filepath.FromSlash(name))
	if err := fileutil.WriteFileAtomic(path, source, mode); err != nil {
		return err
	}
	for i := range c.assets {
		if c.assets[i].Name == name {
			c.assets[i].Source = source
			break
		}
	}
	return nil
}
