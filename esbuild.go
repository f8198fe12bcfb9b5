package splash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/alnah/go-splash/internal/fileutil"
)

// EsbuildPlugin adapts p to esbuild. HTML pages must reach the output, for
// example through the copy loader:
//
//	Loader: map[string]api.Loader{".html": api.LoaderCopy}
//
// With Write: false the in-memory OutputFiles are transformed. With
// Write: true the plugin enables the metafile and rewrites the emitted .html
// files on disk when the build ends.
func EsbuildPlugin(p *Plugin) api.Plugin {
	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {
			opts := build.InitialOptions
			if opts.Write {
				opts.Metafile = true
			}
			workDir := opts.AbsWorkingDir

			hooks := esbuildHooks(p)

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}
				c := &esbuildCompilation{result: result, workDir: workDir}
				if opts.Write {
					if err := c.collectWritten(); err != nil {
						return api.OnEndResult{}, err
					}
				}
				if err := hooks.Run(context.Background(), c); err != nil {
					return api.OnEndResult{Errors: []api.Message{{
						PluginName: PluginName,
						Text:       err.Error(),
					}}}, nil
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

// esbuildHooks taps the plugin on a fresh hook list run at build end.
func esbuildHooks(p *Plugin) *Hooks {
	hooks := &Hooks{}
	hooks.Tap(PluginName, p.ProcessAssets)
	return hooks
}

// esbuildCompilation presents esbuild outputs as a Compilation. In-memory
// output files are updated in place; written files are rewritten on disk.
type esbuildCompilation struct {
	result  *api.BuildResult
	workDir string
	written map[string]string // asset name -> absolute path
	sources map[string][]byte
}

// collectWritten reads the .html outputs listed in the metafile. Outputs
// that are not on disk yet are skipped; they are covered by OutputFiles.
func (c *esbuildCompilation) collectWritten() error {
	paths, err := metafileHTMLOutputs(c.result.Metafile)
	if err != nil {
		return err
	}
	c.written = make(map[string]string, len(paths))
	c.sources = make(map[string][]byte, len(paths))
	for _, rel := range paths {
		abs := rel
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(c.workDir, filepath.FromSlash(rel))
		}
		src, err := os.ReadFile(abs) // #nosec G304 -- path listed by esbuild metafile
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading esbuild output %s: %w", rel, err)
		}
		c.written[rel] = abs
		c.sources[rel] = src
	}
	return nil
}

func (c *esbuildCompilation) Assets() []Asset {
	var out []Asset
	for _, f := range c.result.OutputFiles {
		out = append(out, Asset{Name: f.Path, Source: f.Contents})
	}
	names := make([]string, 0, len(c.written))
	for name := range c.written {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, Asset{Name: name, Source: c.sources[name]})
	}
	return out
}

func (c *esbuildCompilation) UpdateAsset(name string, source []byte) error {
	if path, ok := c.written[name]; ok {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return fileutil.WriteFileAtomic(path, source, info.Mode().Perm())
	}
	for i := range c.result.OutputFiles {
		if c.result.OutputFiles[i].Path == name {
			c.result.OutputFiles[i].Contents = source
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownAsset, name)
}

// metafileHTMLOutputs returns the sorted .html output paths of an esbuild
// metafile.
func metafileHTMLOutputs(metafile string) ([]string, error) {
	if metafile == "" {
		return nil, nil
	}
	var meta struct {
		Outputs map[string]json.RawMessage `json:"outputs"`
	}
	if err := json.Unmarshal([]byte(metafile), &meta); err != nil {
		return nil, fmt.Errorf("parsing esbuild metafile: %w", err)
	}
	var out []string
	for path := range meta.Outputs {
		if fileutil.IsHTML(path) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}
