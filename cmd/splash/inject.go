package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/ctxlog"
	"github.com/alnah/go-splash/internal/fileutil"
	"github.com/alnah/go-splash/internal/hints"
)

// Sentinel errors for page I/O.
var (
	ErrReadHTML  = errors.New("failed to read HTML file")
	ErrWriteHTML = errors.New("failed to write HTML file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Injector transforms one page.
type Injector interface {
	Transform(ctx context.Context, html string) (string, error)
}

// Compile-time interface implementation check.
var _ Injector = (*splash.Plugin)(nil)

// InjectResult holds the outcome of a single page.
type InjectResult struct {
	InputPath  string
	OutputPath string
	Diff       string // Set in --diff mode
	Skipped    bool   // Page already carries the overlay
	Err        error
	Duration   time.Duration
}

// runInjectCmd injects the splash screen into every discovered page.
func runInjectCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseInjectFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, &flags.splash, envCfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	ctx = ctxlog.WithLogger(ctx, logger)

	plugin, err := newPlugin(cfg, logger)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoHTMLFiles, inputPath)
	}

	poolSize := resolvePoolSize(workers)
	logger.Debug("injecting", "files", len(files), "workers", poolSize)

	results := injectBatch(ctx, plugin, files, poolSize, flags.diff)

	failed, firstErr := printResults(results, flags, env)
	if failed > 0 {
		return fmt.Errorf("%d of %d page(s) failed: %w", failed, len(results), firstErr)
	}
	return nil
}

// injectBatch processes pages concurrently; results keep the input order.
func injectBatch(ctx context.Context, inj Injector, files []FileToInject, workers int, diff bool) []InjectResult {
	results := make([]InjectResult, len(files))
	runPool(ctx, len(files), workers,
		func(i int) { results[i] = injectFile(ctx, inj, files[i], diff) },
		func(i int, err error) { results[i] = InjectResult{InputPath: files[i].InputPath, Err: err} },
	)
	return results
}

// injectFile processes a single page and returns the result.
func injectFile(ctx context.Context, inj Injector, f FileToInject, diff bool) InjectResult {
	start := time.Now()
	result := InjectResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	finish := func(err error) InjectResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadHTML, err))
	}
	src := string(content)

	if alreadyInjected(src) {
		ctxlog.FromContext(ctx).Debug("splash already present, skipping", "path", f.InputPath)
		result.Skipped = true
		// The output tree still needs the page.
		if !diff && !samePath(f.InputPath, f.OutputPath) {
			return finish(writeOutput(f, content))
		}
		return finish(nil)
	}

	out, err := inj.Transform(ctx, src)
	if err != nil {
		if errors.Is(err, splash.ErrMissingHeadTag) || errors.Is(err, splash.ErrMissingBodyTag) {
			return finish(fmt.Errorf("%w%s", err, hints.ForMissingTags()))
		}
		return finish(err)
	}

	if diff {
		result.Diff = unifiedDiff(filepath.ToSlash(f.InputPath), src, out)
		return finish(nil)
	}

	if err := writeOutput(f, []byte(out)); err != nil {
		return finish(err)
	}
	return finish(nil)
}

// writeOutput rewrites the page in place, atomically and keeping its mode,
// or writes it under the output directory.
func writeOutput(f FileToInject, data []byte) error {
	if samePath(f.InputPath, f.OutputPath) {
		perm := os.FileMode(filePermissions)
		if info, err := os.Stat(f.InputPath); err == nil {
			perm = info.Mode().Perm()
		}
		if err := fileutil.WriteFileAtomic(f.OutputPath, data, perm); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteHTML, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteHTML, err, hints.ForOutputDirectory())
	}
	// #nosec G306 -- pages are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}

// alreadyInjected reports whether a previous run left the overlay in src.
func alreadyInjected(src string) bool {
	return strings.Contains(src, `<div id="`+splash.OverlayID+`">`)
}

// ResultSummary holds the count of processed, skipped and failed pages.
type ResultSummary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// countResults tallies the outcomes.
func countResults(results []InjectResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Skipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs per-page results and returns the failure count and
// the first error.
func printResults(results []InjectResult, flags *injectFlags, env *Environment) (int, error) {
	summary := countResults(results)
	quiet, verbose := flags.common.quiet, flags.common.verbose

	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if flags.diff {
			fmt.Fprint(env.Stdout, r.Diff)
			continue
		}

		if quiet {
			continue
		}

		switch {
		case r.Skipped:
			fmt.Fprintf(env.Stdout, "Skipped %s (already injected)\n", r.InputPath)
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Injected %s\n", r.OutputPath)
		}
	}

	if !quiet && !flags.diff && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d injected, %d skipped, %d failed\n", summary.Succeeded, summary.Skipped, summary.Failed)
	}

	return summary.Failed, firstErr
}
