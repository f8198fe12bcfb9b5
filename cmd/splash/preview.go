package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/ctxlog"
)

// ErrInvalidTimeout is returned for unparsable or non-positive --timeout values.
var ErrInvalidTimeout = errors.New("invalid timeout")

// runPreviewCmd loads one page in headless Chrome and reports on the overlay.
func runPreviewCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: preview needs exactly one HTML file", ErrNoInput)
	}
	path := positional[0]

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	ctx = ctxlog.WithLogger(ctx, logger)

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadHTML, err)
	}
	page := string(content)

	if flags.inject {
		cfg, err := resolveConfig(flags.common, &flags.splash, envCfg)
		if err != nil {
			return err
		}
		plugin, err := newPlugin(cfg, logger)
		if err != nil {
			return err
		}
		if page, err = plugin.Transform(ctx, page); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	previewer := env.NewPreviewer(timeout)
	defer func() {
		if err := previewer.Close(); err != nil {
			logger.Debug("closing browser", "error", err)
		}
	}()

	start := env.Now()
	report, err := previewer.Preview(ctx, page, splash.PreviewOptions{
		Suppress: flags.suppress,
		PageDir:  filepath.Dir(path),
		RootDir:  flags.root,
	})
	if err != nil {
		return err
	}
	logger.Debug("preview finished", "path", path, "elapsed", env.Now().Sub(start))

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printPreviewReport(env.Stdout, path, report)
	return nil
}

// resolveTimeout picks the preview timeout.
// Priority: flag > SPLASH_TIMEOUT > splash.DefaultPreviewTimeout.
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %q (use e.g. 30s, 2m)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if env.Timeout > 0 {
		return env.Timeout, nil
	}
	return splash.DefaultPreviewTimeout, nil
}

// printPreviewReport outputs a human-readable preview report.
func printPreviewReport(w io.Writer, path string, r *splash.PreviewReport) {
	mark := func(ok bool) string {
		if ok {
			return "[OK]"
		}
		return "[--]"
	}

	fmt.Fprintf(w, "splash preview %s\n\n", path)
	if r.Suppressed {
		fmt.Fprintf(w, "  %s Overlay removed at load (?%s=false)\n", mark(!r.OverlayAttached && !r.StyleAttached), splash.QueryParam)
		fmt.Fprintf(w, "  %s Query parameter stripped\n", mark(r.QueryStripped))
		return
	}

	fmt.Fprintf(w, "  %s window.%s defined\n", mark(r.GlobalPresent), splash.GlobalObject)
	fmt.Fprintf(w, "  %s Overlay attached (visibility %s, z-index %s)\n", mark(r.OverlayAttached), orDash(r.Visibility), orDash(r.ZIndex))
	fmt.Fprintf(w, "  %s Styles attached\n", mark(r.StyleAttached))
	fmt.Fprintf(w, "  %s Dismissed in %v (minimum %v)\n", mark(r.DetachedAfterHide), r.HideDuration.Round(time.Millisecond), r.MinDuration)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
