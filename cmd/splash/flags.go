package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks command-line parsing errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// splashFlags mirror the plugin options; empty values defer to env and config.
type splashFlags struct {
	logo             string
	splashBackground string
	loaderBackground string
	loader           string
	minDuration      string
	publicDir        string
	assetPath        string
	strict           bool
}

// injectFlags holds all flags for the inject command.
type injectFlags struct {
	common  commonFlags
	splash  splashFlags
	output  string
	workers int
	diff    bool
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common commonFlags
	json   bool
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common   commonFlags
	splash   splashFlags
	timeout  string
	root     string
	suppress bool
	inject   bool
	json     bool
}

// showFlags holds flags for the show command.
type showFlags struct {
	common commonFlags
	splash splashFlags
	color  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output and timings")
}

// addSplashFlags adds the splash option flags to a FlagSet.
func addSplashFlags(fs *flag.FlagSet, f *splashFlags) {
	fs.StringVarP(&f.logo, "logo", "l", "", "logo file under the public dir, URL or data: URI")
	fs.StringVar(&f.splashBackground, "background", "", "overlay background color (default #ffffff)")
	fs.StringVar(&f.loaderBackground, "loader-background", "", "loader color (default #0072f5)")
	fs.StringVar(&f.loader, "loader", "", "loader animation: line, dots, none")
	fs.StringVar(&f.minDuration, "min-duration", "", "minimum visible time (e.g., 1500ms, 2s)")
	fs.StringVar(&f.publicDir, "public-dir", "", "logo lookup directory (default public)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
	fs.BoolVar(&f.strict, "strict", false, "fail on pages without </head> or </body>")
}

// newInjectFlagSet registers the inject flags on a new FlagSet.
// Shared by parsing and completion so both see the same flags.
func newInjectFlagSet(f *injectFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("inject", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: rewrite in place)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.diff, "diff", "d", false, "print a diff instead of writing files")
	addCommonFlags(fs, &f.common)
	addSplashFlags(fs, &f.splash)
	return fs
}

// newCheckFlagSet registers the check flags on a new FlagSet.
func newCheckFlagSet(f *checkFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print reports as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

// newPreviewFlagSet registers the preview flags on a new FlagSet.
func newPreviewFlagSet(f *previewFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.root, "root", "", "site root for /absolute asset paths (default: the page directory)")
	fs.BoolVar(&f.suppress, "suppress", false, "open the page with ?gss=false")
	fs.BoolVarP(&f.inject, "inject", "i", false, "inject the splash screen before previewing")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)
	addSplashFlags(fs, &f.splash)
	return fs
}

// newShowFlagSet registers the show flags on a new FlagSet.
func newShowFlagSet(f *showFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.StringVar(&f.color, "color", "auto", "syntax highlighting: auto, always, never")
	addCommonFlags(fs, &f.common)
	addSplashFlags(fs, &f.splash)
	return fs
}

// parseWith parses args on fs. pflag prints usage to w on -h and on errors.
// Parse errors wrap ErrUsage; -h/--help returns flag.ErrHelp unchanged.
func parseWith(fs *flag.FlagSet, args []string, w io.Writer, usage func(io.Writer)) ([]string, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

func parseInjectFlags(args []string, w io.Writer) (*injectFlags, []string, error) {
	f := &injectFlags{}
	rest, err := parseWith(newInjectFlagSet(f), args, w, printInjectUsage)
	return f, rest, err
}

func parseCheckFlags(args []string, w io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	rest, err := parseWith(newCheckFlagSet(f), args, w, printCheckUsage)
	return f, rest, err
}

func parsePreviewFlags(args []string, w io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	rest, err := parseWith(newPreviewFlagSet(f), args, w, printPreviewUsage)
	return f, rest, err
}

func parseShowFlags(args []string, w io.Writer) (*showFlags, []string, error) {
	f := &showFlags{}
	rest, err := parseWith(newShowFlagSet(f), args, w, printShowUsage)
	return f, rest, err
}
