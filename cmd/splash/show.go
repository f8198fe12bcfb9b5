package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/ctxlog"
	"github.com/alnah/go-splash/internal/yamlutil"
)

// ErrUnknownFragment is returned for an unknown show argument.
var ErrUnknownFragment = errors.New("unknown fragment")

// fragment describes one printable piece of generated output.
type fragment struct {
	name      string
	lexer     string
	needsLogo bool
	desc      string
}

// fragments lists what show can print, in default order.
var fragments = []fragment{
	{name: "style", lexer: "css", needsLogo: true, desc: "CSS injected before </head>"},
	{name: "markup", lexer: "html", needsLogo: true, desc: "overlay markup injected before </body>"},
	{name: "script", lexer: "html", needsLogo: true, desc: "inline script injected after the overlay"},
	{name: "runtime", lexer: "javascript", desc: "browser dismissal module (hideSplashScreen)"},
	{name: "config", lexer: "yaml", desc: "effective configuration"},
}

func fragmentNames() []string {
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.name
	}
	return names
}

func lookupFragment(name string) (fragment, bool) {
	for _, f := range fragments {
		if f.name == name {
			return f, true
		}
	}
	return fragment{}, false
}

// runShowCmd prints generated fragments, highlighted on a terminal.
func runShowCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseShowFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	var selected []fragment
	if len(positional) == 0 {
		selected = fragments[:3]
	}
	for _, name := range positional {
		f, ok := lookupFragment(strings.ToLower(name))
		if !ok {
			return fmt.Errorf("%w: %q (available: %s)", ErrUnknownFragment, name, strings.Join(fragmentNames(), ", "))
		}
		selected = append(selected, f)
	}

	color, err := resolveColor(flags.color, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := resolveConfig(flags.common, &flags.splash, envCfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	ctx = ctxlog.WithLogger(ctx, logger)

	// The plugin needs a logo; runtime and config can be shown without one.
	var plugin *splash.Plugin
	if cfg.Splash.Logo != "" || needsPlugin(selected) {
		if plugin, err = newPlugin(cfg, logger); err != nil {
			return err
		}
	}

	for i, f := range selected {
		var source string
		switch f.name {
		case "style":
			source = plugin.Style()
		case "markup":
			source = plugin.Markup(ctx)
		case "script":
			source = plugin.Script()
		case "runtime":
			if source, err = runtimeSource(plugin); err != nil {
				return err
			}
		case "config":
			out, err := yamlutil.Marshal(cfg)
			if err != nil {
				return err
			}
			source = string(out)
		}

		if len(selected) > 1 {
			if i > 0 {
				fmt.Fprintln(env.Stdout)
			}
			fmt.Fprintf(env.Stdout, "# %s: %s\n", f.name, f.desc)
		}
		if err := writeSource(env.Stdout, source, f.lexer, color); err != nil {
			return err
		}
	}
	return nil
}

func needsPlugin(selected []fragment) bool {
	for _, f := range selected {
		if f.needsLogo {
			return true
		}
	}
	return false
}

// runtimeSource returns the runtime honoring --asset-path when a plugin
// exists, the embedded module otherwise.
func runtimeSource(p *splash.Plugin) (string, error) {
	if p != nil {
		return p.RuntimeModule(), nil
	}
	b, err := fs.ReadFile(splash.RuntimeAssetsFS(), splash.RuntimeModuleName)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// resolveColor decides whether to highlight output.
func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "", "auto":
		return isTerminal(w), nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("%w: --color %q (must be auto, always, or never)", ErrUsage, mode)
	}
}

// writeSource writes source, highlighted with chroma when color is set.
func writeSource(w io.Writer, source, lexer string, color bool) error {
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	if !color {
		_, err := io.WriteString(w, source)
		return err
	}
	return quick.Highlight(w, source, lexer, "terminal256", "monokai")
}
