package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  inject      Inject the splash screen into HTML pages")
	fmt.Fprintln(w, "  check       Verify injected pages")
	fmt.Fprintln(w, "  preview     Load a page in a headless browser")
	fmt.Fprintln(w, "  show        Print generated CSS, markup and scripts")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'splash help <command>' for details on a specific command.")
}

// printSplashFlags prints the flags shared by inject, preview and show.
func printSplashFlags(w io.Writer) {
	fmt.Fprintln(w, "Splash:")
	fmt.Fprintln(w, "  -l, --logo <src>              Logo under the public dir, URL or data: URI")
	fmt.Fprintln(w, "      --background <color>      Overlay background (default #ffffff)")
	fmt.Fprintln(w, "      --loader-background <c>   Loader color (default #0072f5)")
	fmt.Fprintln(w, "      --loader <kind>           Loader animation: line, dots, none")
	fmt.Fprintln(w, "      --min-duration <d>        Minimum visible time (e.g., 1500ms)")
	fmt.Fprintln(w, "      --public-dir <dir>        Logo lookup directory (default public)")
	fmt.Fprintln(w, "      --asset-path <dir>        Custom template directory")
	fmt.Fprintln(w, "      --strict                  Fail on pages without </head> or </body>")
	fmt.Fprintln(w)
}

// printCommonFlags prints the flags every command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show debug output and timings")
}

// printInjectUsage prints usage for the inject command.
func printInjectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash inject <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inject the splash screen into HTML pages.")
	fmt.Fprintln(w, "Pages that already carry the overlay are skipped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>            Output directory (default: rewrite in place)")
	fmt.Fprintln(w, "  -w, --workers <n>             Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -d, --diff                    Print a diff instead of writing files")
	fmt.Fprintln(w)
	printSplashFlags(w)
	printCommonFlags(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash check <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verify that pages carry exactly one overlay, that it is dismissed")
	fmt.Fprintln(w, "after the minimum duration and that ?gss=false suppresses it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                    Print reports as JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash preview <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load a page in headless Chrome and report the overlay state.")
	fmt.Fprintln(w, "Scripts, styles and images the page references load from its directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --timeout <d>             Page timeout (default 30s)")
	fmt.Fprintln(w, "      --root <dir>              Site root for /absolute asset paths")
	fmt.Fprintln(w, "      --suppress                Open the page with ?gss=false")
	fmt.Fprintln(w, "  -i, --inject                  Inject the splash screen first")
	fmt.Fprintln(w, "      --json                    Print the report as JSON")
	fmt.Fprintln(w)
	printSplashFlags(w)
	printCommonFlags(w)
}

// printShowUsage prints usage for the show command.
func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splash show [fragment]... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print generated fragments. Without arguments: style, markup, script.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fragments:")
	for _, f := range fragments {
		fmt.Fprintf(w, "  %-10s %s\n", f.name, f.desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --color <when>            Highlighting: auto, always, never")
	fmt.Fprintln(w)
	printSplashFlags(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "inject":
		printInjectUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "show":
		printShowUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: splash doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser availability, environment and templates.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: splash version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: splash help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
