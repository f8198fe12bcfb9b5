package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(run(os.Args, DefaultEnv()))
}

// run dispatches to a command and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "inject":
		err = runInjectCmd(ctx, rest, env)
	case "check":
		err = runCheckCmd(ctx, rest, env)
	case "preview":
		err = runPreviewCmd(ctx, rest, env)
	case "show":
		err = runShowCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "splash %s\n", Version)
	case "help", "-h", "--help":
		err = runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "error: unknown command %q\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}
