package main

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Usage: splash <command> [flags] [args]"},
		{[]string{"inject"}, "Usage: splash inject <input> [flags]"},
		{[]string{"check"}, "Usage: splash check <file>... [flags]"},
		{[]string{"preview"}, "--suppress"},
		{[]string{"show"}, "runtime    browser dismissal module"},
		{[]string{"completion"}, "Supported shells:"},
		{[]string{"doctor"}, "Usage: splash doctor [--json]"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(t)
			if err := runHelp(tt.args, env); err != nil {
				t.Fatalf("runHelp: %v", err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("help missing %q:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(t)
	err := runHelp([]string{"convert"}, env)
	if !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
	if !strings.Contains(stderr.String(), "Commands:") {
		t.Errorf("usage not printed to stderr: %q", stderr.String())
	}
}

// Every flag a FlagSet registers must appear in the hand-written usage.
func TestUsage_ListsEveryFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
		usage string
	}{
		{"inject", flagNames(extractFlagsFromFlagSet(newInjectFlagSet(&injectFlags{}))), usageOf(printInjectUsage)},
		{"check", flagNames(extractFlagsFromFlagSet(newCheckFlagSet(&checkFlags{}))), usageOf(printCheckUsage)},
		{"preview", flagNames(extractFlagsFromFlagSet(newPreviewFlagSet(&previewFlags{}))), usageOf(printPreviewUsage)},
		{"show", flagNames(extractFlagsFromFlagSet(newShowFlagSet(&showFlags{}))), usageOf(printShowUsage)},
	}

	for _, tt := range tests {
		for _, name := range tt.names {
			if !strings.Contains(tt.usage, "--"+name+" ") {
				t.Errorf("%s usage does not document --%s", tt.name, name)
			}
		}
	}
}

func flagNames(defs []flagDef) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Long
	}
	return names
}

func usageOf(print func(io.Writer)) string {
	var b strings.Builder
	print(&b)
	return b.String()
}
