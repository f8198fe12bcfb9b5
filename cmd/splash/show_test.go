package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunShowCmd - Fragment printing
// ---------------------------------------------------------------------------

func TestRunShowCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     []string
		dontWant []string
	}{
		{
			name: "default fragments",
			args: []string{"--logo", testLogo, "--background", "#101010"},
			want: []string{
				"# style: ", "# markup: ", "# script: ",
				"--gss-bg-splash: #101010;",
				`<div id="gss">`,
				"window.__GSS__",
			},
			dontWant: []string{"# runtime: "},
		},
		{
			name:     "runtime needs no logo",
			args:     []string{"runtime"},
			want:     []string{"export async function hideSplashScreen"},
			dontWant: []string{"# runtime: "},
		},
		{
			name: "effective config",
			args: []string{"config", "--loader", "dots", "--min-duration", "2s"},
			want: []string{"loader: dots", "minDuration: 2s"},
		},
		{
			name:     "fragment names are case-insensitive",
			args:     []string{"STYLE", "-l", testLogo, "--loader", "none"},
			want:     []string{"#gss"},
			dontWant: []string{"gss-loader-line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(t)
			args := append([]string{"--color", "never"}, tt.args...)
			if err := runShowCmd(t.Context(), args, env); err != nil {
				t.Fatalf("runShowCmd: %v", err)
			}
			out := stdout.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, bad := range tt.dontWant {
				if strings.Contains(out, bad) {
					t.Errorf("output should not contain %q", bad)
				}
			}
		})
	}
}

func TestRunShowCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown fragment", []string{"footer"}, ErrUnknownFragment},
		{"style without logo", []string{"style"}, splash.ErrLogoRequired},
		{"bad color mode", []string{"--color", "rainbow", "runtime"}, ErrUsage},
		{"bad loader", []string{"--loader", "spinner", "config"}, config.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(t)
			err := runShowCmd(t.Context(), tt.args, env)
			if exitCodeFor(err) != ExitUsage {
				t.Errorf("exit code for %v = %d, want %d", err, exitCodeFor(err), ExitUsage)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteSource - Highlighting
// ---------------------------------------------------------------------------

func TestWriteSource(t *testing.T) {
	t.Parallel()

	t.Run("plain adds a trailing newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeSource(&buf, "a{}", "css", false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "a{}\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("color emits escape sequences", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeSource(&buf, "#gss { color: red; }", "css", true); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\x1b[") {
			t.Errorf("expected ANSI escapes, got %q", buf.String())
		}
	})
}

func TestResolveColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tests := []struct {
		mode    string
		want    bool
		wantErr bool
	}{
		{"auto", false, false}, // a buffer is not a terminal
		{"", false, false},
		{"always", true, false},
		{"NEVER", false, false},
		{"sometimes", false, true},
	}

	for _, tt := range tests {
		got, err := resolveColor(tt.mode, &buf)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveColor(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("resolveColor(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
