package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/config"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Page discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("directory tree with output dir inside", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "index.html"), samplePage)
		writeFile(t, filepath.Join(dir, "docs", "guide.HTM"), samplePage)
		writeFile(t, filepath.Join(dir, "app.js"), "console.log(1)")
		writeFile(t, filepath.Join(dir, "dist", "index.html"), samplePage)

		out := filepath.Join(dir, "dist")
		files, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("discoverFiles: %v", err)
		}

		want := []FileToInject{
			{InputPath: filepath.Join(dir, "docs", "guide.HTM"), OutputPath: filepath.Join(out, "docs", "guide.HTM")},
			{InputPath: filepath.Join(dir, "index.html"), OutputPath: filepath.Join(out, "index.html")},
		}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single file in place", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, samplePage)

		files, err := discoverFiles(path, "")
		if err != nil {
			t.Fatalf("discoverFiles: %v", err)
		}
		want := []FileToInject{{InputPath: path, OutputPath: path}}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.md")
		writeFile(t, path, "# hi")

		if _, err := discoverFiles(path, ""); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "ghost"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath / TestResolveInputPath / TestValidateWorkers
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                      string
		input, outputDir, baseDir string
		want                      string
	}{
		{"in place", "site/a.html", "", "site", "site/a.html"},
		{"keeps relative path", "site/docs/a.html", "out", "site", filepath.Join("out", "docs", "a.html")},
		{"single file", "a.html", "out", "", filepath.Join("out", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(filepath.FromSlash(tt.input), tt.outputDir, filepath.FromSlash(tt.baseDir))
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Input: config.InputConfig{DefaultDir: "site"}}

	if got, _ := resolveInputPath([]string{"arg"}, cfg); got != "arg" {
		t.Errorf("argument should win, got %q", got)
	}
	if got, _ := resolveInputPath(nil, cfg); got != "site" {
		t.Errorf("config default expected, got %q", got)
	}
	if _, err := resolveInputPath(nil, &config.Config{}); !errors.Is(err, ErrNoInput) {
		t.Errorf("error = %v, want ErrNoInput", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, MaxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{-1, MaxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestInjectFile - Single page processing
// ---------------------------------------------------------------------------

// upperInjector is an Injector double that upper-cases the page.
type upperInjector struct{ err error }

func (u upperInjector) Transform(_ context.Context, html string) (string, error) {
	if u.err != nil {
		return html, u.err
	}
	return strings.ToUpper(html), nil
}

func TestInjectFile(t *testing.T) {
	t.Parallel()

	t.Run("rewrites in place keeping the mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, "<p>hi</p>")
		if err := os.Chmod(path, 0o600); err != nil {
			t.Fatal(err)
		}

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: path, OutputPath: path}, false)
		if r.Err != nil {
			t.Fatalf("injectFile: %v", r.Err)
		}
		if got := readFile(t, path); got != "<P>HI</P>" {
			t.Errorf("content = %q", got)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("writes under a new output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "page.html")
		out := filepath.Join(dir, "out", "nested", "page.html")
		writeFile(t, in, "<p>hi</p>")

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: in, OutputPath: out}, false)
		if r.Err != nil {
			t.Fatalf("injectFile: %v", r.Err)
		}
		if got := readFile(t, out); got != "<P>HI</P>" {
			t.Errorf("output = %q", got)
		}
		if got := readFile(t, in); got != "<p>hi</p>" {
			t.Errorf("input changed: %q", got)
		}
	})

	t.Run("diff mode leaves the file alone", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, "<p>hi</p>\n")

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: path, OutputPath: path}, true)
		if r.Err != nil {
			t.Fatalf("injectFile: %v", r.Err)
		}
		if !strings.Contains(r.Diff, "-<p>hi</p>\n+<P>HI</P>\n") {
			t.Errorf("diff = %q", r.Diff)
		}
		if got := readFile(t, path); got != "<p>hi</p>\n" {
			t.Errorf("file changed in diff mode: %q", got)
		}
	})

	t.Run("skips pages that carry the overlay", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, `<body><div id="gss"></div></body>`)

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: path, OutputPath: path}, false)
		if r.Err != nil || !r.Skipped {
			t.Errorf("result = %+v, want skipped", r)
		}
	})

	t.Run("copies skipped pages into the output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "page.html")
		out := filepath.Join(dir, "dist", "page.html")
		page := `<body><div id="gss"></div></body>`
		writeFile(t, in, page)

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: in, OutputPath: out}, false)
		if r.Err != nil || !r.Skipped {
			t.Fatalf("result = %+v, want skipped", r)
		}
		if got := readFile(t, out); got != page {
			t.Errorf("output = %q, want the page unchanged", got)
		}
	})

	t.Run("diff mode does not copy skipped pages", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "page.html")
		out := filepath.Join(dir, "dist", "page.html")
		writeFile(t, in, `<body><div id="gss"></div></body>`)

		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: in, OutputPath: out}, true)
		if r.Err != nil || !r.Skipped || r.Diff != "" {
			t.Fatalf("result = %+v, want skipped without diff", r)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Errorf("output should not exist in diff mode, stat err = %v", err)
		}
	})

	t.Run("missing tags get a hint", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, "<p>hi</p>")

		r := injectFile(t.Context(), upperInjector{err: splash.ErrMissingBodyTag}, FileToInject{InputPath: path, OutputPath: path}, false)
		if !errors.Is(r.Err, splash.ErrMissingBodyTag) {
			t.Fatalf("error = %v, want ErrMissingBodyTag", r.Err)
		}
		if !strings.Contains(r.Err.Error(), "hint:") {
			t.Errorf("error %q should carry a hint", r.Err)
		}
	})

	t.Run("unreadable input", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ghost.html")
		r := injectFile(t.Context(), upperInjector{}, FileToInject{InputPath: path, OutputPath: path}, false)
		if !errors.Is(r.Err, ErrReadHTML) {
			t.Errorf("error = %v, want ErrReadHTML", r.Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInjectBatch - Order and cancellation
// ---------------------------------------------------------------------------

func TestInjectBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToInject
	for _, name := range []string{"a.html", "b.html", "c.html", "d.html"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, name)
		files = append(files, FileToInject{InputPath: path, OutputPath: path})
	}

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		results := injectBatch(t.Context(), upperInjector{}, files, 3, true)
		for i, r := range results {
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			if r.Err != nil {
				t.Errorf("results[%d].Err = %v", i, r.Err)
			}
		}
	})

	t.Run("cancelled context skips every page", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		results := injectBatch(ctx, upperInjector{}, files, 2, true)
		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunInjectCmd - End-to-end command
// ---------------------------------------------------------------------------

func TestRunInjectCmd(t *testing.T) {
	t.Parallel()

	t.Run("in place then idempotent", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "index.html"), samplePage)
		writeFile(t, filepath.Join(dir, "about", "index.html"), samplePage)

		env, stdout, _ := testEnv(t)
		args := []string{dir, "--logo", testLogo, "--min-duration", "1500ms", "--loader", "dots"}
		if err := runInjectCmd(t.Context(), args, env); err != nil {
			t.Fatalf("first run: %v", err)
		}

		page := readFile(t, filepath.Join(dir, "index.html"))
		for _, want := range []string{`<style id="gss-style">`, `<div id="gss">`, "minDurationMs: 1500", "gss-loader-dots"} {
			if !strings.Contains(page, want) {
				t.Errorf("page missing %q", want)
			}
		}
		if !strings.Contains(stdout.String(), "2 injected, 0 skipped, 0 failed") {
			t.Errorf("summary missing in %q", stdout.String())
		}

		stdout.Reset()
		if err := runInjectCmd(t.Context(), args, env); err != nil {
			t.Fatalf("second run: %v", err)
		}
		if got := readFile(t, filepath.Join(dir, "index.html")); got != page {
			t.Error("second run changed an injected page")
		}
		if !strings.Contains(stdout.String(), "0 injected, 2 skipped, 0 failed") {
			t.Errorf("summary missing in %q", stdout.String())
		}
	})

	t.Run("output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "site")
		out := filepath.Join(dir, "dist")
		writeFile(t, filepath.Join(in, "index.html"), samplePage)

		env, _, _ := testEnv(t)
		if err := runInjectCmd(t.Context(), []string{in, "-o", out, "-l", testLogo, "-q"}, env); err != nil {
			t.Fatalf("runInjectCmd: %v", err)
		}
		if got := readFile(t, filepath.Join(in, "index.html")); got != samplePage {
			t.Error("input page changed")
		}
		if !strings.Contains(readFile(t, filepath.Join(out, "index.html")), `<div id="gss">`) {
			t.Error("output page lacks the overlay")
		}
	})

	t.Run("diff mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		writeFile(t, path, samplePage)

		env, stdout, _ := testEnv(t)
		if err := runInjectCmd(t.Context(), []string{path, "--diff", "--logo", testLogo}, env); err != nil {
			t.Fatalf("runInjectCmd: %v", err)
		}
		if got := readFile(t, path); got != samplePage {
			t.Error("diff mode wrote the page")
		}
		diff := stdout.String()
		for _, want := range []string{"--- a/", "+++ b/", "@@ -", "-</head>", "-</body>", `+<div id="gss">`} {
			if !strings.Contains(diff, want) {
				t.Errorf("diff missing %q:\n%s", want, diff)
			}
		}
	})

	t.Run("strict mode fails on fragments", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fragment.html")
		writeFile(t, path, "<p>partial</p>")

		env, _, stderr := testEnv(t)
		err := runInjectCmd(t.Context(), []string{path, "--strict", "--logo", testLogo}, env)
		if !errors.Is(err, splash.ErrMissingHeadTag) || !errors.Is(err, splash.ErrMissingBodyTag) {
			t.Fatalf("error = %v, want both missing tag errors", err)
		}
		if !strings.Contains(stderr.String(), "FAILED "+path) {
			t.Errorf("stderr = %q", stderr.String())
		}
		if got := readFile(t, path); got != "<p>partial</p>" {
			t.Errorf("page changed: %q", got)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		empty := t.TempDir()
		tests := []struct {
			name    string
			args    []string
			wantErr error
		}{
			{"no input", []string{"--logo", testLogo}, ErrNoInput},
			{"no pages", []string{empty, "--logo", testLogo}, ErrNoHTMLFiles},
			{"no logo", []string{empty}, splash.ErrLogoRequired},
			{"bad workers", []string{empty, "-w", "100", "--logo", testLogo}, ErrInvalidWorkerCount},
			{"unknown flag", []string{"--nope"}, ErrUsage},
		}
		for _, tt := range tests {
			env, _, _ := testEnv(t)
			if err := runInjectCmd(t.Context(), tt.args, env); !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestCountResults
// ---------------------------------------------------------------------------

func TestCountResults(t *testing.T) {
	t.Parallel()

	results := []InjectResult{{}, {Skipped: true}, {Err: errors.New("x")}, {}}
	want := ResultSummary{Succeeded: 2, Skipped: 1, Failed: 1}
	if got := countResults(results); got != want {
		t.Errorf("countResults() = %+v, want %+v", got, want)
	}
}
