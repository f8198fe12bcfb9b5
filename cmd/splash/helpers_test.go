package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testLogo is an inline logo so tests never depend on the working directory.
const testLogo = "data:image/svg+xml,%3Csvg/%3E"

// samplePage is a minimal page with both insertion points.
const samplePage = "<!DOCTYPE html>\n<html>\n<head>\n<title>t</title>\n</head>\n<body>\n<p>hi</p>\n</body>\n</html>\n"

// testEnv returns an Environment writing to buffers, with a fixed clock.
func testEnv(t *testing.T) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := &Environment{
		Now:    func() time.Time { return fixed },
		Stdout: stdout,
		Stderr: stderr,
		NewPreviewer: func(time.Duration) PagePreviewer {
			t.Fatal("unexpected browser launch")
			return nil
		},
	}
	return env, stdout, stderr
}

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
