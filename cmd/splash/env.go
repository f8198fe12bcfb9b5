package main

import (
	"context"
	"io"
	"os"
	"time"

	splash "github.com/alnah/go-splash"
)

// PagePreviewer is the browser preview the preview command drives.
type PagePreviewer interface {
	Preview(ctx context.Context, html string, opts splash.PreviewOptions) (*splash.PreviewReport, error)
	Close() error
}

// Compile-time interface implementation check.
var _ PagePreviewer = (*splash.Previewer)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and the browser factory.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	NewPreviewer func(timeout time.Duration) PagePreviewer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPreviewer: func(timeout time.Duration) PagePreviewer {
			return splash.NewPreviewer(timeout)
		},
	}
}

// isTerminal reports whether w is a character device such as a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
