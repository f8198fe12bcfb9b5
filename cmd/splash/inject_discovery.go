package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-splash/internal/config"
	"github.com/alnah/go-splash/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoHTMLFiles        = errors.New("no HTML files found")
	ErrInvalidExtension   = errors.New("file must have .html extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// MaxWorkers bounds --workers.
const MaxWorkers = 64

// FileToInject represents a single page to process.
type FileToInject struct {
	InputPath  string
	OutputPath string
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// discoverFiles finds all HTML pages under inputPath.
func discoverFiles(inputPath, outputDir string) ([]FileToInject, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsHTML(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToInject{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var files []FileToInject
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			// Never descend into the output directory of a previous run.
			if outputDir != "" && path != inputPath && samePath(path, outputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsHTML(path) {
			return nil
		}
		files = append(files, FileToInject{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})

	return files, err
}

// resolveOutputPath determines where the processed page is written.
// Without an output directory pages are rewritten in place.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return inputPath
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, relPath)
		}
	}

	return filepath.Join(outputDir, filepath.Base(inputPath))
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

// samePath compares two paths after making them absolute.
func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
