package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/config"
)

// Exit codes for the splash CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error, failed check
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, splash.ErrBrowserConnect) ||
		errors.Is(err, splash.ErrPageCreate) ||
		errors.Is(err, splash.ErrPageLoad) ||
		errors.Is(err, splash.ErrPageEval) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadHTML) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoHTMLFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, splash.ErrLogoRequired) ||
		errors.Is(err, splash.ErrInvalidLoaderKind) ||
		errors.Is(err, splash.ErrInvalidMinDuration) ||
		errors.Is(err, splash.ErrInvalidColor) ||
		errors.Is(err, splash.ErrMissingHeadTag) ||
		errors.Is(err, splash.ErrMissingBodyTag) ||
		errors.Is(err, splash.ErrTemplateNotFound) ||
		errors.Is(err, splash.ErrIncompleteTemplate) ||
		errors.Is(err, splash.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownFragment) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
