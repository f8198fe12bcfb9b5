// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-splash/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a well-known CI environment variable is set.
func InCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for browser connection errors.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the preview timeout.
func ForTimeout() string {
	return format("for slow pages or long --min-duration, use --timeout flag")
}

// ForConfigNotFound suggests --config or the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/splash.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(slashPath(p), ".config/go-splash") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForLogoNotFound lists where the logo was looked up.
func ForLogoNotFound(tried []string) string {
	if len(tried) == 0 {
		return format("set --logo to a file under --public-dir, a URL or a data: URI")
	}
	return format("looked in " + strings.Join(tried, ", ") + "; adjust --public-dir or --logo")
}

// ForMissingTags explains the strict-mode failure on fragments without </head> or </body>.
func ForMissingTags() string {
	return format("page needs </head> and </body>; drop --strict to skip such pages")
}

// ForLoaderKind lists the accepted loader kinds.
func ForLoaderKind(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// slashPath normalizes separators so Windows paths match the same needle.
func slashPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
