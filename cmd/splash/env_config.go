package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-splash/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath  string        // SPLASH_CONFIG: config file name or path
	Logo        string        // SPLASH_LOGO: logo path, URL or data: URI
	Loader      string        // SPLASH_LOADER: line, dots, none
	MinDuration string        // SPLASH_MIN_DURATION: e.g. 1500ms
	Timeout     time.Duration // SPLASH_TIMEOUT: preview timeout

	// Tier 2 - I/O
	PublicDir string // SPLASH_PUBLIC_DIR: logo lookup root
	OutputDir string // SPLASH_OUTPUT_DIR: default output directory
	AssetPath string // SPLASH_ASSET_PATH: template override directory
	Workers   int    // SPLASH_WORKERS: parallel workers

	// Tier 3 - Colors
	SplashBackground string // SPLASH_BACKGROUND: overlay background
	LoaderBackground string // SPLASH_LOADER_BACKGROUND: loader color
}

// knownEnvVars lists valid SPLASH_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"SPLASH_CONFIG":       true,
	"SPLASH_LOGO":         true,
	"SPLASH_LOADER":       true,
	"SPLASH_MIN_DURATION": true,
	"SPLASH_TIMEOUT":      true,
	// Tier 2 - I/O
	"SPLASH_PUBLIC_DIR": true,
	"SPLASH_OUTPUT_DIR": true,
	"SPLASH_ASSET_PATH": true,
	"SPLASH_WORKERS":    true,
	// Tier 3 - Colors
	"SPLASH_BACKGROUND":        true,
	"SPLASH_LOADER_BACKGROUND": true,
	// Read by doctor
	"SPLASH_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath:  os.Getenv("SPLASH_CONFIG"),
		Logo:        os.Getenv("SPLASH_LOGO"),
		Loader:      os.Getenv("SPLASH_LOADER"),
		MinDuration: os.Getenv("SPLASH_MIN_DURATION"),
		// Tier 2
		PublicDir: os.Getenv("SPLASH_PUBLIC_DIR"),
		OutputDir: os.Getenv("SPLASH_OUTPUT_DIR"),
		AssetPath: os.Getenv("SPLASH_ASSET_PATH"),
		// Tier 3
		SplashBackground: os.Getenv("SPLASH_BACKGROUND"),
		LoaderBackground: os.Getenv("SPLASH_LOADER_BACKGROUND"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("SPLASH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("SPLASH_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized SPLASH_* variables.
// Helps catch typos like SPLASH_LOADR instead of SPLASH_LOADER.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "SPLASH_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment variables on cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeSplashFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Splash.Logo, env.Logo)
	setIf(&cfg.Splash.Loader, env.Loader)
	setIf(&cfg.Splash.MinDuration, env.MinDuration)
	setIf(&cfg.Splash.PublicDir, env.PublicDir)
	setIf(&cfg.Splash.SplashBackground, env.SplashBackground)
	setIf(&cfg.Splash.LoaderBackground, env.LoaderBackground)
	setIf(&cfg.Output.DefaultDir, env.OutputDir)
	setIf(&cfg.Assets.BasePath, env.AssetPath)
}

// setIf assigns value to dst when value is non-empty.
func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
