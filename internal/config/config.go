// Package config loads CLI configuration files in YAML or HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-splash/internal/fileutil"
	"github.com/alnah/go-splash/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxLogoLength     = 64 << 10 // inline data: URIs are allowed
	MaxColorLength    = 64       // "#0072f5", "rgb(0 114 245 / 80%)"
	MaxPathLength     = 4096     // PATH_MAX on Linux
	MaxDurationLength = 32       // "1500ms", "2s"
)

// MaxMinDuration bounds the splash minimum duration. Longer values are almost
// certainly a unit mistake (ms vs s).
const MaxMinDuration = time.Minute

// Extensions tried, in order, when a config is given by name.
var Extensions = []string{".yaml", ".yml", ".hcl"}

// Config holds all CLI configuration.
type Config struct {
	Splash SplashConfig `yaml:"splash"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Assets AssetsConfig `yaml:"assets"`
}

// SplashConfig mirrors the plugin options.
type SplashConfig struct {
	Logo             string `yaml:"logo"`
	SplashBackground string `yaml:"splashBackground"`
	LoaderBackground string `yaml:"loaderBackground"`
	Loader           string `yaml:"loader"`      // "line", "dots", "none"
	MinDuration      string `yaml:"minDuration"` // Go duration, e.g. "1500ms"
	PublicDir        string `yaml:"publicDir"`
	Strict           bool   `yaml:"strict"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when inject gets no argument
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = rewrite in place
}

// AssetsConfig defines template override options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded templates
}

// MinDurationValue parses Splash.MinDuration. Empty means zero.
func (c *Config) MinDurationValue() (time.Duration, error) {
	if c.Splash.MinDuration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Splash.MinDuration)
	if err != nil {
		return 0, fmt.Errorf("%w: splash.minDuration: %v", ErrInvalidValue, err)
	}
	return d, nil
}

// Validate checks field lengths and value ranges. Called by LoadConfig, but
// available for callers who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"splash.logo", c.Splash.Logo, MaxLogoLength},
		{"splash.splashBackground", c.Splash.SplashBackground, MaxColorLength},
		{"splash.loaderBackground", c.Splash.LoaderBackground, MaxColorLength},
		{"splash.minDuration", c.Splash.MinDuration, MaxDurationLength},
		{"splash.publicDir", c.Splash.PublicDir, MaxPathLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Splash.Loader) {
	case "", "line", "dots", "none":
	default:
		return fmt.Errorf("%w: splash.loader: %q (must be line, dots, or none)", ErrInvalidValue, c.Splash.Loader)
	}

	d, err := c.MinDurationValue()
	if err != nil {
		return err
	}
	if d < 0 || d > MaxMinDuration {
		return fmt.Errorf("%w: splash.minDuration: must be between 0 and %s, got %s", ErrInvalidValue, MaxMinDuration, d)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration; plugin defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator or ending in a known extension is a
// file path. Anything else is a name searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := decode(configPath, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode dispatches on the file extension.
func decode(path string, data []byte) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return decodeHCL(path, data)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &cfg, nil
}

func isFilePath(s string) bool {
	if strings.ContainsAny(s, "/\\") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// SearchPaths lists, in lookup order, where a config named name may live:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(Extensions)*2)
	for _, ext := range Extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range Extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-splash", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
