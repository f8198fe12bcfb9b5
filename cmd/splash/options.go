package main

import (
	"errors"
	"fmt"
	"log/slog"

	splash "github.com/alnah/go-splash"
	"github.com/alnah/go-splash/internal/config"
	"github.com/alnah/go-splash/internal/hints"
)

// resolveConfig loads the config file named by --config or SPLASH_CONFIG,
// then overlays environment variables and flags.
func resolveConfig(common commonFlags, sf *splashFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	if sf != nil {
		mergeSplashFlags(sf, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeSplashFlags merges CLI flags into config. CLI values override config values.
func mergeSplashFlags(f *splashFlags, cfg *config.Config) {
	setIf(&cfg.Splash.Logo, f.logo)
	setIf(&cfg.Splash.SplashBackground, f.splashBackground)
	setIf(&cfg.Splash.LoaderBackground, f.loaderBackground)
	setIf(&cfg.Splash.Loader, f.loader)
	setIf(&cfg.Splash.MinDuration, f.minDuration)
	setIf(&cfg.Splash.PublicDir, f.publicDir)
	setIf(&cfg.Assets.BasePath, f.assetPath)
	if f.strict {
		cfg.Splash.Strict = true
	}
}

// pluginOptions converts the resolved config to plugin options.
func pluginOptions(cfg *config.Config) (splash.Options, error) {
	minDuration, err := cfg.MinDurationValue()
	if err != nil {
		return splash.Options{}, err
	}
	kind, err := splash.ParseLoaderKind(cfg.Splash.Loader)
	if err != nil {
		return splash.Options{}, fmt.Errorf("%w%s", err, hints.ForLoaderKind(loaderNames()))
	}
	return splash.Options{
		LogoSrc:          cfg.Splash.Logo,
		SplashBackground: cfg.Splash.SplashBackground,
		LoaderBackground: cfg.Splash.LoaderBackground,
		LoaderKind:       kind,
		MinDuration:      minDuration,
		PublicDir:        cfg.Splash.PublicDir,
		Strict:           cfg.Splash.Strict,
	}, nil
}

// newPlugin builds the plugin from the resolved config.
func newPlugin(cfg *config.Config, logger *slog.Logger) (*splash.Plugin, error) {
	opts, err := pluginOptions(cfg)
	if err != nil {
		return nil, err
	}

	options := []splash.Option{splash.WithLogger(logger)}
	if cfg.Assets.BasePath != "" {
		options = append(options, splash.WithAssetPath(cfg.Assets.BasePath))
	}

	p, err := splash.New(opts, options...)
	if err != nil {
		if errors.Is(err, splash.ErrLogoRequired) {
			return nil, fmt.Errorf("%w%s", err, hints.ForLogoNotFound(nil))
		}
		return nil, err
	}
	return p, nil
}

func loaderNames() []string {
	names := make([]string, len(splash.LoaderKinds))
	for i, k := range splash.LoaderKinds {
		names[i] = string(k)
	}
	return names
}
