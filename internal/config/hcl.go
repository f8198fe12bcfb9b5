package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the decoding shape of an .hcl config. Every block is optional.
//
//	splash {
//	  logo         = "logo.svg"
//	  loader       = "dots"
//	  min_duration = "1500ms"
//	}
type hclFile struct {
	Splash *hclSplash `hcl:"splash,block"`
	Input  *hclDir    `hcl:"input,block"`
	Output *hclDir    `hcl:"output,block"`
	Assets *hclAssets `hcl:"assets,block"`
}

type hclSplash struct {
	Logo             *string `hcl:"logo,optional"`
	SplashBackground *string `hcl:"splash_background,optional"`
	LoaderBackground *string `hcl:"loader_background,optional"`
	Loader           *string `hcl:"loader,optional"`
	MinDuration      *string `hcl:"min_duration,optional"`
	PublicDir        *string `hcl:"public_dir,optional"`
	Strict           *bool   `hcl:"strict,optional"`
}

type hclDir struct {
	DefaultDir *string `hcl:"default_dir,optional"`
}

type hclAssets struct {
	BasePath *string `hcl:"base_path,optional"`
}

// decodeHCL parses data as native HCL syntax. Unknown blocks and attributes
// are reported by gohcl, matching the strict YAML behavior.
func decodeHCL(path string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, diags)
	}

	cfg := &Config{}
	if s := raw.Splash; s != nil {
		setString(&cfg.Splash.Logo, s.Logo)
		setString(&cfg.Splash.SplashBackground, s.SplashBackground)
		setString(&cfg.Splash.LoaderBackground, s.LoaderBackground)
		setString(&cfg.Splash.Loader, s.Loader)
		setString(&cfg.Splash.MinDuration, s.MinDuration)
		setString(&cfg.Splash.PublicDir, s.PublicDir)
		if s.Strict != nil {
			cfg.Splash.Strict = *s.Strict
		}
	}
	if raw.Input != nil {
		setString(&cfg.Input.DefaultDir, raw.Input.DefaultDir)
	}
	if raw.Output != nil {
		setString(&cfg.Output.DefaultDir, raw.Output.DefaultDir)
	}
	if raw.Assets != nil {
		setString(&cfg.Assets.BasePath, raw.Assets.BasePath)
	}
	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
