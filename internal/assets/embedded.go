package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed styles/*
var styles embed.FS

//go:embed loaders/*
var loaders embed.FS

//go:embed scripts/*
var scripts embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadLoader loads the CSS and HTML templates of a loader kind.
func (e *EmbeddedLoader) LoadLoader(kind string) (*LoaderTemplate, error) {
	if err := ValidateAssetName(kind); err != nil {
		return nil, err
	}

	css, cssErr := loaders.ReadFile("loaders/" + kind + ".css")
	markup, htmlErr := loaders.ReadFile("loaders/" + kind + ".html")

	return assembleLoader(kind, css, markup, cssErr, htmlErr)
}

// LoadScript loads a JavaScript asset from embedded assets by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := scripts.ReadFile("scripts/" + name + ".js")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
	}

	return string(content), nil
}

// ScriptsFS exposes the embedded scripts directory.
func ScriptsFS() fs.FS {
	sub, err := fs.Sub(scripts, "scripts")
	if err != nil {
		return scripts
	}
	return sub
}

// assembleLoader turns the results of reading both loader halves into a
// LoaderTemplate, classifying missing files the same way for every loader.
func assembleLoader(kind string, css, markup []byte, cssErr, htmlErr error) (*LoaderTemplate, error) {
	cssMissing := isNotExist(cssErr)
	htmlMissing := isNotExist(htmlErr)

	if cssMissing && htmlMissing {
		return nil, fmt.Errorf("%w: %q", ErrLoaderNotFound, kind)
	}
	if cssErr != nil && !cssMissing {
		return nil, fmt.Errorf("%w: reading %s.css: %v", ErrAssetRead, kind, cssErr)
	}
	if htmlErr != nil && !htmlMissing {
		return nil, fmt.Errorf("%w: reading %s.html: %v", ErrAssetRead, kind, htmlErr)
	}
	if cssMissing {
		return nil, fmt.Errorf("%w: %q missing %s.css", ErrIncompleteLoader, kind, kind)
	}
	if htmlMissing {
		return nil, fmt.Errorf("%w: %q missing %s.html", ErrIncompleteLoader, kind, kind)
	}

	return &LoaderTemplate{
		Kind: kind,
		CSS:  string(css),
		HTML: strings.TrimSpace(string(markup)),
	}, nil
}

// isNotExist reports whether err means the file is absent, for both
// embed.FS and os reads.
func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
