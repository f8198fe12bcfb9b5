package splash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-splash/internal/assets"
	"github.com/alnah/go-splash/internal/ctxlog"
	"github.com/alnah/go-splash/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.StyleInjector    = (*pipeline.StyleInjection)(nil)
	_ pipeline.FragmentInjector = (*pipeline.FragmentInjection)(nil)
	_ ProcessAssetsHook         = (*Hooks)(nil)
	_ Compilation               = (*DirCompilation)(nil)
)

// Plugin injects the splash screen into HTML pages.
// Create with New. A Plugin is immutable and safe for concurrent use.
type Plugin struct {
	opts      Options
	cfg       pluginConfig
	templates *assets.TemplateSet

	// Fragments that do not depend on the page or the logo, built once.
	css    string
	loader string
	script string

	styleInjector    pipeline.StyleInjector
	fragmentInjector pipeline.FragmentInjector
}

// pluginConfig holds settings from functional options.
type pluginConfig struct {
	logger       *slog.Logger
	assetPath    string
	workDir      string
	fadeDuration time.Duration
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger for warnings such as a missing logo.
// Without it the plugin logs to the logger carried by the context, if any.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		p.cfg.logger = logger
	}
}

// WithAssetPath overrides the embedded templates with files under dir.
func WithAssetPath(dir string) Option {
	return func(p *Plugin) {
		p.cfg.assetPath = dir
	}
}

// WithWorkingDir sets the directory the logo fallbacks resolve against
// (default: the process working directory at New).
func WithWorkingDir(dir string) Option {
	return func(p *Plugin) {
		p.cfg.workDir = dir
	}
}

// WithFadeDuration sets the fade-out animation length.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithFadeDuration(d time.Duration) Option {
	if d < 0 {
		panic("splash: WithFadeDuration duration must not be negative")
	}
	return func(p *Plugin) {
		p.cfg.fadeDuration = d
	}
}

// New validates opts, loads the templates and prepares the fixed fragments.
func New(opts Options, options ...Option) (*Plugin, error) {
	opts = opts.withDefaults()

	kind, err := ParseLoaderKind(string(opts.LoaderKind))
	if err != nil {
		return nil, err
	}
	opts.LoaderKind = kind

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Plugin{
		opts:             opts,
		cfg:              pluginConfig{fadeDuration: DefaultFadeDuration},
		styleInjector:    &pipeline.StyleInjection{},
		fragmentInjector: &pipeline.FragmentInjection{},
	}
	for _, opt := range options {
		opt(p)
	}

	if p.cfg.workDir == "" {
		if p.cfg.workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
	}

	if p.templates, err = loadTemplates(p.cfg.assetPath); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	lt := p.templates.Loader(string(kind))
	p.css = buildCSS(p.templates.Base, lt.CSS, opts.SplashBackground, opts.LoaderBackground)
	p.loader = lt.HTML

	if p.script, err = renderInlineScript(p.templates.Inline, opts.MinDuration, p.cfg.fadeDuration); err != nil {
		return nil, err
	}

	return p, nil
}

// Options returns the effective options, defaults included.
func (p *Plugin) Options() Options {
	return p.opts
}

// Transform injects the splash style block before the first </head> and the
// overlay markup plus inline script before the first </body>. Tags match
// case-insensitively.
//
// A missing tag skips that insertion. In strict mode it fails with
// ErrMissingHeadTag or ErrMissingBodyTag and the input is returned unchanged.
// On error the input is always returned unchanged.
func (p *Plugin) Transform(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return htmlContent, err
	}

	if p.opts.Strict {
		if err := p.Check(htmlContent); err != nil {
			return htmlContent, err
		}
	}

	logger := p.logger(ctx)

	out, ok := p.styleInjector.InjectStyle(ctx, htmlContent, StyleID, p.css)
	if !ok && ctx.Err() == nil {
		logger.Warn("no </head> in page, splash styles not injected")
	}

	logo := p.resolveLogo(logger)
	fragment := buildMarkup(logo, p.loader) + p.script

	out, ok = p.fragmentInjector.InjectFragment(ctx, out, fragment)
	if !ok && ctx.Err() == nil {
		logger.Warn("no </body> in page, splash overlay not injected")
	}

	if err := ctx.Err(); err != nil {
		return htmlContent, err
	}
	return out, nil
}

// Check reports which of </head> and </body> the page lacks, joined.
// Returns nil when both are present.
func (p *Plugin) Check(htmlContent string) error {
	var errs []error
	if !pipeline.HasTag(htmlContent, pipeline.HeadClose) {
		errs = append(errs, ErrMissingHeadTag)
	}
	if !pipeline.HasTag(htmlContent, pipeline.BodyClose) {
		errs = append(errs, ErrMissingBodyTag)
	}
	return errors.Join(errs...)
}

// Style returns the CSS injected inside <style id="gss-style">.
func (p *Plugin) Style() string {
	return p.css
}

// Markup returns the overlay markup with the logo resolved now.
func (p *Plugin) Markup(ctx context.Context) string {
	return buildMarkup(p.resolveLogo(p.logger(ctx)), p.loader)
}

// Script returns the inline <script> element.
func (p *Plugin) Script() string {
	return p.script
}

// RuntimeModule returns the browser dismissal runtime, honoring WithAssetPath.
func (p *Plugin) RuntimeModule() string {
	return p.templates.Runtime
}

func (p *Plugin) logger(ctx context.Context) *slog.Logger {
	if p.cfg.logger != nil {
		return p.cfg.logger
	}
	return ctxlog.FromContext(ctx)
}

// buildCSS substitutes the color markers in the base and loader styles.
func buildCSS(base, loaderCSS, splashBg, loaderBg string) string {
	css := strings.ReplaceAll(base, assets.MarkerSplashBackground, splashBg)
	css = strings.ReplaceAll(css, assets.MarkerLoaderBackground, loaderBg)
	if loaderCSS == "" {
		return css
	}
	return css + "\n" + strings.ReplaceAll(loaderCSS, assets.MarkerLoaderBackground, loaderBg)
}

// buildMarkup assembles the overlay element.
func buildMarkup(logo, loader string) string {
	var b strings.Builder
	b.Grow(len(logo) + len(loader) + 64)
	b.WriteString(`<div id="`)
	b.WriteString(OverlayID)
	b.WriteString(`"><div class="gss-logo">`)
	b.WriteString(logo)
	b.WriteString(`</div>`)
	b.WriteString(loader)
	b.WriteString(`</div>`)
	return b.String()
}

// inlineScriptData feeds the inline script template.
type inlineScriptData struct {
	ID            string
	Global        string
	MinDurationMs int64
	FadeMs        int64
}

// renderInlineScript executes the inline script template and wraps the result
// in a <script> element. "</script" inside the body is escaped so a custom
// template cannot terminate the element early.
func renderInlineScript(source string, minDuration, fade time.Duration) (string, error) {
	tmpl, err := template.New("inline").Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("parsing inline script: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, inlineScriptData{
		ID:            OverlayID,
		Global:        GlobalObject,
		MinDurationMs: minDuration.Milliseconds(),
		FadeMs:        fade.Milliseconds(),
	})
	if err != nil {
		return "", fmt.Errorf("rendering inline script: %w", err)
	}

	return "<script>" + strings.ReplaceAll(buf.String(), "</script", `<\/script`) + "</script>", nil
}
