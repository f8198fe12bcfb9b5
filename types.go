package splash

import (
	"fmt"
	"strings"
	"time"
)

// Fixed identifiers shared by the generated markup, the inline script and
// both runtimes.
const (
	OverlayID    = "gss"
	StyleID      = OverlayID + "-style"
	QueryParam   = OverlayID
	GlobalObject = "__GSS__"
)

// Defaults applied by New.
const (
	DefaultSplashBackground = "#ffffff"
	DefaultLoaderBackground = "#0072f5"
	DefaultPublicDir        = "public"
	DefaultFadeDuration     = 200 * time.Millisecond
)

// MaxColorLength bounds color values. CSS colors fit easily.
const MaxColorLength = 64

// LoaderKind selects the loader animation shown under the logo.
type LoaderKind string

// Available loader kinds.
const (
	LoaderLine LoaderKind = "line"
	LoaderDots LoaderKind = "dots"
	LoaderNone LoaderKind = "none"
)

// LoaderKinds lists every accepted loader kind.
var LoaderKinds = []LoaderKind{LoaderLine, LoaderDots, LoaderNone}

// ParseLoaderKind converts a case-insensitive name. Empty means LoaderLine.
func ParseLoaderKind(s string) (LoaderKind, error) {
	switch k := LoaderKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return LoaderLine, nil
	case LoaderLine, LoaderDots, LoaderNone:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLoaderKind, s)
	}
}

// Options configures the splash screen. Zero values take the defaults.
type Options struct {
	// LogoSrc is a file path relative to PublicDir, an http(s) URL or a
	// data: URI. Required.
	LogoSrc string

	SplashBackground string     // Overlay background color (default #ffffff)
	LoaderBackground string     // Loader color (default #0072f5)
	LoaderKind       LoaderKind // line, dots or none (default line)

	// MinDuration is the minimum time the overlay stays visible after it
	// was rendered, even if dismissal is requested earlier.
	MinDuration time.Duration

	PublicDir string // Logo lookup root (default "public")

	// Strict makes Transform fail on pages without </head> or </body>
	// instead of skipping the missing insertion.
	Strict bool
}

// withDefaults returns a copy with defaults filled in.
func (o Options) withDefaults() Options {
	o.LogoSrc = strings.TrimSpace(o.LogoSrc)
	o.SplashBackground = strings.TrimSpace(o.SplashBackground)
	o.LoaderBackground = strings.TrimSpace(o.LoaderBackground)
	if o.SplashBackground == "" {
		o.SplashBackground = DefaultSplashBackground
	}
	if o.LoaderBackground == "" {
		o.LoaderBackground = DefaultLoaderBackground
	}
	if o.PublicDir == "" {
		o.PublicDir = DefaultPublicDir
	}
	return o
}

// Validate reports the first configuration error. It expects defaults to
// have been applied already.
func (o Options) Validate() error {
	if o.LogoSrc == "" {
		return ErrLogoRequired
	}
	if _, err := ParseLoaderKind(string(o.LoaderKind)); err != nil {
		return err
	}
	if o.MinDuration < 0 {
		return fmt.Errorf("%w: %s (must not be negative)", ErrInvalidMinDuration, o.MinDuration)
	}
	if err := validateColor("splash background", o.SplashBackground); err != nil {
		return err
	}
	return validateColor("loader background", o.LoaderBackground)
}

// validateColor rejects values that could break out of a CSS declaration.
// Syntax is not checked further; browsers ignore invalid colors.
func validateColor(field, value string) error {
	if len(value) > MaxColorLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrInvalidColor, field, len(value), MaxColorLength)
	}
	if strings.ContainsAny(value, "{};<>\\\n\r") {
		return fmt.Errorf("%w: %s %q", ErrInvalidColor, field, value)
	}
	return nil
}
