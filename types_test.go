package splash

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParseLoaderKind
// ---------------------------------------------------------------------------

func TestParseLoaderKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    LoaderKind
		wantErr error
	}{
		{input: "", want: LoaderLine},
		{input: "line", want: LoaderLine},
		{input: " Dots ", want: LoaderDots},
		{input: "NONE", want: LoaderNone},
		{input: "spinner", wantErr: ErrInvalidLoaderKind},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLoaderKind(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseLoaderKind(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLoaderKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOptions_Validate
// ---------------------------------------------------------------------------

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	valid := Options{LogoSrc: "logo.svg"}.withDefaults()

	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr error
	}{
		{name: "defaults", modify: func(*Options) {}},
		{name: "missing logo", modify: func(o *Options) { o.LogoSrc = "" }, wantErr: ErrLogoRequired},
		{name: "unknown loader", modify: func(o *Options) { o.LoaderKind = "bars" }, wantErr: ErrInvalidLoaderKind},
		{name: "negative duration", modify: func(o *Options) { o.MinDuration = -time.Millisecond }, wantErr: ErrInvalidMinDuration},
		{name: "zero duration", modify: func(o *Options) { o.MinDuration = 0 }},
		{name: "color too long", modify: func(o *Options) { o.SplashBackground = strings.Repeat("f", MaxColorLength+1) }, wantErr: ErrInvalidColor},
		{name: "color breaks declaration", modify: func(o *Options) { o.LoaderBackground = "red;} body{display:none" }, wantErr: ErrInvalidColor},
		{name: "color closes style", modify: func(o *Options) { o.SplashBackground = "</style>" }, wantErr: ErrInvalidColor},
		{name: "functional color", modify: func(o *Options) { o.SplashBackground = "rgb(0 114 245 / 80%)" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := valid
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	got := Options{LogoSrc: "  logo.svg  "}.withDefaults()

	if got.LogoSrc != "logo.svg" {
		t.Errorf("LogoSrc = %q, want trimmed", got.LogoSrc)
	}
	if got.SplashBackground != DefaultSplashBackground {
		t.Errorf("SplashBackground = %q, want %q", got.SplashBackground, DefaultSplashBackground)
	}
	if got.LoaderBackground != DefaultLoaderBackground {
		t.Errorf("LoaderBackground = %q, want %q", got.LoaderBackground, DefaultLoaderBackground)
	}
	if got.PublicDir != DefaultPublicDir {
		t.Errorf("PublicDir = %q, want %q", got.PublicDir, DefaultPublicDir)
	}
}
