package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "#gss { color: red; }", expected: "#gss { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "escapes script close", input: "</script>", expected: `<\/script>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectBefore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		tag      string
		fragment string
		expected string
		wantOK   bool
	}{
		{
			name:     "before </head>",
			html:     "<html><head></head><body></body></html>",
			tag:      HeadClose,
			fragment: "<style></style>",
			expected: "<html><head><style></style></head><body></body></html>",
			wantOK:   true,
		},
		{
			name:     "before </body>",
			html:     "<html><head></head><body>Hi</body></html>",
			tag:      BodyClose,
			fragment: "<div></div>",
			expected: "<html><head></head><body>Hi<div></div></body></html>",
			wantOK:   true,
		},
		{
			name:     "mixed case tag",
			html:     "<HTML><HEAD></HEAD></HTML>",
			tag:      HeadClose,
			fragment: "X",
			expected: "<HTML><HEAD>X</HEAD></HTML>",
			wantOK:   true,
		},
		{
			name:     "only first occurrence",
			html:     "<body></body><template></body></template>",
			tag:      BodyClose,
			fragment: "X",
			expected: "<body>X</body><template></body></template>",
			wantOK:   true,
		},
		{
			name:     "missing tag leaves input untouched",
			html:     "<p>fragment</p>",
			tag:      BodyClose,
			fragment: "X",
			expected: "<p>fragment</p>",
			wantOK:   false,
		},
		{
			name:     "non-ASCII before tag keeps offsets",
			html:     "<head><title>İstanbul ΣΑΣ</title></head>",
			tag:      HeadClose,
			fragment: "X",
			expected: "<head><title>İstanbul ΣΑΣ</title>X</head>",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := InjectBefore(tt.html, tt.tag, tt.fragment)
			if ok != tt.wantOK {
				t.Errorf("InjectBefore() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.expected {
				t.Errorf("InjectBefore() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStyleInjection_InjectStyle(t *testing.T) {
	t.Parallel()

	injector := &StyleInjection{}
	input := "<html><head></head><body></body></html>"

	t.Run("wraps CSS with id", func(t *testing.T) {
		t.Parallel()

		got, ok := injector.InjectStyle(context.Background(), input, "gss-style", "#gss{}")
		if !ok {
			t.Fatal("InjectStyle() ok = false")
		}
		want := `<html><head><style id="gss-style">#gss{}</style></head><body></body></html>`
		if got != want {
			t.Errorf("InjectStyle() = %q, want %q", got, want)
		}
	})

	t.Run("empty CSS is a no-op", func(t *testing.T) {
		t.Parallel()

		got, ok := injector.InjectStyle(context.Background(), input, "gss-style", "")
		if ok || got != input {
			t.Errorf("InjectStyle() = %q, %v; want input unchanged", got, ok)
		}
	})

	t.Run("cancelled context is a no-op", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got, ok := injector.InjectStyle(ctx, input, "gss-style", "#gss{}")
		if ok || got != input {
			t.Errorf("InjectStyle() = %q, %v; want input unchanged", got, ok)
		}
	})

	t.Run("sanitizes style breakout", func(t *testing.T) {
		t.Parallel()

		got, _ := injector.InjectStyle(context.Background(), input, "gss-style", "a{}</style><script>")
		if strings.Count(got, "</style>") != 1 {
			t.Errorf("style block should close exactly once, got %q", got)
		}
	})
}

func TestFragmentInjection_InjectFragment(t *testing.T) {
	t.Parallel()

	injector := &FragmentInjection{}

	got, ok := injector.InjectFragment(context.Background(), "<body></body>", `<div id="gss"></div>`)
	if !ok {
		t.Fatal("InjectFragment() ok = false")
	}
	if got != `<body><div id="gss"></div></body>` {
		t.Errorf("InjectFragment() = %q", got)
	}

	if _, ok := injector.InjectFragment(context.Background(), "<body></body>", ""); ok {
		t.Error("empty fragment should not be injected")
	}
}

func TestHasTag(t *testing.T) {
	t.Parallel()

	if !HasTag("<BODY></BODY>", BodyClose) {
		t.Error("HasTag() should match case-insensitively")
	}
	if HasTag("<body>", BodyClose) {
		t.Error("HasTag() should not match an opening tag")
	}
}

func BenchmarkInjectBefore(b *testing.B) {
	doc := "<html><head><title>x</title></head><body>" + strings.Repeat("<p>paragraph</p>", 2000) + "</body></html>"
	fragment := strings.Repeat("x", 4096)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = InjectBefore(doc, BodyClose, fragment)
	}
}
