package pipeline

import (
	"context"
	"strings"
)

// Closing tags the injectors target.
const (
	HeadClose = "</head>"
	BodyClose = "</body>"
)

// StyleInjector defines the contract for style injection into HTML.
type StyleInjector interface {
	InjectStyle(ctx context.Context, htmlContent, id, cssContent string) (string, bool)
}

// FragmentInjector defines the contract for body fragment injection into HTML.
type FragmentInjector interface {
	InjectFragment(ctx context.Context, htmlContent, fragment string) (string, bool)
}

// StyleInjection injects CSS as a <style> block before the first </head>.
type StyleInjection struct{}

// InjectStyle inserts a <style id="..."> block immediately before the first
// </head>. Reports false and returns the input unchanged when the tag is
// absent, the context is done, or cssContent is empty.
func (s *StyleInjection) InjectStyle(ctx context.Context, htmlContent, id, cssContent string) (string, bool) {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent, false
	}
	return InjectBefore(htmlContent, HeadClose, StyleBlock(id, cssContent))
}

// FragmentInjection injects markup before the first </body>.
type FragmentInjection struct{}

// InjectFragment inserts fragment immediately before the first </body>.
// Reports false and returns the input unchanged when the tag is absent or
// the context is done.
func (f *FragmentInjection) InjectFragment(ctx context.Context, htmlContent, fragment string) (string, bool) {
	if fragment == "" || ctx.Err() != nil {
		return htmlContent, false
	}
	return InjectBefore(htmlContent, BodyClose, fragment)
}

// StyleBlock wraps CSS in a <style> element carrying the given id.
// CSS content is sanitized so it cannot close the element early.
func StyleBlock(id, cssContent string) string {
	var b strings.Builder
	b.Grow(len(cssContent) + len(id) + 24)
	b.WriteString(`<style id="`)
	b.WriteString(id)
	b.WriteString(`">`)
	b.WriteString(sanitizeCSS(cssContent))
	b.WriteString("</style>")
	return b.String()
}

// InjectBefore inserts fragment immediately before the first occurrence of
// tag, matched case-insensitively. Only the first occurrence is targeted.
func InjectBefore(htmlContent, tag, fragment string) (string, bool) {
	idx := indexFold(htmlContent, tag)
	if idx == -1 {
		return htmlContent, false
	}
	return htmlContent[:idx] + fragment + htmlContent[idx:], true
}

// HasTag reports whether htmlContent contains tag, matched case-insensitively.
func HasTag(htmlContent, tag string) bool {
	return indexFold(htmlContent, tag) != -1
}

// indexFold returns the byte index of the first ASCII case-insensitive match
// of substr in s, or -1. Byte offsets always refer to s itself, which
// strings.ToLower cannot guarantee for non-ASCII input.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// equalFoldASCII compares two equal-length strings ignoring ASCII case.
func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
