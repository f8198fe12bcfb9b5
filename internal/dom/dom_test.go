package dom

import (
	"strings"
	"testing"
)

const page = `<!doctype html>
<html><head><title>App</title><style id="gss-style">#gss{}</style></head>
<body><main id="app"></main><div id="gss" style="visibility: hidden"><div class="gss-logo"></div></div>
<script>window.__GSS__ = {};</script></body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

func TestDocument_Lookup(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)

	if !doc.HasElement("gss") {
		t.Error("HasElement(gss) = false")
	}
	if doc.HasElement("missing") {
		t.Error("HasElement(missing) = true")
	}
	if got := doc.Count("gss"); got != 1 {
		t.Errorf("Count(gss) = %d, want 1", got)
	}
	if got := doc.ParentTag("gss-style"); got != "head" {
		t.Errorf("ParentTag(gss-style) = %q, want head", got)
	}
	if got := doc.ParentTag("gss"); got != "body" {
		t.Errorf("ParentTag(gss) = %q, want body", got)
	}
	if got := doc.ParentTag("missing"); got != "" {
		t.Errorf("ParentTag(missing) = %q, want empty", got)
	}
}

func TestDocument_CountDuplicates(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<body><div id="gss"></div><section><div id="gss"></div></section></body>`)
	if got := doc.Count("gss"); got != 2 {
		t.Errorf("Count(gss) = %d, want 2", got)
	}
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

func TestDocument_SetStyle(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)

	if !doc.SetStyle("gss", "visibility", "visible") {
		t.Fatal("SetStyle() = false")
	}
	if !doc.SetStyle("gss", "opacity", "0") {
		t.Fatal("SetStyle() = false")
	}

	if v, _ := doc.Style("gss", "visibility"); v != "visible" {
		t.Errorf("visibility = %q, want visible", v)
	}
	if v, _ := doc.Style("gss", "Opacity"); v != "0" {
		t.Errorf("opacity = %q, want 0", v)
	}
	if !strings.Contains(doc.String(), `style="visibility: visible; opacity: 0"`) {
		t.Errorf("rendered style attribute not updated:\n%s", doc.String())
	}

	if doc.SetStyle("missing", "opacity", "0") {
		t.Error("SetStyle(missing) = true")
	}
}

func TestDocument_RemoveElement(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)

	if !doc.RemoveElement("gss") {
		t.Fatal("RemoveElement(gss) = false")
	}
	if !doc.RemoveElement("gss-style") {
		t.Fatal("RemoveElement(gss-style) = false")
	}
	if doc.RemoveElement("gss") {
		t.Error("second RemoveElement(gss) = true")
	}

	out := doc.String()
	if strings.Contains(out, `id="gss"`) || strings.Contains(out, `id="gss-style"`) {
		t.Errorf("overlay still rendered:\n%s", out)
	}
	if !strings.Contains(out, `<main id="app">`) {
		t.Errorf("unrelated content lost:\n%s", out)
	}
}

func TestDocument_Scripts(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)
	scripts := doc.Scripts()
	if len(scripts) != 1 || scripts[0] != "window.__GSS__ = {};" {
		t.Errorf("Scripts() = %q", scripts)
	}
}

// ---------------------------------------------------------------------------
// Inline style parsing
// ---------------------------------------------------------------------------

func TestParseStyle(t *testing.T) {
	t.Parallel()

	ds := parseStyle(" Color : red;;bogus; opacity:1 ; ")
	if got := ds.String(); got != "color: red; opacity: 1" {
		t.Errorf("parseStyle().String() = %q", got)
	}
	if v, ok := ds.get("COLOR"); !ok || v != "red" {
		t.Errorf("get(COLOR) = %q, %v", v, ok)
	}
	if _, ok := ds.get("margin"); ok {
		t.Error("get(margin) should be absent")
	}
}
