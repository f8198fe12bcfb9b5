package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// assetAttrs lists, per element, the attributes that load a resource.
var assetAttrs = map[atom.Atom][]string{
	atom.Script: {"src"},
	atom.Link:   {"href"},
	atom.Img:    {"src"},
	atom.Source: {"src"},
	atom.Video:  {"src", "poster"},
	atom.Audio:  {"src"},
	atom.Iframe: {"src"},
}

// RewriteAssetURLs points the resources a page loads at file:// URLs so the
// page still works when opened from another directory, as the previewer does.
//
//   - relative references ("app.js", "../css/site.css") resolve against pageDir
//   - root-relative references ("/assets/app.js") resolve against rootDir
//
// rootDir defaults to pageDir. References leaving rootDir, URLs, data: URIs,
// anchors and srcset values are left alone. An empty pageDir returns the
// page unchanged.
func RewriteAssetURLs(htmlContent, pageDir, rootDir string) (string, error) {
	if pageDir == "" {
		return htmlContent, nil
	}
	if rootDir == "" {
		rootDir = pageDir
	}

	absPage, err := filepath.Abs(pageDir)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absPage, absRoot)

	return renderHTML(doc, isFragment)
}

// parseHTML parses full documents as such and anything else as a body
// fragment, so fragments are not wrapped in <html><body>.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders doc, or only its children for a fragment.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, pageDir, rootDir string) {
	if n.Type == html.ElementNode {
		for _, name := range assetAttrs[n.DataAtom] {
			rewriteAttr(n, name, pageDir, rootDir)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, pageDir, rootDir)
	}
}

func rewriteAttr(n *html.Node, attrName, pageDir, rootDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isLocalReference(attr.Val) {
			continue
		}

		// Query strings and fragments do not name files.
		ref := attr.Val
		if idx := strings.IndexAny(ref, "?#"); idx >= 0 {
			ref = ref[:idx]
		}

		var absPath string
		if strings.HasPrefix(ref, "/") {
			absPath = filepath.Join(rootDir, filepath.FromSlash(ref))
		} else {
			absPath = filepath.Join(pageDir, filepath.FromSlash(ref))
		}

		if !isPathUnderDir(absPath, rootDir) {
			continue
		}

		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isLocalReference reports whether ref names a file of the site rather than
// a URL, a data: URI or an anchor.
func isLocalReference(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return true
}

// isPathUnderDir reports whether absPath is dir or lies below it.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
