package splash

import (
	"encoding/base64"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-splash/internal/fileutil"
)

// rasterTypes maps binary image extensions to their MIME type. Anything
// else is treated as text (SVG markup) and embedded verbatim.
var rasterTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".ico":  "image/x-icon",
}

// resolveLogo returns the logo markup. A logo that cannot be found is
// logged with every path tried and yields an empty logo.
func (p *Plugin) resolveLogo(logger *slog.Logger) string {
	src := p.opts.LogoSrc
	if fileutil.IsURL(src) || fileutil.IsDataURI(src) {
		return imgTag(src)
	}

	tried := p.logoCandidates()
	for _, path := range tried {
		if !fileutil.FileExists(path) {
			continue
		}
		content, err := os.ReadFile(path) // #nosec G304 -- logo path comes from plugin options
		if err != nil {
			logger.Warn("splash logo unreadable", "path", path, "error", err)
			continue
		}
		return logoMarkup(path, content)
	}

	logger.Warn("splash logo not found", "logo", src, "tried", tried)
	return ""
}

// logoCandidates lists lookup paths in order: PublicDir/src, then
// workDir/PublicDir/src, then workDir/public/src. Duplicates are dropped.
func (p *Plugin) logoCandidates() []string {
	src := p.opts.LogoSrc
	if filepath.IsAbs(src) {
		return []string{src}
	}

	publicDir := p.opts.PublicDir
	candidates := []string{filepath.Join(publicDir, src)}
	if filepath.IsAbs(publicDir) {
		candidates = append(candidates, filepath.Join(publicDir, src))
	} else {
		candidates = append(candidates, filepath.Join(p.cfg.workDir, publicDir, src))
	}
	candidates = append(candidates, filepath.Join(p.cfg.workDir, DefaultPublicDir, src))

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := c
		if abs, err := filepath.Abs(c); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// logoMarkup embeds text logos verbatim and raster images as data URIs.
func logoMarkup(path string, content []byte) string {
	mime, ok := rasterTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return string(content)
	}
	return imgTag("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content))
}

func imgTag(src string) string {
	return `<img src="` + html.EscapeString(src) + `" alt="">`
}
