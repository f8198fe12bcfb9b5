// Package splash injects a splash-screen overlay into HTML pages at build
// time and provides the runtime that dismisses it once the application is ready.
//
// # Quick Start
//
// Create a plugin and transform each emitted HTML page:
//
//	p, err := splash.New(splash.Options{
//	    LogoSrc:     "logo.svg",
//	    LoaderKind:  splash.LoaderDots,
//	    MinDuration: 800 * time.Millisecond,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := p.Transform(ctx, page)
//
// Transform inserts a <style id="gss-style"> block before the first </head>
// and the overlay markup plus an inline script before the first </body>.
// Pages missing either tag are passed through for that insertion; set
// Options.Strict to reject them instead.
//
// # Dismissal
//
// In the browser, the inline script publishes window.__GSS__ and shows the
// overlay. The application calls hideSplashScreen() from the runtime module
// (see RuntimeAssetsFS) when ready:
//
//	import { hideSplashScreen } from "./splash-runtime.js";
//	await hideSplashScreen();
//
// The overlay stays visible for at least MinDuration after it was rendered,
// then fades out and is removed together with its style block. Loading a
// page with ?gss=false suppresses the overlay entirely.
//
// The same contract is available in Go against any Document (Mount,
// Overlay.Hide, HideSplashScreen), which the CLI uses to verify transformed
// pages without a browser.
//
// # Build Tool Integration
//
// Plugin.Apply taps a host's process-assets hook; Plugin.ProcessAssets
// transforms every .html asset of a Compilation. DirCompilation adapts a
// directory of emitted files and EsbuildPlugin adapts esbuild:
//
//	api.Build(api.BuildOptions{
//	    EntryPoints: []string{"src/main.ts", "index.html"},
//	    Loader:      map[string]api.Loader{".html": api.LoaderCopy},
//	    Plugins:     []api.Plugin{splash.EsbuildPlugin(p)},
//	})
//
// # Custom Assets
//
// Override the built-in templates with WithAssetPath:
//
//	assets/
//	├── styles/
//	│   └── base.css
//	├── loaders/
//	│   ├── line.css
//	│   └── line.html
//	└── scripts/
//	    ├── inline.js
//	    └── runtime.js
//
// Missing files fall back to the embedded defaults. A loader directory that
// provides only one of its two files is an error.
//
// # Preview
//
// Previewer loads a transformed page in headless Chrome (go-rod) and reports
// what the overlay did. Rod downloads Chromium on first use unless
// ROD_BROWSER_BIN points to an installed browser.
package splash
