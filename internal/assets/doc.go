// Package assets provides the stylesheets, loader fragments and scripts
// injected into HTML pages by the splash plugin.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the plugin. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when an asset is
// not found, so a project can override a single loader without copying the rest.
//
// LoadTemplateSet reads everything a plugin needs once, at construction time.
// The resulting TemplateSet is read-only and shared by all transform calls.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── base.css             # Overlay stylesheet (/*BG_SPLASH*/, /*BG_LOADER*/)
//	├── loaders/
//	│   ├── {kind}.css           # Loader stylesheet (/*BG_LOADER*/)
//	│   └── {kind}.html          # Loader markup
//	└── scripts/
//	    ├── inline.js            # Inline script template (text/template)
//	    └── runtime.js           # Browser dismissal runtime (ES module)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
