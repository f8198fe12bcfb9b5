package assets

import "fmt"

// Asset names of the built-in plugin assets.
const (
	BaseStyleName     = "base"
	InlineScriptName  = "inline"
	RuntimeScriptName = "runtime"
)

// Substitution markers recognized in the stylesheets.
const (
	MarkerSplashBackground = "/*BG_SPLASH*/"
	MarkerLoaderBackground = "/*BG_LOADER*/"
)

// LoaderKinds lists the loader kinds that have templates.
// The "none" kind is handled by callers and has no templates.
var LoaderKinds = []string{"line", "dots"}

// LoaderTemplate holds the two halves of a loader animation.
type LoaderTemplate struct {
	Kind string // Loader kind name
	CSS  string // Loader stylesheet, may contain MarkerLoaderBackground
	HTML string // Loader markup fragment
}

// TemplateSet holds every asset the plugin injects.
// It is loaded once and never mutated afterwards.
type TemplateSet struct {
	Base    string                    // Overlay stylesheet with both markers
	Loaders map[string]LoaderTemplate // Keyed by loader kind
	Inline  string                    // Inline script template source
	Runtime string                    // Browser dismissal runtime module
}

// Loader returns the templates of a loader kind.
// Unknown kinds (including "none") yield an empty template.
func (ts *TemplateSet) Loader(kind string) LoaderTemplate {
	if ts == nil {
		return LoaderTemplate{Kind: kind}
	}
	if lt, ok := ts.Loaders[kind]; ok {
		return lt
	}
	return LoaderTemplate{Kind: kind}
}

// LoadTemplateSet reads the base style, every loader and both scripts.
func LoadTemplateSet(loader AssetLoader) (*TemplateSet, error) {
	base, err := loader.LoadStyle(BaseStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading base style: %w", err)
	}

	ts := &TemplateSet{
		Base:    base,
		Loaders: make(map[string]LoaderTemplate, len(LoaderKinds)),
	}

	for _, kind := range LoaderKinds {
		lt, err := loader.LoadLoader(kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s loader: %w", kind, err)
		}
		ts.Loaders[kind] = *lt
	}

	if ts.Inline, err = loader.LoadScript(InlineScriptName); err != nil {
		return nil, fmt.Errorf("loading inline script: %w", err)
	}
	if ts.Runtime, err = loader.LoadScript(RuntimeScriptName); err != nil {
		return nil, fmt.Errorf("loading runtime script: %w", err)
	}

	return ts, nil
}
