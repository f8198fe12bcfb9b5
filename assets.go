package splash

import (
	"errors"
	"io/fs"

	"github.com/alnah/go-splash/internal/assets"
)

// RuntimeModuleName is the file name of the browser dismissal runtime
// inside RuntimeAssetsFS.
const RuntimeModuleName = "runtime.js"

// RuntimeAssetsFS returns the embedded browser scripts. RuntimeModuleName is
// the ES module exporting hideSplashScreen; serve it next to the pages:
//
//	http.Handle("/splash/", http.StripPrefix("/splash/", http.FileServerFS(splash.RuntimeAssetsFS())))
func RuntimeAssetsFS() fs.FS {
	return assets.ScriptsFS()
}

// loadTemplates resolves the template set, preferring files under basePath
// when set and falling back to the embedded defaults.
func loadTemplates(basePath string) (*assets.TemplateSet, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	ts, err := assets.LoadTemplateSet(resolver)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return ts, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrIncompleteLoader):
		return wrapError(ErrIncompleteTemplate, err)
	case errors.Is(err, assets.ErrStyleNotFound),
		errors.Is(err, assets.ErrLoaderNotFound),
		errors.Is(err, assets.ErrScriptNotFound),
		errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates an error that prints like original but matches sentinel
// under errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel. Internal errors are not exposed since
// they live in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
