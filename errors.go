package splash

import "errors"

// Sentinel errors for plugin operations.
var (
	// Configuration errors, reported by New.
	ErrLogoRequired       = errors.New("logo source is required")
	ErrInvalidLoaderKind  = errors.New("invalid loader kind")
	ErrInvalidMinDuration = errors.New("invalid minimum duration")
	ErrInvalidColor       = errors.New("invalid color value")

	// Document errors, reported in strict mode and by Check.
	ErrMissingHeadTag = errors.New("missing </head> tag")
	ErrMissingBodyTag = errors.New("missing </body> tag")

	// Host integration errors.
	ErrNilHook      = errors.New("process-assets hook is nil")
	ErrUnknownAsset = errors.New("unknown asset")

	// Browser preview errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPageEval       = errors.New("failed to evaluate page script")

	// Asset loading errors.
	ErrTemplateNotFound   = errors.New("template not found")
	ErrIncompleteTemplate = errors.New("loader template missing its CSS or HTML file")
	ErrInvalidAssetPath   = errors.New("invalid asset path")
)
