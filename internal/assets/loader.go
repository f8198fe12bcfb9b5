package assets

// AssetLoader defines the contract for loading plugin assets.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadLoader loads the CSS and HTML templates of a loader kind.
	// Returns ErrLoaderNotFound if neither template exists.
	// Returns ErrIncompleteLoader if only one of them exists.
	LoadLoader(kind string) (*LoaderTemplate, error)

	// LoadScript loads a JavaScript asset by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)
}
