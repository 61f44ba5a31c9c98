package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDocument is an option builder that pre-populates the document cache.
//
// Parameters:
//   - key: the cache key, normally the document path
//   - doc: the decoded document to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the document option to a loader
func WithDocument(key string, doc *Document) LoaderBuilderOption {
	return func(l *loader) {
		l.documentCache[key] = doc
	}
}

// WithBaseDir is an option builder that sets the directory DecodeReader resolves external
// buffer URIs against.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}
