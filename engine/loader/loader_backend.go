package loader

import (
	"io"
)

// loaderBackend defines the generic interface for decoding documents from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode performs a full document decode from the given file path.
	//
	// Parameters:
	//   - path: the file path to decode
	//
	// Returns:
	//   - *Document: the decoded document
	//   - error: error if decoding fails
	Decode(path string) (*Document, error)

	// DecodeReader decodes a document from a reader stream.
	//
	// Parameters:
	//   - name: the identifier given to the decoded document
	//   - r: the reader providing document data
	//   - baseDir: the directory external buffer URIs resolve against
	//
	// Returns:
	//   - *Document: the decoded document
	//   - error: error if decoding fails
	DecodeReader(name string, r io.Reader, baseDir string) (*Document, error)
}
