package loader

import (
	"fmt"
	"io"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF, GLB, VRM, and VRMA files.
// VRM and VRMA are GLB containers with extra root extensions, so one parser serves all four.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF-family files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Decode(path string) (*Document, error) {
	return DecodeFile(path)
}

func (b *gltfLoaderBackendImpl) DecodeReader(name string, r io.Reader, baseDir string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	return DecodeBytes(name, data, baseDir)
}
