package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-vrma/engine/model"
)

// LoaderBackendType identifies the document format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB/VRM/VRMA loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	baseDir string

	documentCache map[string]*Document

	backend loaderBackend
}

// Loader defines the public-facing interface for decoding and caching documents.
// It abstracts the file format behind a generic backend and manages a cache of
// previously decoded documents keyed by path.
type Loader interface {
	// Decode decodes a document file and caches the result.
	// If the document is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb/.vrm/.vrma → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the document
	//
	// Returns:
	//   - *Document: the decoded and cached document
	//   - error: error if decoding fails
	Decode(path string) (*Document, error)

	// DecodeReader decodes a document from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the decoded document
	//   - r: the reader providing document data
	//
	// Returns:
	//   - *Document: the decoded document
	//   - error: error if decoding fails
	DecodeReader(name string, r io.Reader) (*Document, error)

	// Invalidate drops a document from the cache so the next Decode reads the file again.
	//
	// Parameters:
	//   - name: the cache key to drop
	Invalidate(name string)

	// Get retrieves a cached document by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Document: the cached document or nil
	Get(name string) *Document

	// Documents returns a copy of the document cache.
	//
	// Returns:
	//   - map[string]*Document: all cached documents keyed by name
	Documents() map[string]*Document

	// LoadClip decodes (or reuses) the document at path and imports its first animation.
	//
	// Parameters:
	//   - path: the clip file path, usually a .vrma
	//
	// Returns:
	//   - *model.AnimationClip: the imported clip
	//   - error: error if decoding or import fails
	LoadClip(path string) (*model.AnimationClip, error)

	// LoadRig decodes (or reuses) the model document at path and extracts a fresh rig.
	// Each call returns a rig with its own transform storage.
	//
	// Parameters:
	//   - path: the model file path, usually a .vrm
	//
	// Returns:
	//   - *model.Rig: the extracted rig
	//   - error: error if decoding or extraction fails
	LoadRig(path string) (*model.Rig, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:            sync.RWMutex{},
		baseDir:       ".",
		documentCache: make(map[string]*Document),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Decode(path string) (*Document, error) {
	l.mu.RLock()
	if cached, ok := l.documentCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	doc, err := backend.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.documentCache[path] = doc
	l.mu.Unlock()

	return doc, nil
}

func (l *loader) DecodeReader(name string, r io.Reader) (*Document, error) {
	l.mu.RLock()
	if cached, ok := l.documentCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	doc, err := l.backend.DecodeReader(name, r, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.documentCache[name] = doc
	l.mu.Unlock()

	return doc, nil
}

func (l *loader) Invalidate(name string) {
	l.mu.Lock()
	delete(l.documentCache, name)
	l.mu.Unlock()
}

func (l *loader) Get(name string) *Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.documentCache[name]
}

func (l *loader) Documents() map[string]*Document {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Document, len(l.documentCache))
	for k, v := range l.documentCache {
		result[k] = v
	}
	return result
}

func (l *loader) LoadClip(path string) (*model.AnimationClip, error) {
	doc, err := l.Decode(path)
	if err != nil {
		return nil, err
	}
	clip, err := ImportClip(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to import clip from %s: %w", path, err)
	}
	return clip, nil
}

func (l *loader) LoadRig(path string) (*model.Rig, error) {
	doc, err := l.Decode(path)
	if err != nil {
		return nil, err
	}
	rig, err := ExtractRig(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract rig from %s: %w", path, err)
	}
	return rig, nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only the glTF family is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb", ".vrm", ".vrma":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
