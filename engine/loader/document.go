package loader

import (
	"fmt"
	"path/filepath"
)

// VRM extension names recognized at the document root.
const (
	ExtensionVRM0         = "VRM"
	ExtensionVRM1         = "VRMC_vrm"
	ExtensionVRMAnimation = "VRMC_vrm_animation"
)

// Document is a decoded glTF 2.0 document with all of its buffers resolved.
// It covers .gltf, .glb, .vrm, and .vrma files. A Document is immutable once decoded and
// may be shared between goroutines.
type Document struct {
	name   string
	parser gltfParser
}

// DecodeFile reads and decodes the document at path.
// External buffer URIs are resolved relative to the file's directory.
//
// Parameters:
//   - path: the document file path
//
// Returns:
//   - *Document: the decoded document
//   - error: error if the file cannot be read or parsed
func DecodeFile(path string) (*Document, error) {
	p := newGLTFParser()
	if err := p.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Document{name: path, parser: p}, nil
}

// DecodeBytes decodes a document held in memory.
//
// Parameters:
//   - name: an identifier for the document, used in errors and as its Name
//   - data: the glTF JSON or GLB bytes
//   - baseDir: the directory used for external buffer URIs
//
// Returns:
//   - *Document: the decoded document
//   - error: error if parsing fails
func DecodeBytes(name string, data []byte, baseDir string) (*Document, error) {
	p := newGLTFParser()
	if err := p.ParseBytes(data, baseDir); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", name, err)
	}
	return &Document{name: name, parser: p}, nil
}

// Name returns the path or identifier the document was decoded from.
func (d *Document) Name() string {
	return d.name
}

// BaseName returns the final element of Name.
func (d *Document) BaseName() string {
	return filepath.Base(d.name)
}

// AnimationCount returns the number of animations defined by the document.
func (d *Document) AnimationCount() int {
	return len(d.parser.Document().Animations)
}

// AnimationNames returns the names of every animation, in document order.
func (d *Document) AnimationNames() []string {
	anims := d.parser.Document().Animations
	names := make([]string, len(anims))
	for i := range anims {
		names[i] = animationName(anims[i].Name, i)
	}
	return names
}

// NodeCount returns the number of scene-graph nodes.
func (d *Document) NodeCount() int {
	return len(d.parser.Document().Nodes)
}

// NodeName returns the name of node i, or "" when the node is unnamed or out of range.
func (d *Document) NodeName(i int) string {
	nodes := d.parser.Document().Nodes
	if i < 0 || i >= len(nodes) {
		return ""
	}
	return nodes[i].Name
}

// HasExtension reports whether the root object carries the named extension.
func (d *Document) HasExtension(name string) bool {
	_, ok := d.parser.Document().Extensions[name]
	return ok
}

// animationName returns name, or a positional fallback for unnamed animations.
func animationName(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("animation_%d", index)
	}
	return name
}
