// gltf_types.go contains the glTF 2.0 data structures the loader deserializes.
// Only the parts needed for animation import and rig extraction are kept; encoding/json
// ignores the rest (meshes, materials, textures).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

import "encoding/json"

// --- glTF Root Structure ---

// gltfDocument represents the root of a glTF JSON document.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset gltfAsset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is an array of scenes.
	Scenes []gltfScene `json:"scenes,omitempty"`

	// Nodes is an array of nodes (transform hierarchy).
	Nodes []gltfNode `json:"nodes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []gltfAccessor `json:"accessors,omitempty"`

	// BufferViews define portions of buffers.
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`

	// Buffers are raw binary data containers.
	Buffers []gltfBuffer `json:"buffers,omitempty"`

	// Skins is an array of skins (skeletal animation binding).
	Skins []gltfSkin `json:"skins,omitempty"`

	// Animations is an array of animations.
	Animations []gltfAnimation `json:"animations,omitempty"`

	// ExtensionsUsed lists extensions used by this asset.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`

	// Extensions holds the raw root extension objects keyed by extension name
	// (VRM, VRMC_vrm, VRMC_vrm_animation).
	Extensions map[string]json.RawMessage `json:"extensions,omitempty"`
}

// --- Asset Metadata ---

// gltfAsset contains metadata about the glTF asset.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-asset
type gltfAsset struct {
	// Version is the glTF version (required, must be "2.0").
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator is the tool that generated this asset.
	Generator string `json:"generator,omitempty"`

	// Copyright information.
	Copyright string `json:"copyright,omitempty"`
}

// --- Scene Graph ---

// gltfScene is a set of visual objects to render.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-scene
type gltfScene struct {
	// Name is an optional name for this scene.
	Name string `json:"name,omitempty"`

	// Nodes are the indices of root nodes in this scene.
	Nodes []int `json:"nodes,omitempty"`
}

// gltfNode is a node in the node hierarchy.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type gltfNode struct {
	// Name is an optional name for this node.
	Name string `json:"name,omitempty"`

	// Children are indices of child nodes.
	Children []int `json:"children,omitempty"`

	// Skin is the index of the skin for this node (skeletal animation).
	Skin *int `json:"skin,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Buffer Data ---

// gltfAccessor defines how to interpret buffer data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type gltfAccessor struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// BufferView is the index of the bufferView.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Normalized indicates if integer data should be normalized.
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Max is the maximum value of each component.
	Max []float32 `json:"max,omitempty"`

	// Min is the minimum value of each component.
	Min []float32 `json:"min,omitempty"`

	// Sparse defines sparse storage of accessor values.
	Sparse *gltfAccessorSparse `json:"sparse,omitempty"`
}

// ComponentType constants
const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

// AccessorType constants
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat2   = "MAT2"
	gltfAccessorTypeMat3   = "MAT3"
	gltfAccessorTypeMat4   = "MAT4"
)

// gltfAccessorSparse defines sparse storage.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor-sparse
//
// NOTE: Only Count is retained for deserialization. The parser does not support sparse
// accessors and returns an error when Sparse is non-nil. The Indices/Values sub-types
// were removed because they are never read; encoding/json silently ignores unknown fields.
type gltfAccessorSparse struct {
	// Count is the number of sparse entries.
	Count int `json:"count"`
}

// gltfBufferView represents a subset of a buffer.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-bufferview
type gltfBufferView struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Buffer is the index of the buffer.
	Buffer int `json:"buffer"`

	// ByteOffset is the offset into the buffer.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the bufferView.
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride for interleaved data (optional).
	ByteStride *int `json:"byteStride,omitempty"`

	// Target is the intended GPU buffer type.
	// 34962=ARRAY_BUFFER, 34963=ELEMENT_ARRAY_BUFFER
	Target *int `json:"target,omitempty"`
}

// gltfBuffer represents binary data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-buffer
type gltfBuffer struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// URI is the URI of the buffer data (can be data: URI or external file).
	URI string `json:"uri,omitempty"`

	// ByteLength is the length of the buffer.
	ByteLength int `json:"byteLength"`

	// Data holds the loaded binary data (not part of JSON, populated during load).
	Data []byte `json:"-"`
}

// --- Skeletal Animation ---

// gltfSkin defines how a mesh is deformed by a skeleton.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-skin
type gltfSkin struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// InverseBindMatrices is the accessor index for the inverse bind matrices.
	InverseBindMatrices *int `json:"inverseBindMatrices,omitempty"`

	// Skeleton is the node index of the skeleton root (optional).
	Skeleton *int `json:"skeleton,omitempty"`

	// Joints are the node indices of the skeleton joints (bones).
	Joints []int `json:"joints"`
}

// gltfAnimation defines keyframe animation.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation
type gltfAnimation struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Channels connect samplers to target nodes/properties.
	Channels []gltfAnimChannel `json:"channels"`

	// Samplers define the keyframe data.
	Samplers []gltfAnimSampler `json:"samplers"`
}

// gltfAnimChannel connects a sampler to a target.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-channel
type gltfAnimChannel struct {
	// Sampler is the sampler index.
	Sampler int `json:"sampler"`

	// Target specifies what to animate.
	Target gltfAnimTarget `json:"target"`
}

// gltfAnimTarget specifies the animated property.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-channel-target
type gltfAnimTarget struct {
	// Node is the target node index.
	Node *int `json:"node,omitempty"`

	// Path is the animated property.
	// "translation", "rotation", "scale", "weights"
	Path string `json:"path"`
}

// gltfAnimSampler defines animation keyframe data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-sampler
type gltfAnimSampler struct {
	// Input is the accessor index for keyframe times.
	Input int `json:"input"`

	// Output is the accessor index for keyframe values.
	Output int `json:"output"`

	// Interpolation mode: "LINEAR" (default), "STEP", "CUBICSPLINE".
	Interpolation string `json:"interpolation,omitempty"`
}


// --- GLB Binary Format ---

// gltfGLBHeader is the header of a GLB file (12 bytes).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
type gltfGLBHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // Must be 2
	Length  uint32 // Total file length
}

// gltfGLBChunkHeader is the header of a GLB chunk (8 bytes).
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32 // 0x4E4F534A for JSON, 0x004E4942 for BIN
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)
