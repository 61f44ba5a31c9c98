package loader

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoHumanoid is returned when no node of a model maps to a canonical bone.
var ErrNoHumanoid = errors.New("model has no humanoid bones")

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor defines the interface for extracting a humanoid rig from a parsed glTF document.
// The humanoid mapping comes from the VRMC_vrm (1.0) or VRM (0.x) root extension when present,
// otherwise from the node names.
type gltfSkeletonExtractor interface {
	// ExtractRig builds the rig of the document with joints in parent-before-child order.
	//
	// Parameters:
	//   - name: the rig identifier
	//
	// Returns:
	//   - *model.Rig: the extracted rig
	//   - error: error if the humanoid extension is malformed or no bone is found
	ExtractRig(name string) (*model.Rig, error)

	// HumanoidNodes returns the node index of every mapped canonical bone.
	//
	// Returns:
	//   - map[int]humanoid.Bone: node index to canonical bone
	//   - error: error if the humanoid extension is malformed
	HumanoidNodes() (map[int]humanoid.Bone, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

// ExtractRig builds the humanoid rig of a VRM or glTF model document.
//
// Parameters:
//   - doc: the decoded model document
//
// Returns:
//   - *model.Rig: the rig, named after the document
//   - error: error if no humanoid bone is found
func ExtractRig(doc *Document) (*model.Rig, error) {
	return newGLTFSkeletonExtractor(doc.parser).ExtractRig(doc.Name())
}

// vrm1Humanoid is the part of the VRMC_vrm extension naming the humanoid bones.
type vrm1Humanoid struct {
	Humanoid struct {
		HumanBones map[string]struct {
			Node int `json:"node"`
		} `json:"humanBones"`
	} `json:"humanoid"`
}

// vrm0Humanoid is the part of the VRM 0.x extension naming the humanoid bones.
type vrm0Humanoid struct {
	Humanoid struct {
		HumanBones []struct {
			Bone string `json:"bone"`
			Node int    `json:"node"`
		} `json:"humanBones"`
	} `json:"humanoid"`
}

func (e *gltfSkeletonExtractorImpl) HumanoidNodes() (map[int]humanoid.Bone, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	nodes := make(map[int]humanoid.Bone)
	valid := func(i int) bool { return i >= 0 && i < len(doc.Nodes) }

	if raw, ok := doc.Extensions[ExtensionVRM1]; ok {
		var ext vrm1Humanoid
		if err := json.Unmarshal(raw, &ext); err != nil {
			return nil, fmt.Errorf("failed to parse %s extension: %w", ExtensionVRM1, err)
		}
		for key, hb := range ext.Humanoid.HumanBones {
			if b, ok := humanoid.ParseVRM1(key); ok && valid(hb.Node) {
				nodes[hb.Node] = b
			}
		}
		return nodes, nil
	}

	if raw, ok := doc.Extensions[ExtensionVRM0]; ok {
		var ext vrm0Humanoid
		if err := json.Unmarshal(raw, &ext); err != nil {
			return nil, fmt.Errorf("failed to parse %s extension: %w", ExtensionVRM0, err)
		}
		for _, hb := range ext.Humanoid.HumanBones {
			if b, ok := humanoid.ParseVRM0(hb.Bone); ok && valid(hb.Node) {
				nodes[hb.Node] = b
			}
		}
		return nodes, nil
	}

	for i := range doc.Nodes {
		if b, ok := humanoid.Map(doc.Nodes[i].Name); ok {
			nodes[i] = b
		}
	}
	return nodes, nil
}

func (e *gltfSkeletonExtractorImpl) ExtractRig(name string) (*model.Rig, error) {
	mapped, err := e.HumanoidNodes()
	if err != nil {
		return nil, err
	}
	if len(mapped) == 0 {
		return nil, ErrNoHumanoid
	}

	doc := e.parser.Document()
	order, parent := gltfTopologicalSortNodes(doc)

	// nearest maps every visited node to its closest mapped ancestor (or itself).
	nearest := make(map[int]int, len(order))
	joints := make([]model.Joint, 0, len(mapped))
	for _, n := range order {
		up := -1
		if p := parent[n]; p >= 0 {
			if a, ok := nearest[p]; ok {
				up = a
			}
		}
		nearest[n] = up

		bone, ok := mapped[n]
		if !ok {
			continue
		}
		nearest[n] = n

		t := gltfExtractNodeTransform(&doc.Nodes[n])
		joints = append(joints, model.Joint{
			Bone:      bone,
			Name:      doc.Nodes[n].Name,
			Node:      n,
			Parent:    up,
			Transform: &t,
		})
	}

	return model.NewRig(name, joints), nil
}

// --- Helper Functions ---

// gltfExtractNodeTransform extracts the local TRS transform of a glTF node.
func gltfExtractNodeTransform(node *gltfNode) common.Transform {
	if node.Matrix != nil {
		return common.DecomposeMatrix(*node.Matrix)
	}

	transform := common.IdentityTransform()
	if node.Translation != nil {
		transform.Translation = mgl32.Vec3(*node.Translation)
	}
	if node.Rotation != nil {
		transform.Rotation = common.QuatFromXYZW(*node.Rotation)
	}
	if node.Scale != nil {
		transform.Scale = mgl32.Vec3(*node.Scale)
	}

	return transform
}

// gltfTopologicalSortNodes orders every node so that parents come before children.
// Nodes unreachable from a root (cycles in malformed files) are appended at the end.
//
// Parameters:
//   - doc: the parsed document
//
// Returns:
//   - []int: node indices in parent-before-child order
//   - []int: parent node index per node, -1 for roots
func gltfTopologicalSortNodes(doc *gltfDocument) ([]int, []int) {
	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, node := range doc.Nodes {
		for _, c := range node.Children {
			if c >= 0 && c < len(doc.Nodes) && parent[c] < 0 && c != i {
				parent[c] = i
			}
		}
	}

	children := make([][]int, len(doc.Nodes))
	var queue []int
	for i, p := range parent {
		if p < 0 {
			queue = append(queue, i)
		} else {
			children[p] = append(children[p], i)
		}
	}

	sorted := make([]int, 0, len(doc.Nodes))
	visited := make([]bool, len(doc.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true
		sorted = append(sorted, n)
		queue = append(queue, children[n]...)
	}

	if len(sorted) < len(doc.Nodes) {
		for i := range doc.Nodes {
			if !visited[i] {
				sorted = append(sorted, i)
			}
		}
	}

	return sorted, parent
}
