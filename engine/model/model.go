package model

import (
	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
)

// Joint is one humanoid joint of a loaded rig.
// Transform points at the joint's live local transform; animators write it in place.
type Joint struct {
	// Bone is the canonical bone the joint was mapped to.
	Bone humanoid.Bone

	// Name is the scene-graph node name.
	Name string

	// Node is the node index in the source document.
	Node int

	// Parent is the node index of the nearest mapped ancestor, or -1 for a root joint.
	Parent int

	// Transform is the joint's current local transform.
	Transform *common.Transform
}

// Rig is a humanoid skeleton: the joints of a loaded model that map to canonical bones.
// A Rig owns the Transform storage its joints point at.
type Rig struct {
	name   string
	joints []Joint
	byBone map[humanoid.Bone]int
	rest   []common.Transform
}

// NewRig builds a rig whose joints start at the given local transforms.
// Joints mapping to a bone already present are dropped, keeping the first.
//
// Parameters:
//   - name: the rig identifier, usually the source file path
//   - joints: the joints in parent-before-child order; Transform is used as the initial value
//
// Returns:
//   - *Rig: the rig with its own transform storage
func NewRig(name string, joints []Joint) *Rig {
	r := &Rig{
		name:   name,
		joints: make([]Joint, 0, len(joints)),
		byBone: make(map[humanoid.Bone]int, len(joints)),
	}
	for _, j := range joints {
		if _, dup := r.byBone[j.Bone]; dup || !j.Bone.Valid() {
			continue
		}
		t := common.IdentityTransform()
		if j.Transform != nil {
			t = *j.Transform
		}
		j.Transform = &t
		r.byBone[j.Bone] = len(r.joints)
		r.joints = append(r.joints, j)
		r.rest = append(r.rest, t)
	}
	return r
}

// Name returns the rig identifier.
func (r *Rig) Name() string {
	return r.name
}

// Joints returns the joints of the rig. The slice is shared; callers must not append to it.
//
// Returns:
//   - []Joint: the joints in parent-before-child order
func (r *Rig) Joints() []Joint {
	return r.joints
}

// Joint returns the joint mapped to bone.
//
// Parameters:
//   - bone: the canonical bone to look up
//
// Returns:
//   - Joint: the joint
//   - bool: whether the rig has that bone
func (r *Rig) Joint(bone humanoid.Bone) (Joint, bool) {
	i, ok := r.byBone[bone]
	if !ok {
		return Joint{}, false
	}
	return r.joints[i], true
}

// Reset puts every joint back at the transform it was loaded with.
func (r *Rig) Reset() {
	for i, j := range r.joints {
		*j.Transform = r.rest[i]
	}
}
