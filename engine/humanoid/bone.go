// Package humanoid defines the canonical humanoid bone taxonomy and maps scene-graph node
// names from the common skeleton naming conventions onto it.
package humanoid

// Bone identifies a canonical humanoid joint independent of how a source file names it.
// The zero value BoneNone is never produced by a successful lookup.
type Bone uint8

const (
	BoneNone Bone = iota

	Hips
	Spine
	Chest
	UpperChest
	Neck
	Head
	LeftEye
	RightEye
	Jaw

	LeftUpperLeg
	RightUpperLeg
	LeftLowerLeg
	RightLowerLeg
	LeftFoot
	RightFoot
	LeftToes
	RightToes

	LeftShoulder
	RightShoulder
	LeftUpperArm
	RightUpperArm
	LeftLowerArm
	RightLowerArm
	LeftHand
	RightHand

	LeftThumbProximal
	LeftThumbIntermediate
	LeftThumbDistal
	LeftIndexProximal
	LeftIndexIntermediate
	LeftIndexDistal
	LeftMiddleProximal
	LeftMiddleIntermediate
	LeftMiddleDistal
	LeftRingProximal
	LeftRingIntermediate
	LeftRingDistal
	LeftLittleProximal
	LeftLittleIntermediate
	LeftLittleDistal

	RightThumbProximal
	RightThumbIntermediate
	RightThumbDistal
	RightIndexProximal
	RightIndexIntermediate
	RightIndexDistal
	RightMiddleProximal
	RightMiddleIntermediate
	RightMiddleDistal
	RightRingProximal
	RightRingIntermediate
	RightRingDistal
	RightLittleProximal
	RightLittleIntermediate
	RightLittleDistal

	boneCount
)

// vrm0Names holds the VRM 0.x humanBone key for every canonical bone, indexed by Bone.
var vrm0Names = [boneCount]string{
	BoneNone: "",

	Hips:       "hips",
	Spine:      "spine",
	Chest:      "chest",
	UpperChest: "upperChest",
	Neck:       "neck",
	Head:       "head",
	LeftEye:    "leftEye",
	RightEye:   "rightEye",
	Jaw:        "jaw",

	LeftUpperLeg:  "leftUpperLeg",
	RightUpperLeg: "rightUpperLeg",
	LeftLowerLeg:  "leftLowerLeg",
	RightLowerLeg: "rightLowerLeg",
	LeftFoot:      "leftFoot",
	RightFoot:     "rightFoot",
	LeftToes:      "leftToes",
	RightToes:     "rightToes",

	LeftShoulder:  "leftShoulder",
	RightShoulder: "rightShoulder",
	LeftUpperArm:  "leftUpperArm",
	RightUpperArm: "rightUpperArm",
	LeftLowerArm:  "leftLowerArm",
	RightLowerArm: "rightLowerArm",
	LeftHand:      "leftHand",
	RightHand:     "rightHand",

	LeftThumbProximal:      "leftThumbProximal",
	LeftThumbIntermediate:  "leftThumbIntermediate",
	LeftThumbDistal:        "leftThumbDistal",
	LeftIndexProximal:      "leftIndexProximal",
	LeftIndexIntermediate:  "leftIndexIntermediate",
	LeftIndexDistal:        "leftIndexDistal",
	LeftMiddleProximal:     "leftMiddleProximal",
	LeftMiddleIntermediate: "leftMiddleIntermediate",
	LeftMiddleDistal:       "leftMiddleDistal",
	LeftRingProximal:       "leftRingProximal",
	LeftRingIntermediate:   "leftRingIntermediate",
	LeftRingDistal:         "leftRingDistal",
	LeftLittleProximal:     "leftLittleProximal",
	LeftLittleIntermediate: "leftLittleIntermediate",
	LeftLittleDistal:       "leftLittleDistal",

	RightThumbProximal:      "rightThumbProximal",
	RightThumbIntermediate:  "rightThumbIntermediate",
	RightThumbDistal:        "rightThumbDistal",
	RightIndexProximal:      "rightIndexProximal",
	RightIndexIntermediate:  "rightIndexIntermediate",
	RightIndexDistal:        "rightIndexDistal",
	RightMiddleProximal:     "rightMiddleProximal",
	RightMiddleIntermediate: "rightMiddleIntermediate",
	RightMiddleDistal:       "rightMiddleDistal",
	RightRingProximal:       "rightRingProximal",
	RightRingIntermediate:   "rightRingIntermediate",
	RightRingDistal:         "rightRingDistal",
	RightLittleProximal:     "rightLittleProximal",
	RightLittleIntermediate: "rightLittleIntermediate",
	RightLittleDistal:       "rightLittleDistal",
}

// String returns the VRM 0.x humanBone name of b, or "none" for BoneNone and unknown values.
func (b Bone) String() string {
	if b == BoneNone || b >= boneCount {
		return "none"
	}
	return vrm0Names[b]
}

// Valid reports whether b is one of the canonical bones.
func (b Bone) Valid() bool {
	return b > BoneNone && b < boneCount
}

// All returns every canonical bone in declaration order.
//
// Returns:
//   - []Bone: a fresh slice of all canonical bones
func All() []Bone {
	bones := make([]Bone, 0, boneCount-1)
	for b := Hips; b < boneCount; b++ {
		bones = append(bones, b)
	}
	return bones
}
