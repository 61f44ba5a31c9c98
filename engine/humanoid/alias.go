package humanoid

import "strings"

// mixamoAliases covers the Mixamo-style skeleton spellings. The PascalCase VRM spellings
// ("LeftUpperLeg") are added from vrm0Names when the table is built.
var mixamoAliases = map[string]Bone{
	"LeftUpLeg":        LeftUpperLeg,
	"RightUpLeg":       RightUpperLeg,
	"LeftLeg":          LeftLowerLeg,
	"RightLeg":         RightLowerLeg,
	"LeftToeBase":      LeftFoot,
	"RightToeBase":     RightFoot,
	"LeftToeBase_end":  LeftToes,
	"RightToeBase_end": RightToes,
	"LeftArm":          LeftUpperArm,
	"RightArm":         RightUpperArm,
	"LeftForeArm":      LeftLowerArm,
	"RightForeArm":     RightLowerArm,

	"LeftHandThumb1":  LeftThumbProximal,
	"LeftHandThumb2":  LeftThumbIntermediate,
	"LeftHandThumb3":  LeftThumbDistal,
	"LeftHandIndex1":  LeftIndexProximal,
	"LeftHandIndex2":  LeftIndexIntermediate,
	"LeftHandIndex3":  LeftIndexDistal,
	"LeftHandMiddle1": LeftMiddleProximal,
	"LeftHandMiddle2": LeftMiddleIntermediate,
	"LeftHandMiddle3": LeftMiddleDistal,
	"LeftHandRing1":   LeftRingProximal,
	"LeftHandRing2":   LeftRingIntermediate,
	"LeftHandRing3":   LeftRingDistal,
	"LeftHandLittle1": LeftLittleProximal,
	"LeftHandLittle2": LeftLittleIntermediate,
	"LeftHandLittle3": LeftLittleDistal,
	"LeftHandPinky1":  LeftLittleProximal,
	"LeftHandPinky2":  LeftLittleIntermediate,
	"LeftHandPinky3":  LeftLittleDistal,

	"RightHandThumb1":  RightThumbProximal,
	"RightHandThumb2":  RightThumbIntermediate,
	"RightHandThumb3":  RightThumbDistal,
	"RightHandIndex1":  RightIndexProximal,
	"RightHandIndex2":  RightIndexIntermediate,
	"RightHandIndex3":  RightIndexDistal,
	"RightHandMiddle1": RightMiddleProximal,
	"RightHandMiddle2": RightMiddleIntermediate,
	"RightHandMiddle3": RightMiddleDistal,
	"RightHandRing1":   RightRingProximal,
	"RightHandRing2":   RightRingIntermediate,
	"RightHandRing3":   RightRingDistal,
	"RightHandLittle1": RightLittleProximal,
	"RightHandLittle2": RightLittleIntermediate,
	"RightHandLittle3": RightLittleDistal,
	"RightHandPinky1":  RightLittleProximal,
	"RightHandPinky2":  RightLittleIntermediate,
	"RightHandPinky3":  RightLittleDistal,
}

// vrm1Thumbs holds the VRMC_vrm 1.0 thumb keys, which shifted one segment toward the palm.
var vrm1Thumbs = map[string]Bone{
	"leftThumbMetacarpal":  LeftThumbProximal,
	"leftThumbProximal":    LeftThumbIntermediate,
	"leftThumbDistal":      LeftThumbDistal,
	"rightThumbMetacarpal": RightThumbProximal,
	"rightThumbProximal":   RightThumbIntermediate,
	"rightThumbDistal":     RightThumbDistal,
}

var (
	aliases  map[string]Bone
	vrm0Keys map[string]Bone
)

func init() {
	aliases = make(map[string]Bone, int(boneCount)+len(mixamoAliases))
	vrm0Keys = make(map[string]Bone, boneCount)
	for _, b := range All() {
		name := vrm0Names[b]
		vrm0Keys[name] = b
		aliases[strings.ToUpper(name[:1])+name[1:]] = b
	}
	for name, b := range mixamoAliases {
		aliases[name] = b
	}
}

// Map resolves a scene-graph node name to its canonical bone. Matching is exact and
// case-sensitive; names outside the alias table report false and should be skipped.
//
// Parameters:
//   - raw: the node name as stored in the source file
//
// Returns:
//   - Bone: the canonical bone, or BoneNone when unmatched
//   - bool: whether the name was recognized
func Map(raw string) (Bone, bool) {
	b, ok := aliases[raw]
	return b, ok
}

// ParseVRM0 resolves a VRM 0.x humanBone key such as "leftUpperLeg".
func ParseVRM0(name string) (Bone, bool) {
	b, ok := vrm0Keys[name]
	return b, ok
}

// ParseVRM1 resolves a VRMC_vrm 1.0 humanBone key. Apart from the thumbs the 1.0 keys match
// the 0.x ones.
func ParseVRM1(name string) (Bone, bool) {
	if b, ok := vrm1Thumbs[name]; ok {
		return b, true
	}
	if strings.Contains(name, "Thumb") {
		return BoneNone, false
	}
	return ParseVRM0(name)
}
