// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed local bone transform (translation, rotation, scale).
// Skeleton joints expose a pointer to one of these so the pose applier can write it in place.
type Transform struct {
	// Translation is the position offset relative to the parent joint.
	Translation mgl32.Vec3

	// Rotation is the orientation relative to the parent joint.
	Rotation mgl32.Quat

	// Scale is the scale factor along each local axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with zero translation, identity rotation, and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// ApproxEqual reports whether every TRS channel of t is within Epsilon of o.
// Rotations are compared as orientations, so q and -q are considered equal.
//
// Parameters:
//   - o: the transform to compare against
//
// Returns:
//   - bool: true if both transforms describe the same pose
func (t Transform) ApproxEqual(o Transform) bool {
	return Vec3ApproxEqual(t.Translation, o.Translation) &&
		Vec3ApproxEqual(t.Scale, o.Scale) &&
		QuatApproxEqual(t.Rotation, o.Rotation)
}
