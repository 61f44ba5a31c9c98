package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// QuatFromXYZW builds a quaternion from glTF component order (x, y, z, w).
//
// Parameters:
//   - v: the quaternion components as stored in glTF
//
// Returns:
//   - mgl32.Quat: the quaternion
func QuatFromXYZW(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// QuatToXYZW returns the quaternion components in glTF order (x, y, z, w).
//
// Parameters:
//   - q: the quaternion
//
// Returns:
//   - [4]float32: the components as x, y, z, w
func QuatToXYZW(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

// Epsilon is the absolute per-component tolerance used by the approximate comparisons.
const Epsilon = 1e-5

// Vec3ApproxEqual reports whether each component of a is within Epsilon of b.
func Vec3ApproxEqual(a, b mgl32.Vec3) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > Epsilon {
			return false
		}
	}
	return true
}

// QuatApproxEqual compares two quaternions as orientations: q and -q describe the same rotation.
//
// Parameters:
//   - a, b: the quaternions to compare
//
// Returns:
//   - bool: true if a and b describe the same orientation within Epsilon
func QuatApproxEqual(a, b mgl32.Quat) bool {
	return quatNear(a, b) || quatNear(a, b.Scale(-1))
}

func quatNear(a, b mgl32.Quat) bool {
	return math.Abs(float64(a.W-b.W)) <= Epsilon && Vec3ApproxEqual(a.V, b.V)
}

// Lerp3 interpolates componentwise between a and b.
// A factor of 0 returns a unchanged.
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func Lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	if t == 0 {
		return a
	}
	return a.Add(b.Sub(a).Mul(t))
}

// SlerpShortest spherically interpolates from a to b along the shorter arc.
// When the quaternions lie in opposite hemispheres b is negated first, which keeps the
// same target orientation but avoids the long way round.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func SlerpShortest(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t == 0 {
		return a
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// YFlip returns a 180° rotation about the vertical (+Y) axis.
//
// Returns:
//   - mgl32.Quat: the half turn about Y
func YFlip() mgl32.Quat {
	return mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 1, 0})
}

// DecomposeMatrix splits a column-major 4x4 matrix into a Transform.
// The matrix is assumed to have no shear.
//
// Parameters:
//   - m: the column-major matrix as 16 floats
//
// Returns:
//   - Transform: the decomposed translation, rotation, and scale
func DecomposeMatrix(m [16]float32) Transform {
	var t Transform

	t.Translation = mgl32.Vec3{m[12], m[13], m[14]}

	sx := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl32.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl32.Vec3{m[8], m[9], m[10]}.Len()
	t.Scale = mgl32.Vec3{sx, sy, sz}

	// Avoid division by zero on degenerate axes.
	if sx < 0.0001 {
		sx = 1
	}
	if sy < 0.0001 {
		sy = 1
	}
	if sz < 0.0001 {
		sz = 1
	}

	// Normalized columns, stored row-major for quaternion extraction.
	r := [9]float32{
		m[0] / sx, m[4] / sy, m[8] / sz,
		m[1] / sx, m[5] / sy, m[9] / sz,
		m[2] / sx, m[6] / sy, m[10] / sz,
	}
	t.Rotation = matrixToQuat(r)

	return t
}

// matrixToQuat converts a row-major 3x3 rotation matrix into a unit quaternion.
func matrixToQuat(m [9]float32) mgl32.Quat {
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[3], m[4], m[5]
	r20, r21, r22 := m[6], m[7], m[8]

	trace := r00 + r11 + r22

	var x, y, z, w float32

	if trace > 0 {
		s := float32(math.Sqrt(float64(trace+1.0))) * 2
		w = 0.25 * s
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	} else if r00 > r11 && r00 > r22 {
		s := float32(math.Sqrt(float64(1.0+r00-r11-r22))) * 2
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	} else if r11 > r22 {
		s := float32(math.Sqrt(float64(1.0+r11-r00-r22))) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	} else {
		s := float32(math.Sqrt(float64(1.0+r22-r00-r11))) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}

	q := mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
	if q.Len() > 0.0001 {
		q = q.Normalize()
	}
	return q
}
