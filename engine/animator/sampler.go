package animator

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// Value is one sampled track value. Vector is set for translation and scale tracks,
// Rotation for rotation tracks.
type Value struct {
	Property model.Property
	Vector   mgl32.Vec3
	Rotation mgl32.Quat
}

// WrapTime folds elapsed playback time into [0, duration).
// A non-positive duration, or any non-finite input, holds playback at the first keyframe.
//
// Parameters:
//   - elapsed: the playback time in seconds
//   - duration: the clip duration in seconds
//
// Returns:
//   - float32: the wrapped time
func WrapTime(elapsed, duration float32) float32 {
	if !(duration > 0) {
		return 0
	}
	m := math.Mod(float64(elapsed), float64(duration))
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	r := float32(m)
	if r < 0 {
		r += duration
	}
	if r >= duration {
		r = 0
	}
	return r
}

// keyframeSpan finds the keyframes bracketing t.
// Before the first keyframe both indices are 0; at or after the last both are the last index.
// The factor is 0 whenever the two keyframe times coincide.
func keyframeSpan(times []float32, t float32) (int, int, float32) {
	n := len(times)
	if n == 0 || t <= times[0] {
		return 0, 0, 0
	}
	if t >= times[n-1] {
		return n - 1, n - 1, 0
	}

	// Largest index whose time is <= t. NaN times or t fall through both checks above,
	// so the indices are clamped to the slice.
	i := sort.Search(n, func(k int) bool { return times[k] > t }) - 1
	i = min(max(i, 0), n-1)
	j := min(i+1, n-1)
	t0, t1 := times[i], times[j]
	if !(t1 > t0) {
		return i, j, 0
	}
	return i, j, (t - t0) / (t1 - t0)
}

// Sample evaluates track at time t.
// Step tracks hold the earlier keyframe. Linear tracks lerp vectors and take the shortest
// arc between rotations. CubicSpline tracks are evaluated like Linear ones.
//
// Parameters:
//   - track: a validated track with at least one keyframe
//   - t: the wrapped playback time in seconds
//
// Returns:
//   - Value: the interpolated value of the track's property
func Sample(track *model.Track, t float32) Value {
	i, j, f := keyframeSpan(track.Times, t)
	if track.Interpolation == model.InterpolationStep {
		f = 0
	}

	v := Value{Property: track.Property}
	if track.Property == model.PropertyRotation {
		v.Rotation = common.SlerpShortest(track.Rotations[i], track.Rotations[j], f)
	} else {
		v.Vector = common.Lerp3(track.Vectors[i], track.Vectors[j], f)
	}
	return v
}

// SamplePose evaluates track at time t and converts rotations into the target rig's
// convention: the sampled rotation q becomes correction * q * correction.
//
// Parameters:
//   - track: a validated track with at least one keyframe
//   - t: the wrapped playback time in seconds
//   - correction: the orientation fix-up, usually common.YFlip()
//
// Returns:
//   - Value: the value to write into the joint transform
func SamplePose(track *model.Track, t float32, correction mgl32.Quat) Value {
	v := Sample(track, t)
	if v.Property == model.PropertyRotation {
		v.Rotation = correction.Mul(v.Rotation).Mul(correction)
	}
	return v
}

// apply writes v into the matching channel of dst.
func (v Value) apply(dst *common.Transform) {
	switch v.Property {
	case model.PropertyTranslation:
		dst.Translation = v.Vector
	case model.PropertyRotation:
		dst.Rotation = v.Rotation
	case model.PropertyScale:
		dst.Scale = v.Vector
	}
}
