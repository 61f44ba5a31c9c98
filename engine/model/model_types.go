package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrEmptyTrack          = errors.New("track has no keyframes")
	ErrKeyframeCount       = errors.New("keyframe value count does not match time count")
	ErrTimesNotMonotonic   = errors.New("keyframe times decrease")
	ErrTimeNotFinite       = errors.New("keyframe time is not finite")
	ErrPropertyValueKind   = errors.New("track values do not match its property")
	ErrUnknownProperty     = errors.New("unknown track property")
	ErrUnknownInterpolator = errors.New("unknown interpolation mode")
)

// --- Track Types ---

// Property identifies which local transform channel a track drives.
type Property uint8

const (
	PropertyTranslation Property = iota
	PropertyRotation
	PropertyScale
)

// String returns the glTF channel path name of p.
func (p Property) String() string {
	switch p {
	case PropertyTranslation:
		return "translation"
	case PropertyRotation:
		return "rotation"
	case PropertyScale:
		return "scale"
	default:
		return fmt.Sprintf("Property(%d)", uint8(p))
	}
}

// ParseProperty maps a glTF channel target path onto a Property.
// The "weights" path and anything unknown are rejected.
func ParseProperty(path string) (Property, error) {
	switch path {
	case "translation":
		return PropertyTranslation, nil
	case "rotation":
		return PropertyRotation, nil
	case "scale":
		return PropertyScale, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, path)
	}
}

// Interpolation is the sampler mode stored with a track.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	// InterpolationCubicSpline tracks keep only the value element of each tangent triplet and
	// are sampled like linear ones.
	InterpolationCubicSpline
)

// String returns the glTF sampler spelling of i.
func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "LINEAR"
	case InterpolationStep:
		return "STEP"
	case InterpolationCubicSpline:
		return "CUBICSPLINE"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint8(i))
	}
}

// ParseInterpolation maps a glTF sampler interpolation string onto an Interpolation.
// An empty string is the glTF default, LINEAR.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "LINEAR":
		return InterpolationLinear, nil
	case "STEP":
		return InterpolationStep, nil
	case "CUBICSPLINE":
		return InterpolationCubicSpline, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolator, s)
	}
}

// Track is the keyframe data for one (bone, property) pair.
// Translation and scale tracks carry Vectors; rotation tracks carry Rotations.
type Track struct {
	// Bone is the canonical bone this track drives.
	Bone humanoid.Bone

	// Property is the local transform channel this track drives.
	Property Property

	// Interpolation is how values between keyframes are produced.
	Interpolation Interpolation

	// Times are the keyframe timestamps in seconds, non-decreasing.
	Times []float32

	// Vectors are the translation or scale values, one per time.
	Vectors []mgl32.Vec3

	// Rotations are the rotation values, one per time.
	Rotations []mgl32.Quat
}

// NewVectorTrack builds and validates a translation or scale track.
//
// Parameters:
//   - bone: the canonical bone driven by the track
//   - property: PropertyTranslation or PropertyScale
//   - interp: the interpolation mode
//   - times: the keyframe timestamps
//   - values: the keyframe values, one per timestamp
//
// Returns:
//   - *Track: the validated track
//   - error: error if the keyframes are inconsistent
func NewVectorTrack(bone humanoid.Bone, property Property, interp Interpolation, times []float32, values []mgl32.Vec3) (*Track, error) {
	t := &Track{Bone: bone, Property: property, Interpolation: interp, Times: times, Vectors: values}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewRotationTrack builds and validates a rotation track.
//
// Parameters:
//   - bone: the canonical bone driven by the track
//   - interp: the interpolation mode
//   - times: the keyframe timestamps
//   - values: the keyframe rotations, one per timestamp
//
// Returns:
//   - *Track: the validated track
//   - error: error if the keyframes are inconsistent
func NewRotationTrack(bone humanoid.Bone, interp Interpolation, times []float32, values []mgl32.Quat) (*Track, error) {
	t := &Track{Bone: bone, Property: PropertyRotation, Interpolation: interp, Times: times, Rotations: values}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the keyframe invariants of t: at least one keyframe, one value per time,
// finite non-decreasing times, and values of the kind its property expects.
//
// Returns:
//   - error: the first violated invariant, or nil
func (t *Track) Validate() error {
	if len(t.Times) == 0 {
		return fmt.Errorf("%s %s: %w", t.Bone, t.Property, ErrEmptyTrack)
	}
	var n int
	switch t.Property {
	case PropertyRotation:
		if t.Vectors != nil {
			return fmt.Errorf("%s %s: %w", t.Bone, t.Property, ErrPropertyValueKind)
		}
		n = len(t.Rotations)
	case PropertyTranslation, PropertyScale:
		if t.Rotations != nil {
			return fmt.Errorf("%s %s: %w", t.Bone, t.Property, ErrPropertyValueKind)
		}
		n = len(t.Vectors)
	default:
		return fmt.Errorf("%s: %w", t.Bone, ErrUnknownProperty)
	}
	if n != len(t.Times) {
		return fmt.Errorf("%s %s: %w (%d values, %d times)", t.Bone, t.Property, ErrKeyframeCount, n, len(t.Times))
	}
	for i, tm := range t.Times {
		if !finite(tm) {
			return fmt.Errorf("%s %s: %w at keyframe %d", t.Bone, t.Property, ErrTimeNotFinite, i)
		}
		if i > 0 && tm < t.Times[i-1] {
			return fmt.Errorf("%s %s: %w at keyframe %d", t.Bone, t.Property, ErrTimesNotMonotonic, i)
		}
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Len returns the number of keyframes in t.
func (t *Track) Len() int {
	return len(t.Times)
}

// LastTime returns the timestamp of the final keyframe, or 0 for an empty track.
func (t *Track) LastTime() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// --- Animation Types ---

// AnimationClip is an imported animation: every recognized bone track of a single source
// animation. Clips are built once per load and never mutated afterwards.
type AnimationClip struct {
	// Name is the source animation name.
	Name string

	// Duration is the greatest final keyframe time over all tracks, in seconds.
	Duration float32

	// Tracks holds at most one track per (bone, property) pair.
	Tracks []*Track
}

// Bones returns the distinct bones referenced by the clip in track order.
//
// Returns:
//   - []humanoid.Bone: the referenced bones
func (c *AnimationClip) Bones() []humanoid.Bone {
	seen := make(map[humanoid.Bone]bool, len(c.Tracks))
	bones := make([]humanoid.Bone, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		if !seen[t.Bone] {
			seen[t.Bone] = true
			bones = append(bones, t.Bone)
		}
	}
	return bones
}

// TracksFor returns the tracks of the clip that drive bone.
//
// Parameters:
//   - bone: the canonical bone to filter on
//
// Returns:
//   - []*Track: the matching tracks in clip order
func (c *AnimationClip) TracksFor(bone humanoid.Bone) []*Track {
	var out []*Track
	for _, t := range c.Tracks {
		if t.Bone == bone {
			out = append(out, t)
		}
	}
	return out
}

// RestPose holds the local transforms of the clip's bones as they were before playback.
type RestPose map[humanoid.Bone]common.Transform
