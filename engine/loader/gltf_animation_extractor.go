package loader

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser  gltfParser
	mapBone func(string) (humanoid.Bone, bool)
}

// gltfAnimationExtractor defines the interface for turning a glTF animation into a humanoid clip.
// Channels are matched to canonical bones by target node name; channels whose node is unnamed,
// whose name is not a known bone alias, or whose path is not a transform channel are skipped.
// A channel with unusable keyframe data aborts the whole extraction.
type gltfAnimationExtractor interface {
	// ExtractClip extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *model.AnimationClip: the extracted clip, possibly with zero tracks
	//   - error: ErrNoAnimation, or an *ImportError for a malformed channel
	ExtractClip(animIndex int) (*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser, mapBone: humanoid.Map}
}

// ImportClip builds the animation clip of the first animation in doc.
// Documents with several animations only expose the first one.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - *model.AnimationClip: the imported clip
//   - error: ErrNoAnimation, or an *ImportError wrapping ErrMissingKeyframeInputs or ErrMalformedChannel
func ImportClip(doc *Document) (*model.AnimationClip, error) {
	return newGLTFAnimationExtractor(doc.parser).ExtractClip(0)
}

// trackKey identifies the single track allowed per (bone, property) pair.
type trackKey struct {
	bone     humanoid.Bone
	property model.Property
}

func (e *gltfAnimationExtractorImpl) ExtractClip(animIndex int) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if len(doc.Animations) == 0 {
		return nil, ErrNoAnimation
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := animationName(anim.Name, animIndex)

	var tracks []*model.Track
	slot := make(map[trackKey]int)

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(doc.Nodes) {
			continue
		}
		nodeName := doc.Nodes[*ch.Target.Node].Name
		if nodeName == "" {
			continue
		}

		bone, ok := e.mapBone(nodeName)
		if !ok {
			log.Printf("[Loader] %s: skipping channel %d, unrecognized bone %q", name, i, nodeName)
			continue
		}

		fail := func(sentinel, cause error) error {
			return &ImportError{Animation: name, Channel: i, Node: nodeName, Err: errors.Join(sentinel, cause)}
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fail(ErrMissingKeyframeInputs, fmt.Errorf("invalid sampler index %d", ch.Sampler))
		}
		sampler := &anim.Samplers[ch.Sampler]

		times, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fail(ErrMissingKeyframeInputs, err)
		}
		if len(times) == 0 {
			return nil, fail(ErrMissingKeyframeInputs, errors.New("no keyframe times"))
		}
		for k, tm := range times {
			if math.IsNaN(float64(tm)) || math.IsInf(float64(tm), 0) {
				return nil, fail(ErrMissingKeyframeInputs, fmt.Errorf("keyframe time %d is %v", k, tm))
			}
			if k > 0 && tm < times[k-1] {
				return nil, fail(ErrMissingKeyframeInputs, fmt.Errorf("keyframe time %d decreases", k))
			}
		}

		property, err := model.ParseProperty(ch.Target.Path)
		if err != nil {
			log.Printf("[Loader] %s: skipping channel %d on %s, unrecognized output %q", name, i, bone, ch.Target.Path)
			continue
		}

		interp, err := model.ParseInterpolation(sampler.Interpolation)
		if err != nil {
			return nil, fail(ErrMalformedChannel, err)
		}

		track, err := e.readTrack(bone, property, interp, sampler.Output, times)
		if err != nil {
			return nil, fail(ErrMalformedChannel, err)
		}

		key := trackKey{bone: bone, property: property}
		if at, dup := slot[key]; dup {
			tracks[at] = track
			continue
		}
		slot[key] = len(tracks)
		tracks = append(tracks, track)
	}

	var duration float32
	for _, t := range tracks {
		duration = max(duration, t.LastTime())
	}

	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Tracks:   tracks,
	}, nil
}

// readTrack reads the output accessor of a channel and pairs it with its keyframe times.
// CUBICSPLINE outputs store (in-tangent, value, out-tangent) per keyframe; only the value is kept.
func (e *gltfAnimationExtractorImpl) readTrack(bone humanoid.Bone, property model.Property, interp model.Interpolation, output int, times []float32) (*model.Track, error) {
	stride := 1
	if interp == model.InterpolationCubicSpline {
		stride = 3
	}

	if property == model.PropertyRotation {
		raw, err := e.parser.ReadRotationAccessor(output)
		if err != nil {
			return nil, err
		}
		if len(raw) != len(times)*stride {
			return nil, fmt.Errorf("%d rotation outputs for %d keyframes", len(raw), len(times))
		}
		values := make([]mgl32.Quat, len(times))
		for k := range values {
			values[k] = common.QuatFromXYZW(raw[k*stride+stride/2])
		}
		return model.NewRotationTrack(bone, interp, times, values)
	}

	raw, err := e.parser.ReadVec3Accessor(output)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(times)*stride {
		return nil, fmt.Errorf("%d %s outputs for %d keyframes", len(raw), property, len(times))
	}
	values := make([]mgl32.Vec3, len(times))
	for k := range values {
		values[k] = mgl32.Vec3(raw[k*stride+stride/2])
	}
	return model.NewVectorTrack(bone, property, interp, times, values)
}
