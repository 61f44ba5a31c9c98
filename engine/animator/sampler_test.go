package animator

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

func vectorTrack(t *testing.T, interp model.Interpolation, times []float32, vals ...mgl32.Vec3) *model.Track {
	t.Helper()
	tr, err := model.NewVectorTrack(humanoid.Hips, model.PropertyTranslation, interp, times, vals)
	if err != nil {
		t.Fatalf("NewVectorTrack: %v", err)
	}
	return tr
}

func rotationTrack(t *testing.T, interp model.Interpolation, times []float32, vals ...mgl32.Quat) *model.Track {
	t.Helper()
	tr, err := model.NewRotationTrack(humanoid.Head, interp, times, vals)
	if err != nil {
		t.Fatalf("NewRotationTrack: %v", err)
	}
	return tr
}

func TestWrapTime(t *testing.T) {
	for _, x := range [...]struct {
		elapsed, duration, want float32
	}{
		{0, 1, 0},
		{0.5, 1, 0.5},
		{1, 1, 0},
		{1.5, 1, 0.5},
		{4.25, 2, 0.25},
		{-0.25, 1, 0.75},
		{3, 0, 0},
		{3, -1, 0},
		{float32(math.Inf(1)), 1, 0},
		{float32(math.Inf(-1)), 1, 0},
		{float32(math.NaN()), 1, 0},
		{0.5, float32(math.NaN()), 0},
		{0.5, float32(math.Inf(1)), 0.5},
	} {
		if have := WrapTime(x.elapsed, x.duration); math.Abs(float64(have-x.want)) > 1e-6 {
			t.Fatalf("WrapTime(%v, %v):\nhave %v\nwant %v", x.elapsed, x.duration, have, x.want)
		}
	}
}

func TestKeyframeSpan(t *testing.T) {
	times := []float32{0.5, 1, 1, 2}
	for _, x := range [...]struct {
		t    float32
		i, j int
		f    float32
	}{
		{0, 0, 0, 0},
		{0.5, 0, 0, 0},
		{0.75, 0, 1, 0.5},
		{1, 2, 3, 0},
		{1.5, 2, 3, 0.5},
		{2, 3, 3, 0},
		{9, 3, 3, 0},
	} {
		i, j, f := keyframeSpan(times, x.t)
		if i != x.i || j != x.j || math.Abs(float64(f-x.f)) > 1e-6 {
			t.Fatalf("keyframeSpan(%v):\nhave %d, %d, %v\nwant %d, %d, %v", x.t, i, j, f, x.i, x.j, x.f)
		}
	}

	if i, j, f := keyframeSpan([]float32{3}, 5); i != 0 || j != 0 || f != 0 {
		t.Fatalf("keyframeSpan(single):\nhave %d, %d, %v", i, j, f)
	}
}

func TestKeyframeSpanNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	for _, x := range [...]struct {
		name  string
		times []float32
		t     float32
	}{
		{"NaN time", []float32{0, 1}, nan},
		{"NaN last key", []float32{0, nan}, 0.5},
		{"NaN first key", []float32{nan, 1}, 0.5},
		{"all NaN", []float32{nan, nan, nan}, nan},
	} {
		n := len(x.times)
		i, j, f := keyframeSpan(x.times, x.t)
		if i < 0 || i >= n || j < 0 || j >= n || i > j {
			t.Fatalf("%s: keyframeSpan:\nhave %d, %d\nwant indices in [0, %d]", x.name, i, j, n-1)
		}
		if !(f >= 0 && f <= 1) {
			t.Fatalf("%s: keyframeSpan factor:\nhave %v\nwant [0, 1]", x.name, f)
		}
	}
}

func TestSampleNonFiniteTime(t *testing.T) {
	tr := vectorTrack(t, model.InterpolationLinear, []float32{0, 1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 2, 0})
	tm := WrapTime(float32(math.Inf(1)), tr.LastTime())
	if have := Sample(tr, tm).Vector; !have.ApproxEqual(mgl32.Vec3{}) {
		t.Fatalf("Sample(WrapTime(+Inf)):\nhave %v\nwant first keyframe", have)
	}

	// Raw tracks can bypass validation; sampling must still stay in bounds.
	raw := &model.Track{
		Bone:          humanoid.Hips,
		Property:      model.PropertyTranslation,
		Interpolation: model.InterpolationLinear,
		Times:         []float32{0, float32(math.NaN())},
		Vectors:       []mgl32.Vec3{{0, 0, 0}, {0, 2, 0}},
	}
	_ = Sample(raw, 0.5)
	_ = Sample(raw, float32(math.NaN()))
}

func TestSampleFirstKeyframe(t *testing.T) {
	a := mgl32.Vec3{1, 2, 3}
	b := mgl32.Vec3{4, 5, 6}
	qa := mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0})
	qb := mgl32.QuatRotate(1.3, mgl32.Vec3{1, 0, 0})

	for _, interp := range [...]model.Interpolation{model.InterpolationStep, model.InterpolationLinear, model.InterpolationCubicSpline} {
		if v := Sample(vectorTrack(t, interp, []float32{0, 1}, a, b), 0); v.Vector != a {
			t.Fatalf("Sample(%v, 0):\nhave %v\nwant %v", interp, v.Vector, a)
		}
		if v := Sample(rotationTrack(t, interp, []float32{0, 1}, qa, qb), 0); v.Rotation != qa {
			t.Fatalf("Sample(%v, 0):\nhave %v\nwant %v", interp, v.Rotation, qa)
		}
	}
}

func TestSampleLinearMidpoint(t *testing.T) {
	tr := vectorTrack(t, model.InterpolationLinear, []float32{0, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 4, -6})
	if v := Sample(tr, 1); !common.Vec3ApproxEqual(v.Vector, mgl32.Vec3{1, 2, -3}) {
		t.Fatalf("Sample(linear, mid):\nhave %v\nwant (1, 2, -3)", v.Vector)
	}

	qa := mgl32.QuatIdent()
	qb := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	rt := rotationTrack(t, model.InterpolationLinear, []float32{0, 1}, qa, qb)
	if v := Sample(rt, 0.5); !common.QuatApproxEqual(v.Rotation, want) {
		t.Fatalf("Sample(rotation, mid):\nhave %v\nwant %v", v.Rotation, want)
	}

	// A target stored in the opposite hemisphere still takes the short arc.
	rt = rotationTrack(t, model.InterpolationLinear, []float32{0, 1}, qa, qb.Scale(-1))
	if v := Sample(rt, 0.5); !common.QuatApproxEqual(v.Rotation, want) {
		t.Fatalf("Sample(rotation, -q mid):\nhave %v\nwant %v", v.Rotation, want)
	}
}

func TestSampleStep(t *testing.T) {
	tr := vectorTrack(t, model.InterpolationStep, []float32{0, 1, 2}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{3, 0, 0})
	for _, x := range [...]struct {
		t    float32
		want float32
	}{{0.99, 1}, {1, 2}, {1.5, 2}, {2, 3}, {7, 3}} {
		if v := Sample(tr, x.t); v.Vector[0] != x.want {
			t.Fatalf("Sample(step, %v):\nhave %v\nwant %v", x.t, v.Vector[0], x.want)
		}
	}
}

func TestSampleCubicSplineMatchesLinear(t *testing.T) {
	times := []float32{0, 1}
	a, b := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}
	lin := Sample(vectorTrack(t, model.InterpolationLinear, times, a, b), 0.25)
	cub := Sample(vectorTrack(t, model.InterpolationCubicSpline, times, a, b), 0.25)
	if lin.Vector != cub.Vector {
		t.Fatalf("Sample(cubic):\nhave %v\nwant %v", cub.Vector, lin.Vector)
	}
}

func TestSampleBeforeFirstKeyframe(t *testing.T) {
	tr := vectorTrack(t, model.InterpolationLinear, []float32{0.5, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{3, 3, 3})
	if v := Sample(tr, 0.1); v.Vector != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("Sample(before first):\nhave %v\nwant first keyframe", v.Vector)
	}
}

func TestHipsScenario(t *testing.T) {
	tr := vectorTrack(t, model.InterpolationLinear, []float32{0, 1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	clip := &model.AnimationClip{Name: "hips", Duration: 1, Tracks: []*model.Track{tr}}
	for _, elapsed := range [...]float32{0.5, 1.5} {
		v := Sample(tr, WrapTime(elapsed, clip.Duration))
		if !common.Vec3ApproxEqual(v.Vector, mgl32.Vec3{0, 0.5, 0}) {
			t.Fatalf("Sample(%v):\nhave %v\nwant (0, 0.5, 0)", elapsed, v.Vector)
		}
	}

	// The loop boundary samples exactly like the start.
	if a, b := Sample(tr, WrapTime(clip.Duration, clip.Duration)), Sample(tr, 0); a != b {
		t.Fatalf("Sample(duration):\nhave %v\nwant %v", a, b)
	}
}

func TestSamplePoseCorrection(t *testing.T) {
	q := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0})
	tr := rotationTrack(t, model.InterpolationLinear, []float32{0}, q)

	// A half turn about Y on both sides mirrors the rotation axis through the Y axis.
	want := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{-1, 0, 0})
	if v := SamplePose(tr, 0, common.YFlip()); !common.QuatApproxEqual(v.Rotation, want) {
		t.Fatalf("SamplePose:\nhave %v\nwant %v", v.Rotation, want)
	}
	if v := SamplePose(tr, 0, mgl32.QuatIdent()); !common.QuatApproxEqual(v.Rotation, q) {
		t.Fatalf("SamplePose(identity):\nhave %v\nwant %v", v.Rotation, q)
	}

	vt := vectorTrack(t, model.InterpolationLinear, []float32{0}, mgl32.Vec3{1, 2, 3})
	if v := SamplePose(vt, 0, common.YFlip()); v.Vector != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("SamplePose(translation): correction must not touch vectors, have %v", v.Vector)
	}
}
