package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

func testRig() *model.Rig {
	hips := common.IdentityTransform()
	hips.Translation = mgl32.Vec3{0, 1, 0}
	leg := common.IdentityTransform()
	leg.Scale = mgl32.Vec3{1, 2, 1}
	head := common.IdentityTransform()
	return model.NewRig("test", []model.Joint{
		{Bone: humanoid.Hips, Name: "Hips", Node: 0, Parent: -1, Transform: &hips},
		{Bone: humanoid.LeftUpperLeg, Name: "LeftUpLeg", Node: 1, Parent: 0, Transform: &leg},
		{Bone: humanoid.Head, Name: "Head", Node: 2, Parent: 0, Transform: &head},
	})
}

func joint(t *testing.T, r *model.Rig, b humanoid.Bone) *common.Transform {
	t.Helper()
	j, ok := r.Joint(b)
	if !ok {
		t.Fatalf("rig has no %v", b)
	}
	return j.Transform
}

func TestCaptureRestPose(t *testing.T) {
	rig := testRig()
	clip := &model.AnimationClip{Tracks: []*model.Track{
		{Bone: humanoid.Hips, Property: model.PropertyTranslation, Times: []float32{0}, Vectors: []mgl32.Vec3{{0, 0, 0}}},
		{Bone: humanoid.Hips, Property: model.PropertyScale, Times: []float32{0}, Vectors: []mgl32.Vec3{{1, 1, 1}}},
		{Bone: humanoid.LeftFoot, Property: model.PropertyScale, Times: []float32{0}, Vectors: []mgl32.Vec3{{1, 1, 1}}},
	}}
	rest := CaptureRestPose(rig.Joints(), clip)
	if len(rest) != 1 {
		t.Fatalf("CaptureRestPose:\nhave %d bones\nwant 1", len(rest))
	}
	if r := rest[humanoid.Hips]; r.Translation != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("rest[Hips]:\nhave %+v", r)
	}
}

func TestApplyAndRestorePose(t *testing.T) {
	rig := testRig()
	clip := &model.AnimationClip{Duration: 1, Tracks: []*model.Track{
		{Bone: humanoid.Hips, Property: model.PropertyTranslation, Times: []float32{0, 1}, Vectors: []mgl32.Vec3{{0, 0, 0}, {0, 2, 0}}},
		{Bone: humanoid.Hips, Property: model.PropertyRotation, Times: []float32{0}, Rotations: []mgl32.Quat{mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})}},
		{Bone: humanoid.LeftUpperLeg, Property: model.PropertyTranslation, Times: []float32{0}, Vectors: []mgl32.Vec3{{5, 5, 5}}},
	}}
	rest := CaptureRestPose(rig.Joints(), clip)

	// Dirty a channel no track drives; reset-then-apply must clear it.
	joint(t, rig, humanoid.Hips).Scale = mgl32.Vec3{9, 9, 9}
	*joint(t, rig, humanoid.Head) = common.Transform{Scale: mgl32.Vec3{3, 3, 3}, Rotation: mgl32.QuatIdent()}

	ApplyPose(rig.Joints(), clip, rest, 0.5, mgl32.QuatIdent())

	hips := joint(t, rig, humanoid.Hips)
	if !common.Vec3ApproxEqual(hips.Translation, mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("hips translation:\nhave %v\nwant (0, 1, 0)", hips.Translation)
	}
	if !common.QuatApproxEqual(hips.Rotation, mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})) {
		t.Fatalf("hips rotation:\nhave %v", hips.Rotation)
	}
	if hips.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("hips scale:\nhave %v\nwant rest scale", hips.Scale)
	}
	leg := joint(t, rig, humanoid.LeftUpperLeg)
	if leg.Translation != (mgl32.Vec3{5, 5, 5}) || leg.Scale != (mgl32.Vec3{1, 2, 1}) {
		t.Fatalf("leg:\nhave %+v", *leg)
	}
	if head := joint(t, rig, humanoid.Head); head.Scale != (mgl32.Vec3{3, 3, 3}) {
		t.Fatalf("head: joints without rest data must be left alone, have %+v", *head)
	}

	RestorePose(rig.Joints(), rest)
	if !hips.ApproxEqual(rest[humanoid.Hips]) || !leg.ApproxEqual(rest[humanoid.LeftUpperLeg]) {
		t.Fatalf("RestorePose:\nhave %+v, %+v", *hips, *leg)
	}
}
