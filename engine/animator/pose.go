package animator

import (
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// CaptureRestPose snapshots the current local transform of every joint the clip animates.
// Joints the clip never touches are left out.
//
// Parameters:
//   - joints: the live skeleton joints
//   - clip: the clip about to be played
//
// Returns:
//   - model.RestPose: the captured transforms keyed by bone
func CaptureRestPose(joints []model.Joint, clip *model.AnimationClip) model.RestPose {
	animated := make(map[humanoid.Bone]bool, len(clip.Tracks))
	for _, t := range clip.Tracks {
		animated[t.Bone] = true
	}

	rest := make(model.RestPose, len(animated))
	for _, j := range joints {
		if j.Transform == nil || !animated[j.Bone] {
			continue
		}
		if _, seen := rest[j.Bone]; !seen {
			rest[j.Bone] = *j.Transform
		}
	}
	return rest
}

// RestorePose puts every joint with rest data back at its rest transform.
//
// Parameters:
//   - joints: the live skeleton joints
//   - rest: the rest pose captured for the current clip
func RestorePose(joints []model.Joint, rest model.RestPose) {
	for _, j := range joints {
		if j.Transform == nil {
			continue
		}
		if r, ok := rest[j.Bone]; ok {
			*j.Transform = r
		}
	}
}

// ApplyPose drives the skeleton with the clip at time t. Every joint with rest data is first
// reset to its rest transform, then each of its tracks overwrites its own channel.
//
// Parameters:
//   - joints: the live skeleton joints
//   - clip: the clip to sample
//   - rest: the rest pose captured for clip
//   - t: the wrapped playback time in seconds
//   - correction: the rotation fix-up passed to SamplePose
func ApplyPose(joints []model.Joint, clip *model.AnimationClip, rest model.RestPose, t float32, correction mgl32.Quat) {
	byBone := make(map[humanoid.Bone][]*model.Track, len(rest))
	for _, tr := range clip.Tracks {
		if _, ok := rest[tr.Bone]; ok {
			byBone[tr.Bone] = append(byBone[tr.Bone], tr)
		}
	}

	for _, j := range joints {
		if j.Transform == nil {
			continue
		}
		r, ok := rest[j.Bone]
		if !ok {
			continue
		}
		*j.Transform = r
		for _, tr := range byBone[j.Bone] {
			SamplePose(tr, t, correction).apply(j.Transform)
		}
	}
}
