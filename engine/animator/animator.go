// Package animator samples humanoid animation clips and drives a skeleton with them.
// The Animator owns the clip and rest pose of one skeleton and reloads them whenever
// the clip selection changes.
package animator

import (
	"errors"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/asset"
	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// Selection is the source of the active clip choice, typically a settings store.
type Selection interface {
	// Clip returns the path of the selected clip, or "" for none.
	Clip() string

	// Enabled reports whether playback is on.
	Enabled() bool

	// RegenerateToken changes every time a reimport of the current clip is requested.
	RegenerateToken() uint64
}

// DocumentSource hands out asset handles for clip documents.
type DocumentSource interface {
	// Load returns a handle for path, reusing an earlier decode when possible.
	Load(path string) asset.Handle

	// Reload returns a handle for a fresh decode of path.
	Reload(path string) asset.Handle
}

// Skeleton is the scene-side view of a rig: joints with writable local transforms.
type Skeleton interface {
	Joints() []model.Joint
}

// Importer turns a decoded document into a clip.
type Importer func(doc *loader.Document) (*model.AnimationClip, error)

var errHandleFailed = errors.New("document failed to decode")

// request identifies one load: the selected clip, the regenerate token, and the skeleton it
// was issued for.
type request struct {
	clip     string
	token    uint64
	skeleton uint64
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu sync.RWMutex

	name       string
	selection  Selection
	source     DocumentSource
	skeleton   Skeleton
	importer   Importer
	correction mgl32.Quat

	state     State
	clip      *model.AnimationClip
	rest      model.RestPose
	err       error
	loads     int
	time      float32
	requested request
	issued    bool
	skelGen   uint64

	doneMu    sync.Mutex
	pending   asset.Handle
	completed asset.Handle
}

// Animator defines the public interface of the animation context of one skeleton.
//
// Each Tick compares the selection with what is loaded, requests a new document when they
// differ, imports it once its handle completes, and then either applies the clip at the
// current playback time or, when playback is disabled, holds the skeleton at its rest pose.
// A failed load keeps the previous clip playing and is only retried when the selection or
// regenerate token changes.
type Animator interface {
	// Tick advances the animator by deltaTime seconds.
	// Tick must not be called concurrently with itself or SetSkeleton.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// SetSkeleton swaps the driven skeleton and forces a reload of the selected clip.
	// The previous skeleton is put back at its rest pose first.
	//
	// Parameters:
	//   - s: the new skeleton, may be nil
	SetSkeleton(s Skeleton)

	// State returns the current load state.
	//
	// Returns:
	//   - State: empty, loading, or ready
	State() State

	// Clip returns the clip being played, or nil.
	//
	// Returns:
	//   - *model.AnimationClip: the current clip
	Clip() *model.AnimationClip

	// RestPose returns the rest pose captured for the current clip, or nil.
	//
	// Returns:
	//   - model.RestPose: the rest transforms keyed by bone
	RestPose() model.RestPose

	// Err returns the failure of the latest load attempt, or nil.
	//
	// Returns:
	//   - error: the decode or import failure
	Err() error

	// Loads returns how many clips have been imported successfully.
	//
	// Returns:
	//   - int: the successful import count
	Loads() int

	// Time returns the wrapped playback time in seconds.
	//
	// Returns:
	//   - float32: the playback time
	Time() float32
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator.
//
// Parameters:
//   - selection: the source of the selected clip, enable flag, and regenerate token
//   - source: the asset pipeline that decodes clip documents
//   - skeleton: the skeleton to drive, may be nil until a model is loaded
//   - options: a variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: the animator in the empty state
func NewAnimator(selection Selection, source DocumentSource, skeleton Skeleton, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		name:       "animator",
		selection:  selection,
		source:     source,
		skeleton:   skeleton,
		importer:   loader.ImportClip,
		correction: common.YFlip(),
		state:      StateEmpty,
	}

	for _, option := range options {
		option(a)
	}
	return a
}

func (a *animator) Tick(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var joints []model.Joint
	if a.skeleton != nil {
		joints = a.skeleton.Joints()
	}

	want := request{
		clip:     a.selection.Clip(),
		token:    a.selection.RegenerateToken(),
		skeleton: a.skelGen,
	}

	if want.clip == "" {
		if a.state != StateEmpty {
			a.clearLocked(joints)
		}
		return
	}

	if len(joints) > 0 && (!a.issued || want != a.requested) {
		a.requestLocked(want)
	}

	justLoaded := a.receiveLocked(joints)

	if a.clip == nil || a.rest == nil {
		return
	}
	if !a.selection.Enabled() {
		RestorePose(joints, a.rest)
		return
	}
	if !justLoaded {
		a.time = WrapTime(a.time+deltaTime, a.clip.Duration)
	}
	ApplyPose(joints, a.clip, a.rest, a.time, a.correction)
}

// requestLocked asks the document source for the selected clip.
// A changed regenerate token bypasses the decode cache.
func (a *animator) requestLocked(want request) {
	var h asset.Handle
	if a.issued && want.token != a.requested.token {
		h = a.source.Reload(want.clip)
	} else {
		h = a.source.Load(want.clip)
	}

	a.requested = want
	a.issued = true
	a.state = StateLoading
	a.err = nil

	a.doneMu.Lock()
	a.pending = h
	a.completed = nil
	a.doneMu.Unlock()

	h.Subscribe(a.onComplete)
}

// onComplete records h if it is still the outstanding request. It may run on any goroutine.
func (a *animator) onComplete(h asset.Handle) {
	a.doneMu.Lock()
	if h == a.pending {
		a.completed = h
	}
	a.doneMu.Unlock()
}

// receiveLocked imports a completed document, if any, and reports whether a new clip was
// installed.
func (a *animator) receiveLocked(joints []model.Joint) bool {
	a.doneMu.Lock()
	h := a.completed
	if h != nil {
		a.completed = nil
		a.pending = nil
	}
	a.doneMu.Unlock()
	if h == nil {
		return false
	}

	if h.State() != asset.HandleStateReady {
		a.err = errors.Join(errHandleFailed, h.Err())
		log.Printf("[Animator] %s: failed to load %s: %v", a.name, h.Path(), h.Err())
		return false
	}

	clip, err := a.importer(h.Document())
	if err != nil {
		a.err = err
		log.Printf("[Animator] %s: failed to import %s: %v", a.name, h.Path(), err)
		return false
	}

	// Restore first so the new snapshot never captures an animated pose.
	RestorePose(joints, a.rest)
	a.rest = CaptureRestPose(joints, clip)
	a.clip = clip
	a.time = 0
	a.loads++
	a.err = nil
	a.state = StateReady
	log.Printf("[Animator] %s: playing %q from %s (%d tracks, %.2fs, %d bones at rest)",
		a.name, clip.Name, h.Path(), len(clip.Tracks), clip.Duration, len(a.rest))
	return true
}

// clearLocked drops the clip after the selection was cleared.
func (a *animator) clearLocked(joints []model.Joint) {
	RestorePose(joints, a.rest)
	a.clip = nil
	a.rest = nil
	a.err = nil
	a.time = 0
	a.issued = false
	a.requested = request{}
	a.state = StateEmpty

	a.doneMu.Lock()
	a.pending = nil
	a.completed = nil
	a.doneMu.Unlock()
}

func (a *animator) SetSkeleton(s Skeleton) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.skeleton != nil {
		RestorePose(a.skeleton.Joints(), a.rest)
	}
	a.skeleton = s
	a.rest = nil
	a.skelGen++
	if a.state == StateReady {
		a.state = StateLoading
	}
}

func (a *animator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *animator) Clip() *model.AnimationClip {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.clip
}

func (a *animator) RestPose() model.RestPose {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rest
}

func (a *animator) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

func (a *animator) Loads() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loads
}

func (a *animator) Time() float32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.time
}
