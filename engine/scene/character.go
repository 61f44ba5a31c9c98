package scene

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-vrma/engine/animator"
	"github.com/Carmen-Shannon/oxy-vrma/engine/asset"
	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"
)

// Selection is what a character needs from the settings: the avatar path plus the clip
// selection its animator follows.
type Selection interface {
	animator.Selection

	// Model returns the path of the avatar to animate, or "" for none.
	Model() string
}

// RigExtractor builds a fresh rig from a decoded avatar document.
type RigExtractor func(doc *loader.Document) (*model.Rig, error)

// character is the implementation of the Character interface.
type character struct {
	name      string
	selection Selection
	assets    asset.Server
	extract   RigExtractor
	animOpts  []animator.AnimatorBuilderOption

	anim      animator.Animator
	rig       *model.Rig
	modelPath string
	err       error

	doneMu    sync.Mutex
	pending   asset.Handle
	completed asset.Handle
}

// Character is one avatar in a Stage: the rig extracted from the selected model and the
// animator that drives it.
type Character interface {
	// Name returns the unique character name.
	//
	// Returns:
	//   - string: the character name
	Name() string

	// Tick follows model changes and advances the animator.
	// Tick must not be called concurrently with itself.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// Rig returns the skeleton currently being driven, or nil before a model loads.
	//
	// Returns:
	//   - *model.Rig: the rig
	Rig() *model.Rig

	// Animator returns the animation context of the character.
	//
	// Returns:
	//   - animator.Animator: the animator
	Animator() animator.Animator

	// ModelPath returns the model path the character last requested.
	//
	// Returns:
	//   - string: the model path
	ModelPath() string

	// Err returns the failure of the latest model load, or nil.
	//
	// Returns:
	//   - error: the decode or rig extraction failure
	Err() error
}

var _ Character = &character{}

// NewCharacter creates a new Character. Both the avatar and its clips are decoded
// through assets.
//
// Parameters:
//   - name: the unique character name
//   - selection: the avatar and clip selection to follow
//   - assets: the asset server used for model and clip documents
//   - options: a variadic list of CharacterBuilderOption functions
//
// Returns:
//   - Character: the character, without a rig until the first Tick loads one
func NewCharacter(name string, selection Selection, assets asset.Server, options ...CharacterBuilderOption) Character {
	c := &character{
		name:      name,
		selection: selection,
		assets:    assets,
		extract:   loader.ExtractRig,
	}

	for _, option := range options {
		option(c)
	}

	opts := append([]animator.AnimatorBuilderOption{animator.WithName(name)}, c.animOpts...)
	c.anim = animator.NewAnimator(selection, assets, nil, opts...)
	return c
}

func (c *character) Name() string {
	return c.name
}

func (c *character) Tick(deltaTime float32) {
	if want := c.selection.Model(); want != c.modelPath {
		c.requestModel(want)
	}
	c.receiveModel()
	c.anim.Tick(deltaTime)
}

// requestModel starts loading path, or drops the rig when path is empty.
func (c *character) requestModel(path string) {
	c.modelPath = path
	c.err = nil

	c.doneMu.Lock()
	c.pending = nil
	c.completed = nil
	c.doneMu.Unlock()

	if path == "" {
		c.rig = nil
		c.anim.SetSkeleton(nil)
		return
	}

	h := c.assets.Load(path)
	c.doneMu.Lock()
	c.pending = h
	c.doneMu.Unlock()
	h.Subscribe(c.onModel)
}

func (c *character) onModel(h asset.Handle) {
	c.doneMu.Lock()
	if h == c.pending {
		c.completed = h
	}
	c.doneMu.Unlock()
}

// receiveModel swaps in the rig of a completed model document. A failed load keeps the
// previous rig.
func (c *character) receiveModel() {
	c.doneMu.Lock()
	h := c.completed
	if h != nil {
		c.completed = nil
		c.pending = nil
	}
	c.doneMu.Unlock()
	if h == nil {
		return
	}

	if h.State() != asset.HandleStateReady {
		c.err = h.Err()
		log.Printf("[Scene] %s: failed to load model %s: %v", c.name, h.Path(), c.err)
		return
	}

	rig, err := c.extract(h.Document())
	if err != nil {
		c.err = err
		log.Printf("[Scene] %s: no usable skeleton in %s: %v", c.name, h.Path(), err)
		return
	}

	c.rig = rig
	c.anim.SetSkeleton(rig)
	log.Printf("[Scene] %s: loaded model %s (%d humanoid joints)", c.name, h.Path(), len(rig.Joints()))
}

func (c *character) Rig() *model.Rig {
	return c.rig
}

func (c *character) Animator() animator.Animator {
	return c.anim
}

func (c *character) ModelPath() string {
	return c.modelPath
}

func (c *character) Err() error {
	return c.err
}
