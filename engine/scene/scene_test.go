package scene

import (
	"errors"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine/animator"
	"github.com/Carmen-Shannon/oxy-vrma/engine/asset"
	"github.com/Carmen-Shannon/oxy-vrma/engine/humanoid"
	"github.com/Carmen-Shannon/oxy-vrma/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"
	"github.com/Carmen-Shannon/oxy-vrma/engine/settings"

	"github.com/go-gl/mathgl/mgl32"
)

type countingCharacter struct {
	name  string
	ticks atomic.Int32
}

func (c *countingCharacter) Name() string                { return c.name }
func (c *countingCharacter) Tick(float32)                { c.ticks.Add(1) }
func (c *countingCharacter) Rig() *model.Rig             { return nil }
func (c *countingCharacter) Animator() animator.Animator { return nil }
func (c *countingCharacter) ModelPath() string           { return "" }
func (c *countingCharacter) Err() error                  { return nil }

// writeAssets writes an avatar and a clip sharing the Walk skeleton.
func writeAssets(t *testing.T) (avatar, clip string) {
	t.Helper()
	dir := t.TempDir()
	avatar, err := loadertest.Walk().NoAnimation().WriteFile(dir, "avatar.vrm")
	if err != nil {
		t.Fatal(err)
	}
	clip, err = loadertest.Walk().WriteFile(dir, "walk.vrma")
	if err != nil {
		t.Fatal(err)
	}
	return avatar, clip
}

func tickUntil(t *testing.T, s Stage, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		s.Tick(0)
		time.Sleep(time.Millisecond)
	}
}

func ready(c Character) func() bool {
	return func() bool {
		return c.Rig() != nil && c.Animator().State() == animator.StateReady
	}
}

func legRotation(t *testing.T, c Character) mgl32.Quat {
	t.Helper()
	j, ok := c.Rig().Joint(humanoid.LeftUpperLeg)
	if !ok {
		t.Fatalf("%s: rig has no LeftUpperLeg", c.Name())
	}
	return j.Transform.Rotation
}

func TestStageAnimatesCharacters(t *testing.T) {
	avatar, clip := writeAssets(t)
	store := settings.NewStore(settings.Settings{Model: avatar, Vrma: clip, Enabled: true})
	assets := asset.NewServer(asset.WithWorkers(2))
	defer assets.Close()

	identity := WithAnimatorOptions(animator.WithCorrection(mgl32.QuatIdent()))
	alice := NewCharacter("alice", store, assets, identity)
	bob := NewCharacter("bob", store, assets, identity)
	s := NewStage("test", WithCharacters(alice, bob), WithTickWorkers(2))
	defer s.Close()

	tickUntil(t, s, "characters", func() bool { return ready(alice)() && ready(bob)() })
	if alice.Rig() == bob.Rig() {
		t.Fatal("characters share a rig")
	}

	s.Tick(0.5)
	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{1, 0, 0})
	for _, c := range s.Characters() {
		if have := legRotation(t, c); !common.QuatApproxEqual(have, want) {
			t.Fatalf("%s LeftUpperLeg:\nhave %v\nwant %v", c.Name(), have, want)
		}
	}
}

func TestCharacterModelChange(t *testing.T) {
	avatar, clip := writeAssets(t)
	other, err := loadertest.Walk().NoAnimation().WriteFile(t.TempDir(), "other.vrm")
	if err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(settings.Settings{Model: avatar, Vrma: clip, Enabled: true})
	assets := asset.NewServer()
	defer assets.Close()
	c := NewCharacter("solo", store, assets)
	s := NewStage("test", WithCharacters(c))
	defer s.Close()

	tickUntil(t, s, "first model", ready(c))
	s.Tick(0.5)
	first := c.Rig()
	if have := legRotation(t, c); common.QuatApproxEqual(have, mgl32.QuatIdent()) {
		t.Fatal("first rig not animated")
	}

	store.SetModel(other)
	tickUntil(t, s, "second model", func() bool { return c.Rig() != first && ready(c)() })
	if c.ModelPath() != other {
		t.Fatalf("Character.ModelPath:\nhave %q\nwant %q", c.ModelPath(), other)
	}

	// The old rig is left at its rest pose.
	j, _ := first.Joint(humanoid.LeftUpperLeg)
	if !common.QuatApproxEqual(j.Transform.Rotation, mgl32.QuatIdent()) {
		t.Fatalf("old rig LeftUpperLeg:\nhave %v\nwant identity", j.Transform.Rotation)
	}
	if loads := c.Animator().Loads(); loads != 2 {
		t.Fatalf("Animator.Loads after model change:\nhave %d\nwant 2", loads)
	}
}

func TestCharacterModelFailure(t *testing.T) {
	_, clip := writeAssets(t)
	store := settings.NewStore(settings.Settings{Model: filepath.Join(t.TempDir(), "missing.vrm"), Vrma: clip, Enabled: true})
	assets := asset.NewServer()
	defer assets.Close()
	c := NewCharacter("solo", store, assets)
	s := NewStage("test", WithCharacters(c))
	defer s.Close()

	tickUntil(t, s, "model failure", func() bool { return c.Err() != nil })
	if c.Rig() != nil || c.Animator().State() != animator.StateEmpty {
		t.Fatalf("failed model:\nhave rig %v, state %v", c.Rig(), c.Animator().State())
	}
}

func TestCharacterNoHumanoid(t *testing.T) {
	_, clip := writeAssets(t)
	b := loadertest.New().NoAnimation()
	b.Node("Cube")
	prop, err := b.WriteFile(t.TempDir(), "prop.glb")
	if err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(settings.Settings{Model: prop, Vrma: clip, Enabled: true})
	assets := asset.NewServer()
	defer assets.Close()
	c := NewCharacter("solo", store, assets)
	s := NewStage("test", WithCharacters(c))
	defer s.Close()

	tickUntil(t, s, "extraction failure", func() bool { return c.Err() != nil })
	if c.Rig() != nil {
		t.Fatal("rig installed from a document without humanoid bones")
	}
}

func TestStageCharacters(t *testing.T) {
	a := &countingCharacter{name: "a"}
	b := &countingCharacter{name: "b"}
	s := NewStage("test", WithCharacters(a))
	defer s.Close()

	if err := s.Add(b); err != nil {
		t.Fatalf("Stage.Add: %v", err)
	}
	if err := s.Add(&countingCharacter{name: "a"}); !errors.Is(err, ErrDuplicateCharacter) {
		t.Fatalf("Stage.Add(duplicate):\nhave %v\nwant %v", err, ErrDuplicateCharacter)
	}
	if have := s.Characters(); len(have) != 2 || have[0] != a || have[1] != b {
		t.Fatalf("Stage.Characters:\nhave %v", have)
	}

	for range 3 {
		s.Tick(1.0 / 60)
	}
	if a.ticks.Load() != 3 || b.ticks.Load() != 3 {
		t.Fatalf("ticks:\nhave %d, %d\nwant 3, 3", a.ticks.Load(), b.ticks.Load())
	}

	s.Remove("a")
	s.Remove("missing")
	if s.Count() != 1 || s.Get("a") != nil || s.Get("b") != b {
		t.Fatalf("Stage.Remove:\nhave %d characters", s.Count())
	}
}

type panickingCharacter struct {
	countingCharacter
}

func (c *panickingCharacter) Tick(float32) {
	c.ticks.Add(1)
	panic("index out of range")
}

func TestStageRecoversCharacterPanic(t *testing.T) {
	bad := &panickingCharacter{countingCharacter{name: "bad"}}
	good := &countingCharacter{name: "good"}
	s := NewStage("test", WithCharacters(bad, good))
	defer s.Close()

	for range 2 {
		s.Tick(1.0 / 60)
	}
	if bad.ticks.Load() != 2 || good.ticks.Load() != 2 {
		t.Fatalf("ticks:\nhave %d, %d\nwant 2, 2", bad.ticks.Load(), good.ticks.Load())
	}
}

func TestStageInactiveAndClosed(t *testing.T) {
	c := &countingCharacter{name: "c"}
	s := NewStage("test", WithCharacters(c), WithActive(false))

	s.Tick(1)
	if c.ticks.Load() != 0 {
		t.Fatal("inactive stage ticked")
	}

	s.SetActive(true)
	s.Tick(1)
	s.Close()
	s.Close()
	s.Tick(1)
	if have := c.ticks.Load(); have != 1 {
		t.Fatalf("ticks:\nhave %d\nwant 1", have)
	}
}
