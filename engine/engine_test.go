package engine

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vrma/engine/animator"
	"github.com/Carmen-Shannon/oxy-vrma/engine/model"
	"github.com/Carmen-Shannon/oxy-vrma/engine/scene"
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

type fakeWindow struct {
	closeReq chan struct{}
	closed   atomic.Bool
}

func (w *fakeWindow) ProcessMessages() { <-w.closeReq }
func (w *fakeWindow) RequestClose()    { close(w.closeReq) }
func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}

func runAsync(e Engine) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestEngineTicksStages(t *testing.T) {
	c := &countingCharacter{name: "c"}
	s := scene.NewStage("test", scene.WithCharacters(c))
	defer s.Close()

	var callbacks atomic.Int32
	e := NewEngine(WithTickRate(500), WithStage(0, s))
	e.SetTickCallback(func(dt float32) {
		if dt <= 0 {
			t.Errorf("tick callback: non-positive delta %v", dt)
		}
		callbacks.Add(1)
	})

	done := runAsync(e)
	deadline := time.Now().Add(5 * time.Second)
	for c.ticks.Load() < 5 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for ticks")
		}
		time.Sleep(time.Millisecond)
	}
	e.Quit()
	e.Quit()
	waitDone(t, done)

	if callbacks.Load() < 5 {
		t.Fatalf("tick callback:\nhave %d calls\nwant at least 5", callbacks.Load())
	}
}

func TestEngineWindowQuit(t *testing.T) {
	w := &fakeWindow{closeReq: make(chan struct{})}
	e := NewEngine(WithWindow(w))
	if e.Window() != w {
		t.Fatal("Engine.Window: not the configured window")
	}

	done := runAsync(e)
	e.Quit()
	waitDone(t, done)
	if !w.closed.Load() {
		t.Fatal("Run: window not closed on exit")
	}
}

func TestEngineTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(0))
	if have := e.TickRate(); have != time.Second/60 {
		t.Fatalf("TickRate default:\nhave %v\nwant %v", have, time.Second/60)
	}
	e.SetTickRate(120)
	if have, want := e.TickRate(), tickInterval(120); have != want {
		t.Fatalf("SetTickRate:\nhave %v\nwant %v", have, want)
	}
	if have, want := e.TickRate(), time.Second/120; have != want {
		t.Fatalf("SetTickRate(120):\nhave %v\nwant %v", have, want)
	}
}

func TestTickInterval(t *testing.T) {
	for _, x := range [...]struct {
		fps  float64
		want time.Duration
	}{
		{60, time.Second / 60},
		{0, time.Second / 60},
		{-5, time.Second / 60},
		{math.NaN(), time.Second / 60},
		{math.Inf(1), time.Second / 60},
		{math.Inf(-1), time.Second / 60},
		{1e9, time.Nanosecond},
		{2e9, time.Nanosecond},
	} {
		if have := tickInterval(x.fps); have != x.want {
			t.Fatalf("tickInterval(%v):\nhave %v\nwant %v", x.fps, have, x.want)
		}
	}
}

func TestEngineStages(t *testing.T) {
	a := scene.NewStage("a")
	defer a.Close()
	e := NewEngine()
	e.AddStage(1, a)
	if e.Stage(1) != a || len(e.Stages()) != 1 {
		t.Fatal("AddStage: stage not registered")
	}
	e.RemoveStage(1)
	if e.Stage(1) != nil {
		t.Fatal("RemoveStage: stage still registered")
	}
}
