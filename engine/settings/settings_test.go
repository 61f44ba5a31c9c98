package settings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStoreDefaults(t *testing.T) {
	st := NewStore(Settings{Vrma: "a.vrma"})
	if have := st.TickRate(); have != DefaultTickRate {
		t.Fatalf("Store.TickRate:\nhave %v\nwant %v", have, DefaultTickRate)
	}
	if have := st.Clip(); have != "a.vrma" {
		t.Fatalf("Store.Clip:\nhave %q\nwant %q", have, "a.vrma")
	}
	if have := st.RegenerateToken(); have != 0 {
		t.Fatalf("Store.RegenerateToken:\nhave %d\nwant 0", have)
	}
}

func TestStoreTokens(t *testing.T) {
	st := NewStore(Default())

	st.SetModel("avatar.vrm")
	st.SetEnabled(false)
	if have := st.RegenerateToken(); have != 0 {
		t.Fatalf("SetModel/SetEnabled bumped token to %d", have)
	}

	st.SetVrma("walk.vrma")
	if have := st.RegenerateToken(); have != 1 {
		t.Fatalf("SetVrma:\nhave token %d\nwant 1", have)
	}
	st.SetVrma("walk.vrma")
	if have := st.RegenerateToken(); have != 2 {
		t.Fatalf("SetVrma (same path):\nhave token %d\nwant 2", have)
	}
	st.RequestRegenerate()
	if have := st.RegenerateToken(); have != 3 {
		t.Fatalf("RequestRegenerate:\nhave token %d\nwant 3", have)
	}

	s := st.Snapshot()
	if s.Regen != 3 || s.Model != "avatar.vrm" || s.Enabled {
		t.Fatalf("Store.Snapshot:\nhave %+v", s)
	}
}

func TestStoreApply(t *testing.T) {
	st := NewStore(Default())

	s := st.Snapshot()
	s.Vrma = "run.vrma"
	if err := st.Apply(s); err != nil {
		t.Fatalf("Store.Apply: %v", err)
	}
	if have := st.RegenerateToken(); have != 0 {
		t.Fatalf("Apply with same regen:\nhave token %d\nwant 0", have)
	}

	s.Regen = 7
	s.TickRate = 0
	if err := st.Apply(s); err != nil {
		t.Fatalf("Store.Apply: %v", err)
	}
	if st.RegenerateToken() != 1 || st.TickRate() != DefaultTickRate {
		t.Fatalf("Apply with new regen:\nhave token %d, rate %v", st.RegenerateToken(), st.TickRate())
	}

	s.TickRate = -1
	if err := st.Apply(s); !errors.Is(err, ErrInvalidTickRate) {
		t.Fatalf("Store.Apply:\nhave %v\nwant %v", err, ErrInvalidTickRate)
	}
	if have := st.TickRate(); have != DefaultTickRate {
		t.Fatalf("invalid settings applied: tick rate %v", have)
	}
}

func TestSettingsValidateTickRate(t *testing.T) {
	for _, x := range [...]struct {
		rate float64
		ok   bool
	}{
		{0, true},
		{60, true},
		{MaxTickRate, true},
		{-1, false},
		{2e9, false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
		{math.NaN(), false},
	} {
		s := Default()
		s.TickRate = x.rate
		err := s.Validate()
		if have := err == nil; have != x.ok {
			t.Fatalf("Validate(tick_rate=%v):\nhave %v\nwant ok=%v", x.rate, err, x.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidTickRate) {
			t.Fatalf("Validate(tick_rate=%v):\nhave %v\nwant %v", x.rate, err, ErrInvalidTickRate)
		}
	}
}

func TestStoreLoadRejectsInfiniteTickRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("vrma: walk.vrma\ntick_rate: .inf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := NewStore(Default())
	if err := st.Load(path); !errors.Is(err, ErrInvalidTickRate) {
		t.Fatalf("Store.Load:\nhave %v\nwant %v", err, ErrInvalidTickRate)
	}
	if have := st.TickRate(); have != DefaultTickRate {
		t.Fatalf("Store.TickRate after rejected load:\nhave %v\nwant %v", have, DefaultTickRate)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	st := NewStore(Settings{Model: "avatar.vrm", Vrma: "walk.vrma", Enabled: true, TickRate: 30})
	st.RequestRegenerate()
	if err := st.Save(path); err != nil {
		t.Fatalf("Store.Save: %v", err)
	}

	other := NewStore(Default())
	if err := other.Load(path); err != nil {
		t.Fatalf("Store.Load: %v", err)
	}
	if have, want := other.Snapshot(), st.Snapshot(); have != want {
		t.Fatalf("Store.Load:\nhave %+v\nwant %+v", have, want)
	}
}

func TestReadFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("vrma: dance.vrma\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := Default()
	want.Vrma = "dance.vrma"
	if s != want {
		t.Fatalf("ReadFile:\nhave %+v\nwant %+v", s, want)
	}

	if err := os.WriteFile(path, []byte("enabled: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("ReadFile: want error for malformed YAML")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadFile:\nhave %v\nwant %v", err, os.ErrNotExist)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("vrma: walk.vrma\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	st := NewStore(Default())
	w, err := NewWatcher(st, path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("vrma: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("vrma: run.vrma\nregen: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-w.Events:
		if s.Vrma != "run.vrma" {
			t.Fatalf("Watcher.Events:\nhave %+v", s)
		}
	case err := <-w.Errors:
		t.Fatalf("Watcher.Errors: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	if st.Clip() != "run.vrma" || st.RegenerateToken() != 1 {
		t.Fatalf("store after reload:\nhave clip %q token %d", st.Clip(), st.RegenerateToken())
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	w, err := NewWatcher(NewStore(Default()), path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Watcher.Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Watcher.Close (second): %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatal("Watcher.Events still open after Close")
	}
}

func TestStoreDrop(t *testing.T) {
	st := NewStore(Default())
	st.Drop([]string{"/tmp/avatar.vrm", "/tmp/Dance.VRMA"})
	if st.Model() != "/tmp/avatar.vrm" || st.Clip() != "/tmp/Dance.VRMA" {
		t.Fatalf("Store.Drop:\nhave model %q clip %q", st.Model(), st.Clip())
	}
	if have := st.RegenerateToken(); have != 2 {
		t.Fatalf("Store.Drop:\nhave token %d\nwant 2", have)
	}

	st.Drop([]string{"/tmp/other.glb"})
	if st.Model() != "/tmp/other.glb" || st.Clip() != "/tmp/Dance.VRMA" {
		t.Fatalf("Store.Drop(model):\nhave model %q clip %q", st.Model(), st.Clip())
	}
}
