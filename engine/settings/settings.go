// Package settings holds the user's playback selection and keeps it in sync with a YAML file.
package settings

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-vrma/common"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTickRate is the animation tick rate used when the settings leave it unset.
	DefaultTickRate = 60.0

	// MaxTickRate is the highest accepted tick rate; above it the tick interval rounds to zero.
	MaxTickRate = 1e9
)

var ErrInvalidTickRate = errors.New("tick rate must be a finite number in [0, 1e9]")

// Settings is the on-disk form of the selection.
type Settings struct {
	// Model is the path of the avatar (.vrm/.glb/.gltf) to animate.
	Model string `yaml:"model"`

	// Vrma is the path of the selected animation clip, empty for none.
	Vrma string `yaml:"vrma"`

	// Enabled turns playback on; when off the avatar holds its rest pose.
	Enabled bool `yaml:"enabled"`

	// Regen is bumped to force the selected clip to be reimported from disk.
	Regen uint64 `yaml:"regen"`

	// TickRate is the animation update rate in ticks per second.
	TickRate float64 `yaml:"tick_rate"`
}

// Default returns the settings used for keys missing from a settings file.
func Default() Settings {
	return Settings{Enabled: true, TickRate: DefaultTickRate}
}

// Validate reports whether s can be applied.
func (s Settings) Validate() error {
	if s.TickRate < 0 || s.TickRate > MaxTickRate || math.IsNaN(s.TickRate) {
		return fmt.Errorf("%w: %v", ErrInvalidTickRate, s.TickRate)
	}
	return nil
}

// Store is the live selection shared by the window, the settings watcher, and the animators.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	s     Settings
	token uint64
}

// NewStore creates a Store holding s, with unset fields taken from Default.
//
// Parameters:
//   - s: the initial settings
//
// Returns:
//   - *Store: the store
func NewStore(s Settings) *Store {
	s.TickRate = common.Coalesce(s.TickRate, DefaultTickRate)
	return &Store{s: s}
}

// Clip returns the selected clip path.
func (st *Store) Clip() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Vrma
}

// Model returns the selected avatar path.
func (st *Store) Model() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Model
}

// Enabled reports whether playback is on.
func (st *Store) Enabled() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Enabled
}

// TickRate returns the animation tick rate in ticks per second.
func (st *Store) TickRate() float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.TickRate
}

// RegenerateToken changes every time a reimport of the selected clip is requested.
func (st *Store) RegenerateToken() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.token
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// SetVrma selects a clip the way a file drop does: the clip is reimported even when the
// path is unchanged.
//
// Parameters:
//   - path: the clip path, "" clears the selection
func (st *Store) SetVrma(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Vrma = path
	st.regenerateLocked()
}

// SetModel selects the avatar.
//
// Parameters:
//   - path: the avatar path
func (st *Store) SetModel(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Model = path
}

// SetEnabled turns playback on or off.
//
// Parameters:
//   - enabled: the new playback flag
func (st *Store) SetEnabled(enabled bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Enabled = enabled
}

// Drop applies files dropped on the window in order. A .vrma file selects the clip and any
// other file selects the model; both request a regenerate.
//
// Parameters:
//   - paths: the dropped file paths
func (st *Store) Drop(paths []string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".vrma") {
			st.s.Vrma = p
			log.Printf("[Settings] dropped clip %s", p)
		} else {
			st.s.Model = p
			log.Printf("[Settings] dropped model %s", p)
		}
		st.regenerateLocked()
	}
}

// RequestRegenerate asks for the selected clip to be reimported on the next tick.
func (st *Store) RequestRegenerate() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.regenerateLocked()
}

func (st *Store) regenerateLocked() {
	st.s.Regen++
	st.token++
}

// Apply replaces the settings with s. A Regen value different from the current one counts
// as a regenerate request.
//
// Parameters:
//   - s: the new settings
//
// Returns:
//   - error: error if s is invalid
func (st *Store) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.TickRate = common.Coalesce(s.TickRate, DefaultTickRate)

	st.mu.Lock()
	defer st.mu.Unlock()
	if s.Regen != st.s.Regen {
		st.token++
	}
	st.s = s
	return nil
}

// Load reads a settings file and applies it. Keys missing from the file take their
// Default values.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - error: error if the file cannot be read, parsed, or applied
func (st *Store) Load(path string) error {
	s, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := st.Apply(s); err != nil {
		return fmt.Errorf("settings: apply %s: %w", path, err)
	}
	log.Printf("[Settings] loaded %s (model=%q vrma=%q enabled=%v regen=%d)", path, s.Model, s.Vrma, s.Enabled, s.Regen)
	return nil
}

// Save writes the current settings to path.
//
// Parameters:
//   - path: the YAML file to write
//
// Returns:
//   - error: error if the file cannot be written
func (st *Store) Save(path string) error {
	data, err := yaml.Marshal(st.Snapshot())
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}

// ReadFile parses a settings file on top of Default.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Settings: the parsed settings
//   - error: error if the file cannot be read or parsed
func ReadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: load %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: unmarshal %s: %w", path, err)
	}
	return s, nil
}
