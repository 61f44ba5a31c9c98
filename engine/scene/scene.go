// Package scene ticks the characters on stage. Each character owns its own animation
// context, so characters are ticked in parallel on a worker pool.
package scene

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

var ErrDuplicateCharacter = errors.New("character name already on stage")

// stage is the implementation of the Stage interface.
type stage struct {
	mu *sync.RWMutex

	name       string
	active     bool
	characters map[string]Character
	order      []string

	// tickPool runs character ticks. Workers persist across frames, avoiding per-frame
	// goroutine spawn/teardown overhead.
	tickPool    worker.DynamicWorkerPool
	tickWorkers int
	taskID      int
	closed      bool
}

// Stage holds the characters of one scene and ticks them together.
type Stage interface {
	// Name returns the name of the stage.
	//
	// Returns:
	//   - string: the stage name
	Name() string

	// Active reports whether Tick advances the characters.
	//
	// Returns:
	//   - bool: whether the stage is active
	Active() bool

	// SetActive turns ticking on or off.
	//
	// Parameters:
	//   - active: whether the stage is active
	SetActive(active bool)

	// Add puts c on stage.
	//
	// Parameters:
	//   - c: the character to add
	//
	// Returns:
	//   - error: ErrDuplicateCharacter if the name is taken
	Add(c Character) error

	// Remove takes the named character off stage.
	//
	// Parameters:
	//   - name: the character name
	Remove(name string)

	// Get returns the named character.
	//
	// Parameters:
	//   - name: the character name
	//
	// Returns:
	//   - Character: the character, or nil
	Get(name string) Character

	// Characters returns the characters in the order they were added.
	//
	// Returns:
	//   - []Character: a copy of the character list
	Characters() []Character

	// Count returns the number of characters on stage.
	//
	// Returns:
	//   - int: the character count
	Count() int

	// Tick advances every character by deltaTime and returns once all of them are done.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// Close stops the worker pool. Ticks after Close are ignored.
	Close()
}

var _ Stage = &stage{}

// NewStage creates a new active Stage.
//
// Parameters:
//   - name: the name of the stage
//   - options: functional options to further configure the stage
//
// Returns:
//   - Stage: the newly created stage
func NewStage(name string, options ...StageBuilderOption) Stage {
	s := &stage{
		mu:          &sync.RWMutex{},
		name:        name,
		active:      true,
		characters:  make(map[string]Character),
		tickWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithTickWorkers can override the default.
	s.tickPool = worker.NewDynamicWorkerPool(s.tickWorkers, 256, 1*time.Second)
	return s
}

func (s *stage) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *stage) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *stage) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *stage) Add(c Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[c.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCharacter, c.Name())
	}
	s.characters[c.Name()] = c
	s.order = append(s.order, c.Name())
	return nil
}

func (s *stage) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[name]; !ok {
		return
	}
	delete(s.characters, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *stage) Get(name string) Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.characters[name]
}

func (s *stage) Characters() []Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Character, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.characters[name])
	}
	return out
}

func (s *stage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.characters)
}

func (s *stage) Tick(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.closed {
		return
	}

	// A WaitGroup provides per-frame barrier sync since pool.Wait() blocks until
	// workers idle-exit which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for _, name := range s.order {
		c := s.characters[name]
		wg.Add(1)
		s.taskID++
		s.tickPool.SubmitTask(worker.Task{
			ID:      s.taskID,
			Payload: name,
			Do: func() (any, error) {
				defer wg.Done()
				// Pool workers run outside the engine goroutine's recover.
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[Scene] %s: character %s tick panicked: %v", s.name, c.Name(), r)
					}
				}()
				c.Tick(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *stage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.tickPool.Stop()
	log.Printf("[Scene] %s: stopped with %d characters", s.name, len(s.characters))
}
