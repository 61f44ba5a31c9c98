// Package engine runs the fixed-rate animation loop and, optionally, the window message loop.
package engine

import (
	"log"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-vrma/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vrma/engine/scene"
)

// Window is the part of a platform window the engine drives. window.Window satisfies it.
type Window interface {
	// ProcessMessages runs the message loop until the window closes.
	ProcessMessages()

	// RequestClose asks the message loop to stop. It may be called from any goroutine.
	RequestClose()

	// Close releases the window.
	Close() error
}

// engine implements the Engine interface.
// Coordinates the tick goroutine and the window thread.
type engine struct {
	mu sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window Window

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	stages map[int]scene.Stage
}

// Engine is the main entry point for the engine.
// It drives every registered stage at a fixed tick rate and owns the window message loop.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - Window: the window instance
	Window() Window

	// EnableProfiler enables tick rate and memory output to the log.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the current tick interval.
	//
	// Returns:
	//   - time.Duration: the time between ticks
	TickRate() time.Duration

	// SetTickCallback registers the function called after the stages each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddStage registers a stage at the given key. Stages tick in ascending key order.
	//
	// Parameters:
	//   - key: the ordering key (lower ticks first)
	//   - s: the Stage to register
	AddStage(key int, s scene.Stage)

	// RemoveStage removes the stage at the given key.
	//
	// Parameters:
	//   - key: the key of the stage to remove
	RemoveStage(key int)

	// Stage retrieves the stage registered at the given key.
	//
	// Parameters:
	//   - key: the key of the stage to retrieve
	//
	// Returns:
	//   - scene.Stage: the stage at the key, or nil if not found
	Stage(key int) scene.Stage

	// Stages returns a copy of all registered stages.
	//
	// Returns:
	//   - map[int]scene.Stage: a copy of the stages map
	Stages() map[int]scene.Stage

	// Run starts the tick loop and blocks until the engine quits. With a window, Run must be
	// called from the main goroutine; it runs the message loop and quits when the window closes.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		stages:          make(map[int]scene.Stage),
		profiler:        profiler.NewProfiler("tick"),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Run() {
	e.running.Store(true)
	e.wg.Add(1)
	go e.handleEngine()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		e.window.RequestClose()
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Ticks every stage, then fires the tick callback, and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	e.mu.RLock()
	ticker := time.NewTicker(e.engineTickRate)
	e.mu.RUnlock()
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// tick advances the stages in ascending key order and then runs the tick callback.
func (e *engine) tick(dt float32) {
	e.mu.RLock()
	keys := make([]int, 0, len(e.stages))
	for k := range e.stages {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	stages := make([]scene.Stage, 0, len(keys))
	for _, k := range keys {
		stages = append(stages, e.stages[k])
	}
	callback := e.tickCallback
	e.mu.RUnlock()

	for _, s := range stages {
		s.Tick(dt)
	}
	if callback != nil {
		callback(dt)
	}
	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()

	if !e.running.Load() {
		return
	}
	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		select {
		case e.tickRateChannel <- newRate:
		default:
		}
	}
}

func (e *engine) TickRate() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.engineTickRate
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) AddStage(key int, s scene.Stage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stages[key] = s
}

func (e *engine) RemoveStage(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.stages, key)
}

func (e *engine) Stage(key int) scene.Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stages[key]
}

func (e *engine) Stages() map[int]scene.Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Stage, len(e.stages))
	for k, v := range e.stages {
		cp[k] = v
	}
	return cp
}

// tickInterval converts a rate in ticks per second into a ticker interval.
// Values <= 0 and non-finite values fall back to 60Hz. The interval is never below 1ns,
// since time.Ticker panics on a non-positive period.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = 60
	}
	return max(time.Duration(float64(time.Second)/fps), time.Nanosecond)
}
