package engine

import (
	"github.com/Carmen-Shannon/oxy-vrma/engine/scene"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithWindow attaches a window whose message loop Run drives on the calling goroutine.
// Without a window the engine runs headless until Quit.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithStage registers a stage at the given key during engine construction.
//
// Parameters:
//   - key: the ordering key (lower ticks first)
//   - s: the Stage to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStage(key int, s scene.Stage) EngineBuilderOption {
	return func(e *engine) {
		e.stages[key] = s
	}
}
