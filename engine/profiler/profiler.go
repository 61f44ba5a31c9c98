// Package profiler logs loop rate and memory statistics at a fixed interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one profiling sample.
type Stats struct {
	// Rate is the loop iterations per second over the sample window.
	Rate float64

	// HeapMB is the live heap in megabytes.
	HeapMB float64

	// AllocRateMB is the heap allocation rate in megabytes per second.
	AllocRateMB float64

	// GCCount is the total number of completed GC cycles.
	GCCount uint32

	// LastPauseUs and MaxPauseUs are the latest and the worst GC pause in the window, in microseconds.
	LastPauseUs uint64
	MaxPauseUs  uint64

	// SysMB is the memory obtained from the OS in megabytes.
	SysMB float64
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often Tick logs a sample. Defaults to one second.
//
// Parameters:
//   - d: the sample interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithQuiet suppresses the log line; samples are still returned from Tick.
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithQuiet() ProfilerBuilderOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}

// Profiler tracks loop rate and memory statistics for performance monitoring.
// It is not safe for concurrent use; call Tick from the loop it measures.
type Profiler struct {
	label          string
	quiet          bool
	count          int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - label: the name of the measured loop, shown in the log line
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(label string, options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		label:          label,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Tick should be called once per loop iteration.
// When the update interval has elapsed it takes a sample, logs it, and starts a new window.
//
// Returns:
//   - Stats: the sample, zero when none was taken
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.count++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	st := Stats{
		Rate:        float64(p.count) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	if gc := st.GCCount; gc > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		st.LastPauseUs = p.memStats.PauseNs[(gc-1)%256] / 1000
		start := p.lastGCCount
		if gc-start > 256 {
			start = gc - 256
		}
		for i := start; i < gc; i++ {
			st.MaxPauseUs = max(st.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] %s: %.2f/s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			p.label, st.Rate, st.HeapMB, st.AllocRateMB, st.GCCount, st.LastPauseUs, st.MaxPauseUs, st.SysMB)
	}

	p.count = 0
	p.lastTime = now
	p.lastGCCount = st.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return st, true
}
