package profiler

import (
	"testing"
	"time"
)

func TestProfilerTick(t *testing.T) {
	p := NewProfiler("test", WithInterval(time.Hour), WithQuiet())
	for range 10 {
		if _, ok := p.Tick(); ok {
			t.Fatal("Tick: sampled before the interval elapsed")
		}
	}

	p = NewProfiler("test", WithInterval(time.Millisecond), WithQuiet())
	time.Sleep(5 * time.Millisecond)
	st, ok := p.Tick()
	if !ok {
		t.Fatal("Tick: no sample after the interval elapsed")
	}
	if st.Rate <= 0 || st.SysMB <= 0 {
		t.Fatalf("Tick:\nhave %+v\nwant positive rate and sys memory", st)
	}
}
