package dds

import (
	"math/rand"
	"testing"
)

func feed(a *Accumulator, raws ...float64) []float64 {
	out := make([]float64, 0, len(raws))
	for i, r := range raws {
		out = append(out, a.Update(TimeSample{RawVisible: r, SampledAt: uint64(i + 1)}))
	}
	return out
}

func TestAccumulatorSequences(t *testing.T) {
	tests := []struct {
		name     string
		raws     []float64
		expected []float64
	}{
		{
			name:     "time removed then added",
			raws:     []float64{100, 80, 80, 120},
			expected: []float64{100, 80, 80, 120},
		},
		{
			name:     "repeated values are stable",
			raws:     []float64{5, 5, 5},
			expected: []float64{5, 5, 5},
		},
		{
			name:     "negative first report floors at zero",
			raws:     []float64{-30},
			expected: []float64{0},
		},
		{
			name:     "large removal floors, next delta uses true raw",
			raws:     []float64{100, -50, 20},
			expected: []float64{100, 0, 70},
		},
		{
			name:     "zero start",
			raws:     []float64{0, 10, 25},
			expected: []float64{0, 10, 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feed(NewAccumulator(), tt.raws...)
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("step %d: elapsed = %v, want %v (all: %v)", i, got[i], tt.expected[i], got)
				}
			}
		})
	}
}

func TestAccumulatorKeepsLastRawAfterClamp(t *testing.T) {
	a := NewAccumulator()
	feed(a, 10, -40)

	st := a.State()
	if st.LastRaw != -40 {
		t.Errorf("LastRaw = %v, want -40", st.LastRaw)
	}
	if st.VisibleElapsed != 0 {
		t.Errorf("VisibleElapsed = %v, want 0", st.VisibleElapsed)
	}
}

func TestAccumulatorNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		a := NewAccumulator()
		raw := 0.0
		prevRaw := 0.0
		prevElapsed := 0.0
		for step := 0; step < 100; step++ {
			// Mix of ticks, additions and removals, some far past zero.
			raw += rng.Float64()*200 - 120
			elapsed := a.Update(TimeSample{RawVisible: raw, SampledAt: uint64(step + 1)})
			if elapsed < 0 {
				t.Fatalf("run %d step %d: elapsed went negative: %v", run, step, elapsed)
			}
			if raw >= prevRaw && elapsed < prevElapsed {
				t.Fatalf("run %d step %d: elapsed decreased (%v -> %v) while raw grew", run, step, prevElapsed, elapsed)
			}
			prevRaw, prevElapsed = raw, elapsed
		}
	}
}

func TestAccumulatorResetAndRestore(t *testing.T) {
	a := NewAccumulator()
	feed(a, 50)

	a.Reset()
	if a.State() != (AccumulatorState{}) {
		t.Errorf("Reset() state = %+v, want zero", a.State())
	}

	a.Restore(AccumulatorState{LastRaw: 30, VisibleElapsed: -5})
	if a.VisibleElapsed() != 0 {
		t.Errorf("Restore() with negative elapsed = %v, want 0", a.VisibleElapsed())
	}
	if got := a.Update(TimeSample{RawVisible: 40}); got != 10 {
		t.Errorf("Update after Restore = %v, want 10", got)
	}
}
