package dds

// TimeSample is one engine observation of the visible clock.
type TimeSample struct {
	RawVisible float64 // Raw visible time as reported by the engine
	SampledAt  uint64  // Logical tick of the report (1-based per session run)
}

// AccumulatorState is the persisted form of an Accumulator.
type AccumulatorState struct {
	LastRaw        float64 `json:"last_raw"`
	VisibleElapsed float64 `json:"visible_elapsed"`
}

// Accumulator converts a raw, externally mutable clock value into visible
// elapsed time that never drops below zero.
//
// The engine may add time, remove time, pause or rewind between reports.
// Every report is measured against the previous raw value, so the result
// follows the engine's clock until it would go negative, where it floors.
type Accumulator struct {
	state AccumulatorState
}

// NewAccumulator returns an accumulator at the session start baseline
// (no raw value observed, nothing elapsed).
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Update applies one sample and returns the new visible elapsed time.
func (a *Accumulator) Update(sample TimeSample) float64 {
	delta := sample.RawVisible - a.state.LastRaw
	elapsed := a.state.VisibleElapsed + delta
	if elapsed < 0 {
		elapsed = 0
	}
	a.state.VisibleElapsed = elapsed
	// Keep the true observation even after a clamp so the next delta does
	// not carry the clamped amount forward.
	a.state.LastRaw = sample.RawVisible
	return elapsed
}

// VisibleElapsed returns the current visible elapsed time in raw units.
func (a *Accumulator) VisibleElapsed() float64 {
	return a.state.VisibleElapsed
}

// State returns a copy of the accumulator state.
func (a *Accumulator) State() AccumulatorState {
	return a.state
}

// Restore reinstates a previously captured state.
func (a *Accumulator) Restore(s AccumulatorState) {
	if s.VisibleElapsed < 0 {
		s.VisibleElapsed = 0
	}
	a.state = s
}

// Reset returns the accumulator to the session start baseline.
func (a *Accumulator) Reset() {
	a.state = AccumulatorState{}
}
