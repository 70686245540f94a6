package dds

import (
	"fmt"
	"math"
)

// SessionState captures everything a session accumulates between reports.
// Configuration is not included; a restored session keeps its own.
type SessionState struct {
	ID           string           `json:"id"`
	Tick         uint64           `json:"tick"`
	Accumulator  AccumulatorState `json:"accumulator"`
	TimeUnit     TimeUnit         `json:"time_unit"`
	Remaining    float64          `json:"remaining"`
	HasRemaining bool             `json:"has_remaining"`
}

// Snapshot returns the session's current state for persistence.
func (s *Session) Snapshot() (SessionState, error) {
	if err := s.ready(); err != nil {
		return SessionState{}, err
	}
	return SessionState{
		ID:           s.id,
		Tick:         s.tick,
		Accumulator:  s.acc.State(),
		TimeUnit:     s.unit,
		Remaining:    s.remaining,
		HasRemaining: s.hasRemaining,
	}, nil
}

// Restore reinstates a snapshot. The snapshot's time unit must match the
// session's so raw values keep their meaning.
func (s *Session) Restore(st SessionState) error {
	if err := s.ready(); err != nil {
		return err
	}
	if st.TimeUnit != "" && st.TimeUnit != s.unit {
		return fmt.Errorf("dds: snapshot time unit %q does not match session unit %q: %w",
			st.TimeUnit, s.unit, ErrInvalidInput)
	}
	for _, v := range []float64{st.Accumulator.LastRaw, st.Accumulator.VisibleElapsed, st.Remaining} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("dds: snapshot contains non-finite values: %w", ErrInvalidInput)
		}
	}

	if st.ID != "" {
		s.id = st.ID
	}
	s.tick = st.Tick
	s.acc.Restore(st.Accumulator)
	s.lastSample = TimeSample{RawVisible: st.Accumulator.LastRaw, SampledAt: st.Tick}
	s.remaining = math.Max(0, st.Remaining)
	s.hasRemaining = st.HasRemaining
	return nil
}

// GameState is a telemetry view of the session for a given score.
type GameState struct {
	Points          float64 `json:"points"`
	PointsRemaining float64 `json:"points_remaining"`
	ExpectedPoints  float64 `json:"expected_points"`
	Deviation       float64 `json:"deviation"`
	PaceRatio       float64 `json:"pace_ratio"`
	Factor          float64 `json:"factor"`
	ElapsedMinutes  float64 `json:"elapsed_minutes"`
	MinutesLeft     float64 `json:"minutes_left"`
	TimeCap         float64 `json:"time_cap"`
	TargetWinTime   float64 `json:"target_win_time"`
	Tick            uint64  `json:"tick"`
}

// GameState reports pacing telemetry at the session's current time.
func (s *Session) GameState(points float64) (GameState, error) {
	if err := s.ready(); err != nil {
		return GameState{}, err
	}
	if math.IsNaN(points) || math.IsInf(points, 0) || points < 0 {
		return GameState{}, fmt.Errorf("dds: current points must be a non-negative number, got %v: %w", points, ErrInvalidInput)
	}

	elapsed := s.ElapsedMinutes()
	minutesLeft := s.MinutesLeft()
	cfg := s.model.Config()
	return GameState{
		Points:          points,
		PointsRemaining: math.Max(0, cfg.TargetPoints-points),
		ExpectedPoints:  s.model.ExpectedPoints(elapsed),
		Deviation:       s.model.Deviation(points, elapsed),
		PaceRatio:       s.model.PaceRatio(points, elapsed),
		Factor:          s.scaler.ScaleFactor(s.model.NormalizedDeviation(points, elapsed)),
		ElapsedMinutes:  elapsed,
		MinutesLeft:     minutesLeft,
		TimeCap:         s.scaler.caps.CapFor(minutesLeft),
		TargetWinTime:   cfg.TargetWinTimeMinutes,
		Tick:            s.tick,
	}, nil
}
