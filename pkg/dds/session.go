// Package dds implements a time-agnostic dynamic difficulty scaler.
//
// The scaler never owns a clock. The host engine reports the visible clock
// and the player's score whenever a scoring decision is needed, and the
// scaler answers with milestone and time-bonus magnitudes that keep the
// score trajectory close to the configured pacing curve.
//
// A Session is not safe for concurrent use; hosts that share one across
// goroutines must guard it themselves.
package dds

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session ties one accumulator to the pacing model and reward scaler for a
// single run. Configuration survives Reset; accumulated time does not.
type Session struct {
	id      string
	unit    TimeUnit
	scaling ScalingConfig
	logger  *log.Logger

	model  *PacingModel
	scaler *RewardScaler
	acc    *Accumulator

	tick         uint64
	lastSample   TimeSample
	remaining    float64 // Last reported countdown remaining, raw units
	hasRemaining bool
}

// Option configures a Session at InitSession time.
type Option func(*Session)

// WithScaling overrides the default scale factor tuning.
func WithScaling(c ScalingConfig) Option {
	return func(s *Session) { s.scaling = c }
}

// WithTimeUnit sets the unit raw clock reports are expressed in.
func WithTimeUnit(u TimeUnit) Option {
	return func(s *Session) { s.unit = u }
}

// WithLogger enables debug logging of clamps and caps.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// InitSession validates the configuration and returns a session at its
// start baseline. Invalid pacing, caps or scaling fail here rather than at
// query time.
func InitSession(cfg PacingConfig, caps CapTable, opts ...Option) (*Session, error) {
	s := &Session{
		unit:    UnitMinutes,
		scaling: DefaultScalingConfig(),
		acc:     NewAccumulator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.unit.Validate(); err != nil {
		return nil, err
	}
	if s.unit == "" {
		s.unit = UnitMinutes
	}

	model, err := NewPacingModel(cfg)
	if err != nil {
		return nil, err
	}
	scaler, err := NewRewardScaler(model, caps, s.scaling)
	if err != nil {
		return nil, err
	}
	s.model = model
	s.scaler = scaler

	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s, nil
}

func (s *Session) ready() error {
	if s == nil || s.scaler == nil || s.acc == nil {
		return fmt.Errorf("dds: %w", ErrSessionNotInitialized)
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Config returns the pacing configuration.
func (s *Session) Config() PacingConfig {
	if s.ready() != nil {
		return PacingConfig{}
	}
	return s.model.Config()
}

// Scaler returns the reward scaler, or nil for an uninitialized session.
func (s *Session) Scaler() *RewardScaler {
	if s.ready() != nil {
		return nil
	}
	return s.scaler
}

// TimeUnit returns the raw clock unit.
func (s *Session) TimeUnit() TimeUnit {
	if s == nil {
		return ""
	}
	return s.unit
}

// ReportTime feeds the engine's current visible clock value and returns the
// visible elapsed time in raw units. Negative or shrinking values are normal
// input; only non-finite values are rejected.
func (s *Session) ReportTime(raw float64) (float64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("dds: raw visible time must be finite, got %v: %w", raw, ErrInvalidInput)
	}

	s.tick++
	s.lastSample = TimeSample{RawVisible: raw, SampledAt: s.tick}
	prev := s.acc.State()
	elapsed := s.acc.Update(s.lastSample)

	if s.logger != nil && prev.VisibleElapsed+(raw-prev.LastRaw) < 0 {
		s.logger.Debug("visible elapsed clamped at zero", "session", s.id, "tick", s.tick, "raw", raw)
	}
	return elapsed, nil
}

// ReportRemaining feeds the countdown's remaining visible time, in raw units.
// Minutes left for cap lookup come from this value once it is reported;
// until then they are derived from the target win time. Negative values
// floor at zero.
func (s *Session) ReportRemaining(raw float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return fmt.Errorf("dds: raw remaining time must be finite, got %v: %w", raw, ErrInvalidInput)
	}
	s.remaining = math.Max(0, raw)
	s.hasRemaining = true
	return nil
}

// VisibleElapsed returns the accumulated visible elapsed time in raw units.
func (s *Session) VisibleElapsed() float64 {
	if s.ready() != nil {
		return 0
	}
	return s.acc.VisibleElapsed()
}

// ElapsedMinutes returns the visible elapsed time in minutes.
func (s *Session) ElapsedMinutes() float64 {
	return s.TimeUnit().Minutes(s.VisibleElapsed())
}

// MinutesLeft returns the minutes left used for cap lookup.
func (s *Session) MinutesLeft() float64 {
	if s.ready() != nil {
		return 0
	}
	if s.hasRemaining {
		return s.unit.Minutes(s.remaining)
	}
	return math.Max(0, s.model.cfg.TargetWinTimeMinutes-s.ElapsedMinutes())
}

// LastSample returns the most recent time report. It is the zero sample
// before the first report and after Reset.
func (s *Session) LastSample() TimeSample {
	if s == nil {
		return TimeSample{}
	}
	return s.lastSample
}

// Tick returns the number of time reports since start or the last reset.
func (s *Session) Tick() uint64 {
	if s == nil {
		return 0
	}
	return s.tick
}

// Query assembles a RewardQuery from the session's current time state.
func (s *Session) Query(points, baseMilestone, baseTimeReward float64) RewardQuery {
	return RewardQuery{
		CurrentPoints:      points,
		VisibleElapsed:     s.ElapsedMinutes(),
		MinutesLeft:        s.MinutesLeft(),
		BaseMilestoneValue: baseMilestone,
		BaseTimeReward:     baseTimeReward,
	}
}

// ScoreMilestone scales a milestone's point value.
func (s *Session) ScoreMilestone(points, baseMilestoneValue float64) (RewardResult, error) {
	if err := s.ready(); err != nil {
		return RewardResult{}, err
	}
	return s.compute("milestone", s.Query(points, baseMilestoneValue, 0))
}

// ScoreTimeBonus scales a time bonus and applies the minutes-left cap.
func (s *Session) ScoreTimeBonus(points, baseTimeReward float64) (RewardResult, error) {
	if err := s.ready(); err != nil {
		return RewardResult{}, err
	}
	return s.compute("time_bonus", s.Query(points, 0, baseTimeReward))
}

func (s *Session) compute(kind string, q RewardQuery) (RewardResult, error) {
	res, err := s.scaler.ComputeReward(q)
	if err != nil {
		return RewardResult{}, err
	}
	if s.logger != nil {
		s.logger.Debug("reward scaled",
			"session", s.id,
			"kind", kind,
			"points", q.CurrentPoints,
			"elapsed_min", q.VisibleElapsed,
			"minutes_left", q.MinutesLeft,
			"factor", res.Factor,
			"capped_by", string(res.CappedBy),
		)
	}
	return res, nil
}

// Reset clears accumulated time for a new run. Configuration is kept.
func (s *Session) Reset() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.acc.Reset()
	s.tick = 0
	s.lastSample = TimeSample{}
	s.remaining = 0
	s.hasRemaining = false
	return nil
}
