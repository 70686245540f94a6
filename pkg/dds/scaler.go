package dds

import (
	"fmt"
	"math"
)

// CapReason names the ceiling that decided a result, if any.
type CapReason string

const (
	CapNone         CapReason = ""
	CapMinutesLeft  CapReason = "minutes_left"  // Time reward clamped by the cap table
	CapMilestoneMax CapReason = "milestone_max" // Milestone value clamped by MaxMilestoneValue
	CapMilestoneMin CapReason = "milestone_min" // Milestone value raised to MinMilestoneValue
)

// ScalingConfig tunes how fast rewards shrink while a player is ahead of pace.
type ScalingConfig struct {
	Floor             float64 `json:"floor"`               // Lower bound of the scale factor, in (0, 1)
	DecayRate         float64 `json:"decay_rate"`          // Exponential decay per unit of normalized deviation, > 0
	MinMilestoneValue float64 `json:"min_milestone_value"` // 0 disables the milestone floor
	MaxMilestoneValue float64 `json:"max_milestone_value"` // 0 disables the milestone ceiling
}

// DefaultScalingConfig returns the stock tuning.
func DefaultScalingConfig() ScalingConfig {
	return ScalingConfig{
		Floor:     0.1,
		DecayRate: 4,
	}
}

// Validate checks the scaling parameters.
func (c ScalingConfig) Validate() error {
	if !(c.Floor > 0 && c.Floor < 1) {
		return fmt.Errorf("dds: scale floor must be in (0, 1), got %v: %w", c.Floor, ErrInvalidConfiguration)
	}
	if !(c.DecayRate > 0) || math.IsInf(c.DecayRate, 0) {
		return fmt.Errorf("dds: decay rate must be positive, got %v: %w", c.DecayRate, ErrInvalidConfiguration)
	}
	if math.IsNaN(c.MinMilestoneValue) || math.IsInf(c.MinMilestoneValue, 0) || c.MinMilestoneValue < 0 {
		return fmt.Errorf("dds: min milestone value must be non-negative, got %v: %w", c.MinMilestoneValue, ErrInvalidConfiguration)
	}
	if math.IsNaN(c.MaxMilestoneValue) || c.MaxMilestoneValue < 0 {
		return fmt.Errorf("dds: max milestone value must be non-negative, got %v: %w", c.MaxMilestoneValue, ErrInvalidConfiguration)
	}
	if c.MaxMilestoneValue > 0 && c.MinMilestoneValue > c.MaxMilestoneValue {
		return fmt.Errorf("dds: min milestone value %v exceeds max %v: %w",
			c.MinMilestoneValue, c.MaxMilestoneValue, ErrInvalidConfiguration)
	}
	return nil
}

// RewardQuery is the input for one scaling decision.
type RewardQuery struct {
	CurrentPoints      float64
	VisibleElapsed     float64 // Minutes
	MinutesLeft        float64
	BaseMilestoneValue float64
	BaseTimeReward     float64
}

// RewardResult is the scaled reward handed back to the engine.
type RewardResult struct {
	ScaledMilestoneValue float64   `json:"scaled_milestone_value"`
	ScaledTimeReward     float64   `json:"scaled_time_reward"`
	Factor               float64   `json:"factor"`    // Pacing multiplier applied before caps
	Deviation            float64   `json:"deviation"` // Points ahead (+) or behind (-) the curve
	CappedBy             CapReason `json:"capped_by,omitempty"`
}

// RewardScaler turns pacing deviation and minutes left into reward magnitudes.
type RewardScaler struct {
	model   *PacingModel
	caps    CapTable
	scaling ScalingConfig
}

// NewRewardScaler validates the cap table and scaling parameters.
func NewRewardScaler(model *PacingModel, caps CapTable, scaling ScalingConfig) (*RewardScaler, error) {
	if model == nil {
		return nil, fmt.Errorf("dds: pacing model is required: %w", ErrInvalidConfiguration)
	}
	if err := caps.Validate(); err != nil {
		return nil, err
	}
	if err := scaling.Validate(); err != nil {
		return nil, err
	}
	return &RewardScaler{model: model, caps: caps, scaling: scaling}, nil
}

// Model returns the pacing model backing the scaler.
func (r *RewardScaler) Model() *PacingModel {
	return r.model
}

// Caps returns the cap table.
func (r *RewardScaler) Caps() CapTable {
	return r.caps
}

// Scaling returns the scaling parameters.
func (r *RewardScaler) Scaling() ScalingConfig {
	return r.scaling
}

// ScaleFactor maps normalized deviation to a multiplier in (0, 1].
// Players on or behind pace get 1; ahead of pace the factor decays toward
// the floor without reaching it.
func (r *RewardScaler) ScaleFactor(normalizedDeviation float64) float64 {
	return scaleFactor(r.scaling, normalizedDeviation)
}

func scaleFactor(c ScalingConfig, d float64) float64 {
	if math.IsNaN(d) || d <= 0 || c.DecayRate == 0 {
		return 1
	}
	return c.Floor + (1-c.Floor)*math.Exp(-c.DecayRate*d)
}

// ComputeReward scales both base rewards by the pacing factor, then applies
// the optional milestone floor and ceiling and the minutes-left cap to the
// time reward. The floor never lifts a milestone above its base value.
func (r *RewardScaler) ComputeReward(q RewardQuery) (RewardResult, error) {
	if err := q.validate(); err != nil {
		return RewardResult{}, err
	}

	deviation := r.model.Deviation(q.CurrentPoints, q.VisibleElapsed)
	factor := r.ScaleFactor(deviation / r.model.cfg.TargetPoints)

	res := RewardResult{
		ScaledMilestoneValue: q.BaseMilestoneValue * factor,
		ScaledTimeReward:     q.BaseTimeReward * factor,
		Factor:               factor,
		Deviation:            deviation,
	}

	if floor := math.Min(r.scaling.MinMilestoneValue, q.BaseMilestoneValue); res.ScaledMilestoneValue < floor {
		res.ScaledMilestoneValue = floor
		res.CappedBy = CapMilestoneMin
	}
	if ceiling := r.scaling.MaxMilestoneValue; ceiling > 0 && res.ScaledMilestoneValue > ceiling {
		res.ScaledMilestoneValue = ceiling
		res.CappedBy = CapMilestoneMax
	}
	if limit := r.caps.CapFor(q.MinutesLeft); res.ScaledTimeReward > limit {
		res.ScaledTimeReward = limit
		res.CappedBy = CapMinutesLeft
	}
	return res, nil
}

func (q RewardQuery) validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"current points", q.CurrentPoints},
		{"base milestone value", q.BaseMilestoneValue},
		{"base time reward", q.BaseTimeReward},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < 0 {
			return fmt.Errorf("dds: %s must be a non-negative number, got %v: %w", c.name, c.value, ErrInvalidInput)
		}
	}
	if math.IsNaN(q.VisibleElapsed) || q.VisibleElapsed < 0 {
		return fmt.Errorf("dds: visible elapsed must be non-negative, got %v: %w", q.VisibleElapsed, ErrInvalidInput)
	}
	if math.IsNaN(q.MinutesLeft) {
		return fmt.Errorf("dds: minutes left is not a number: %w", ErrInvalidInput)
	}
	return nil
}
