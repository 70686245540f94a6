package dds

import (
	"fmt"
	"math"
)

// Pacing defaults.
const (
	DefaultTargetPoints         = 100.0
	DefaultTargetWinTimeMinutes = 400.0
)

// PacingConfig defines the intended score trajectory for a session.
type PacingConfig struct {
	TargetPoints         float64            `json:"target_points"`
	TargetWinTimeMinutes float64            `json:"target_win_time_minutes"`
	Curve                string             `json:"curve"`                  // Registered curve name; empty means linear
	CurveParams          map[string]float64 `json:"curve_params,omitempty"` // Curve-specific tuning
}

// DefaultPacingConfig returns the pacing used when nothing is configured.
func DefaultPacingConfig() PacingConfig {
	return PacingConfig{
		TargetPoints:         DefaultTargetPoints,
		TargetWinTimeMinutes: DefaultTargetWinTimeMinutes,
		Curve:                CurveLinear,
	}
}

// Validate reports whether the config can drive a pacing model.
func (c PacingConfig) Validate() error {
	if !(c.TargetPoints > 0) || math.IsInf(c.TargetPoints, 0) {
		return fmt.Errorf("dds: target points must be positive, got %v: %w", c.TargetPoints, ErrInvalidConfiguration)
	}
	if !(c.TargetWinTimeMinutes > 0) || math.IsInf(c.TargetWinTimeMinutes, 0) {
		return fmt.Errorf("dds: target win time must be positive, got %v: %w", c.TargetWinTimeMinutes, ErrInvalidConfiguration)
	}
	return nil
}

// PacingModel compares a player's score against the pacing curve.
type PacingModel struct {
	cfg   PacingConfig
	curve PacingCurve
}

// NewPacingModel validates cfg and resolves its curve from the registry.
func NewPacingModel(cfg PacingConfig) (*PacingModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Curve == "" {
		cfg.Curve = CurveLinear
	}
	curve, err := NewCurve(cfg.Curve, cfg.TargetPoints, cfg.TargetWinTimeMinutes, cfg.CurveParams)
	if err != nil {
		return nil, err
	}
	return &PacingModel{cfg: cfg, curve: curve}, nil
}

// Config returns the pacing configuration in use.
func (m *PacingModel) Config() PacingConfig {
	return m.cfg
}

// ExpectedPoints returns the score the curve expects after elapsed minutes.
func (m *PacingModel) ExpectedPoints(elapsedMinutes float64) float64 {
	return m.curve.ExpectedPoints(elapsedMinutes)
}

// Deviation returns points minus expected points. Positive is ahead of pace.
func (m *PacingModel) Deviation(points, elapsedMinutes float64) float64 {
	return points - m.ExpectedPoints(elapsedMinutes)
}

// NormalizedDeviation returns Deviation as a fraction of the target score.
func (m *PacingModel) NormalizedDeviation(points, elapsedMinutes float64) float64 {
	return m.Deviation(points, elapsedMinutes) / m.cfg.TargetPoints
}

// PaceRatio returns points over expected points, or 1 while nothing is
// expected yet.
func (m *PacingModel) PaceRatio(points, elapsedMinutes float64) float64 {
	expected := m.ExpectedPoints(elapsedMinutes)
	if expected <= 0 {
		return 1
	}
	return points / expected
}
