// Package config provides YAML/TOML configuration loading and difficulty
// presets for the dynamic difficulty scaler.
package config

import (
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

// Config is the file representation of a scaler setup.
type Config struct {
	Pacing  PacingConfig  `yaml:"pacing" toml:"pacing"`
	Scaling ScalingConfig `yaml:"scaling" toml:"scaling"`
	Caps    CapsConfig    `yaml:"caps" toml:"caps"`
	Clock   ClockConfig   `yaml:"clock" toml:"clock"`
}

// PacingConfig defines the target score and the curve toward it.
type PacingConfig struct {
	TargetPoints  float64            `yaml:"target_points" toml:"target_points"`
	TargetWinTime float64            `yaml:"target_win_time" toml:"target_win_time"` // Minutes of visible time
	Curve         string             `yaml:"curve" toml:"curve"`                     // "linear", "ease-in", "smoothstep"
	Params        map[string]float64 `yaml:"params,omitempty" toml:"params,omitempty"`
}

// ScalingConfig defines how rewards shrink while ahead of pace.
type ScalingConfig struct {
	Floor             float64 `yaml:"floor" toml:"floor"`
	DecayRate         float64 `yaml:"decay_rate" toml:"decay_rate"`
	MinMilestoneValue float64 `yaml:"min_milestone_value" toml:"min_milestone_value"`
	MaxMilestoneValue float64 `yaml:"max_milestone_value" toml:"max_milestone_value"`
}

// CapsConfig defines the time reward ceilings by minutes left.
type CapsConfig struct {
	Interpolate bool        `yaml:"interpolate" toml:"interpolate"`
	Buckets     []CapBucket `yaml:"buckets" toml:"buckets"`
}

// CapBucket is one ceiling row.
type CapBucket struct {
	MinutesLeft float64 `yaml:"minutes_left" toml:"minutes_left"`
	Cap         float64 `yaml:"cap" toml:"cap"`
}

// ClockConfig describes the unit the engine reports raw clock values in.
type ClockConfig struct {
	Unit string `yaml:"unit" toml:"unit"` // "minutes" or "seconds"
}

// Settings is a Config converted into the scaler's own types.
type Settings struct {
	Pacing  dds.PacingConfig
	Caps    dds.CapTable
	Scaling dds.ScalingConfig
	Unit    dds.TimeUnit
}

// Build converts the config and validates it the same way InitSession will.
func (c Config) Build() (Settings, error) {
	s := Settings{
		Pacing: dds.PacingConfig{
			TargetPoints:         c.Pacing.TargetPoints,
			TargetWinTimeMinutes: c.Pacing.TargetWinTime,
			Curve:                c.Pacing.Curve,
			CurveParams:          c.Pacing.Params,
		},
		Caps: dds.CapTable{Interpolate: c.Caps.Interpolate},
		Scaling: dds.ScalingConfig{
			Floor:             c.Scaling.Floor,
			DecayRate:         c.Scaling.DecayRate,
			MinMilestoneValue: c.Scaling.MinMilestoneValue,
			MaxMilestoneValue: c.Scaling.MaxMilestoneValue,
		},
		Unit: dds.TimeUnit(c.Clock.Unit),
	}
	for _, b := range c.Caps.Buckets {
		s.Caps.Buckets = append(s.Caps.Buckets, dds.CapBucket{MinutesLeft: b.MinutesLeft, Cap: b.Cap})
	}

	if _, err := dds.NewPacingModel(s.Pacing); err != nil {
		return Settings{}, err
	}
	if err := s.Caps.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.Scaling.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.Unit.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// NewSession builds the config and starts a session from it.
// Extra options are applied after the config-derived ones.
func (c Config) NewSession(opts ...dds.Option) (*dds.Session, error) {
	s, err := c.Build()
	if err != nil {
		return nil, err
	}
	all := append([]dds.Option{
		dds.WithScaling(s.Scaling),
		dds.WithTimeUnit(s.Unit),
	}, opts...)
	return dds.InitSession(s.Pacing, s.Caps, all...)
}
