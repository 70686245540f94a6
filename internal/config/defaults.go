package config

import (
	_ "embed"
)

//go:embed defaults/dds.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Pacing: PacingConfig{
			TargetPoints:  100,
			TargetWinTime: 400,
			Curve:         "linear",
		},
		Scaling: ScalingConfig{
			Floor:     0.1,
			DecayRate: 4,
		},
		Caps: CapsConfig{
			Buckets: []CapBucket{
				{MinutesLeft: 0, Cap: 5},
				{MinutesLeft: 10, Cap: 10},
				{MinutesLeft: 30, Cap: 15},
				{MinutesLeft: 60, Cap: 20},
			},
		},
		Clock: ClockConfig{
			Unit: "minutes",
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultYAML
}
