package config

import "fmt"

// DifficultyPreset represents a named scaling preset.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyPreset modifies the scaling section based on a difficulty preset.
// Easy keeps more of the reward when ahead of pace, hard suppresses it
// harder. Every preset still shrinks rewards while ahead.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Scaling.Floor = 0.3
		cfg.Scaling.DecayRate = 2
	case DifficultyNormal:
		cfg.Scaling.Floor = 0.1
		cfg.Scaling.DecayRate = 4
	case DifficultyHard:
		cfg.Scaling.Floor = 0.05
		cfg.Scaling.DecayRate = 8
	}
}
