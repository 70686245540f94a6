// Package sim replays scripted engine events against a scaler session.
// It stands in for the game engine: it owns the score, reports the clock,
// and asks the session for milestone and time-bonus rewards.
package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a recorded or hand-written sequence of engine events.
type Script struct {
	Name          string  `yaml:"name"`
	InitialPoints float64 `yaml:"initial_points"`
	Events        []Event `yaml:"events"`
}

// Event is one engine action. Exactly one field must be set.
type Event struct {
	Time      *float64 `yaml:"time,omitempty"`      // Raw visible clock value
	Remaining *float64 `yaml:"remaining,omitempty"` // Raw countdown remaining
	Milestone *Award   `yaml:"milestone,omitempty"`
	Bonus     *Award   `yaml:"bonus,omitempty"`
	Reset     bool     `yaml:"reset,omitempty"`
}

// Award asks for a scaled reward. Points overrides the running score when
// set; otherwise the score the runner has accumulated is used.
type Award struct {
	Points *float64 `yaml:"points,omitempty"`
	Base   float64  `yaml:"base"`
}

// Kind returns the event kind, or an error if the event is empty or mixes kinds.
func (e Event) Kind() (Kind, error) {
	var kinds []Kind
	if e.Time != nil {
		kinds = append(kinds, KindTime)
	}
	if e.Remaining != nil {
		kinds = append(kinds, KindRemaining)
	}
	if e.Milestone != nil {
		kinds = append(kinds, KindMilestone)
	}
	if e.Bonus != nil {
		kinds = append(kinds, KindBonus)
	}
	if e.Reset {
		kinds = append(kinds, KindReset)
	}
	switch len(kinds) {
	case 0:
		return "", errors.New("empty event")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("event sets %d kinds (%v), want exactly one", len(kinds), kinds)
	}
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if s.InitialPoints < 0 {
		return Script{}, fmt.Errorf("initial_points must be non-negative, got %v", s.InitialPoints)
	}
	for i, e := range s.Events {
		if _, err := e.Kind(); err != nil {
			return Script{}, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	return s, nil
}
