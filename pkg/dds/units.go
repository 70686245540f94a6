package dds

import "fmt"

// TimeUnit is the unit the engine reports raw clock values in.
type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitSeconds TimeUnit = "seconds"
)

// Minutes converts v from this unit to minutes.
func (u TimeUnit) Minutes(v float64) float64 {
	if u == UnitSeconds {
		return v / 60
	}
	return v
}

// Validate rejects unknown units. The empty unit means minutes.
func (u TimeUnit) Validate() error {
	switch u {
	case "", UnitMinutes, UnitSeconds:
		return nil
	default:
		return fmt.Errorf("dds: unknown time unit %q: %w", string(u), ErrInvalidConfiguration)
	}
}
