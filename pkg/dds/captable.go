package dds

import (
	"fmt"
	"math"
)

// CapBucket sets the largest time reward allowed once at least MinutesLeft
// remain on the visible clock.
type CapBucket struct {
	MinutesLeft float64 `json:"minutes_left"`
	Cap         float64 `json:"cap"`
}

// CapTable maps absolute minutes left to a reward ceiling. Buckets are
// ordered by MinutesLeft and caps never grow as time runs out.
type CapTable struct {
	Buckets     []CapBucket `json:"buckets"`
	Interpolate bool        `json:"interpolate"` // Blend linearly between adjacent buckets
}

// DefaultCapTable returns the stock ceilings.
func DefaultCapTable() CapTable {
	return CapTable{
		Buckets: []CapBucket{
			{MinutesLeft: 0, Cap: 5},
			{MinutesLeft: 10, Cap: 10},
			{MinutesLeft: 30, Cap: 15},
			{MinutesLeft: 60, Cap: 20},
		},
	}
}

// Validate checks bucket ordering and cap monotonicity.
func (t CapTable) Validate() error {
	for i, b := range t.Buckets {
		if math.IsNaN(b.MinutesLeft) || b.MinutesLeft < 0 {
			return fmt.Errorf("dds: cap bucket %d: minutes left must be non-negative: %w", i, ErrInvalidConfiguration)
		}
		if math.IsNaN(b.Cap) || math.IsInf(b.Cap, 0) || b.Cap < 0 {
			return fmt.Errorf("dds: cap bucket %d: cap must be a finite non-negative number: %w", i, ErrInvalidConfiguration)
		}
		if i == 0 {
			continue
		}
		prev := t.Buckets[i-1]
		if b.MinutesLeft <= prev.MinutesLeft {
			return fmt.Errorf("dds: cap bucket %d: minutes left must be strictly increasing: %w", i, ErrInvalidConfiguration)
		}
		if b.Cap < prev.Cap {
			return fmt.Errorf("dds: cap bucket %d: cap %v is below %v for fewer minutes left: %w",
				i, b.Cap, prev.Cap, ErrInvalidConfiguration)
		}
	}
	return nil
}

// CapFor returns the ceiling for the given minutes left.
// An empty table never caps.
func (t CapTable) CapFor(minutesLeft float64) float64 {
	n := len(t.Buckets)
	if n == 0 {
		return math.Inf(1)
	}
	if math.IsNaN(minutesLeft) || minutesLeft < 0 {
		minutesLeft = 0
	}

	// Below the first threshold the smallest cap applies.
	if minutesLeft <= t.Buckets[0].MinutesLeft {
		return t.Buckets[0].Cap
	}
	last := t.Buckets[n-1]
	if minutesLeft >= last.MinutesLeft {
		return last.Cap
	}

	i := 0
	for i+1 < n && t.Buckets[i+1].MinutesLeft <= minutesLeft {
		i++
	}
	lo, hi := t.Buckets[i], t.Buckets[i+1]
	if !t.Interpolate || minutesLeft == lo.MinutesLeft {
		return lo.Cap
	}
	frac := (minutesLeft - lo.MinutesLeft) / (hi.MinutesLeft - lo.MinutesLeft)
	return lo.Cap + (hi.Cap-lo.Cap)*frac
}
