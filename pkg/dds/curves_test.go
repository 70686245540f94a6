package dds

import (
	"errors"
	"math"
	"testing"
)

func TestCurvesEndpointsAndMonotonic(t *testing.T) {
	const target, winTime = 1000.0, 400.0

	for _, info := range Curves() {
		t.Run(info.Name, func(t *testing.T) {
			c, err := NewCurve(info.Name, target, winTime, nil)
			if err != nil {
				t.Fatalf("NewCurve(%q) failed: %v", info.Name, err)
			}
			if got := c.ExpectedPoints(0); got != 0 {
				t.Errorf("ExpectedPoints(0) = %v, want 0", got)
			}
			if got := c.ExpectedPoints(-10); got != 0 {
				t.Errorf("ExpectedPoints(-10) = %v, want 0", got)
			}
			if got := c.ExpectedPoints(winTime); math.Abs(got-target) > 1e-9 {
				t.Errorf("ExpectedPoints(T) = %v, want %v", got, target)
			}
			if got := c.ExpectedPoints(winTime * 3); math.Abs(got-target) > 1e-9 {
				t.Errorf("ExpectedPoints(3T) = %v, want %v", got, target)
			}

			prev := 0.0
			for m := 0.0; m <= winTime*1.5; m += 2.5 {
				got := c.ExpectedPoints(m)
				if got < prev {
					t.Fatalf("curve decreased at %v: %v < %v", m, got, prev)
				}
				prev = got
			}
		})
	}
}

func TestLinearCurveMidpoint(t *testing.T) {
	c, err := NewCurve(CurveLinear, 1000, 400, nil)
	if err != nil {
		t.Fatalf("NewCurve failed: %v", err)
	}
	if got := c.ExpectedPoints(10); math.Abs(got-25) > 1e-9 {
		t.Errorf("ExpectedPoints(10) = %v, want 25", got)
	}
	if got := c.ExpectedPoints(200); got != 500 {
		t.Errorf("ExpectedPoints(200) = %v, want 500", got)
	}
}

func TestEaseInExponent(t *testing.T) {
	c, err := NewCurve(CurveEaseIn, 100, 100, map[string]float64{"exponent": 3})
	if err != nil {
		t.Fatalf("NewCurve failed: %v", err)
	}
	if got := c.ExpectedPoints(50); math.Abs(got-12.5) > 1e-9 {
		t.Errorf("ExpectedPoints(50) = %v, want 12.5", got)
	}

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewCurve(CurveEaseIn, 100, 100, map[string]float64{"exponent": bad}); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("exponent %v: err = %v, want ErrInvalidConfiguration", bad, err)
		}
	}
}

func TestNewCurveUnknown(t *testing.T) {
	_, err := NewCurve("sawtooth", 100, 100, nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRegisterCurveDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RegisterCurve with a duplicate name did not panic")
		}
	}()
	RegisterCurve(CurveLinear, "dup", newLinearCurve)
}

func TestCurvesSorted(t *testing.T) {
	list := Curves()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Errorf("Curves() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}

func TestPacingModelDeviation(t *testing.T) {
	m, err := NewPacingModel(PacingConfig{TargetPoints: 1000, TargetWinTimeMinutes: 400})
	if err != nil {
		t.Fatalf("NewPacingModel failed: %v", err)
	}
	if m.Config().Curve != CurveLinear {
		t.Errorf("empty curve resolved to %q, want linear", m.Config().Curve)
	}

	tests := []struct {
		name      string
		points    float64
		elapsed   float64
		deviation float64
		ratio     float64
	}{
		{"far ahead early", 900, 10, 875, 36},
		{"behind late", 900, 395, -87.5, 900 / 987.5},
		{"on pace", 500, 200, 0, 1},
		{"nothing expected yet", 50, 0, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Deviation(tt.points, tt.elapsed); math.Abs(got-tt.deviation) > 1e-9 {
				t.Errorf("Deviation = %v, want %v", got, tt.deviation)
			}
			if got := m.NormalizedDeviation(tt.points, tt.elapsed); math.Abs(got-tt.deviation/1000) > 1e-12 {
				t.Errorf("NormalizedDeviation = %v, want %v", got, tt.deviation/1000)
			}
			if got := m.PaceRatio(tt.points, tt.elapsed); math.Abs(got-tt.ratio) > 1e-9 {
				t.Errorf("PaceRatio = %v, want %v", got, tt.ratio)
			}
		})
	}
}

func TestPacingConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  PacingConfig
	}{
		{"zero target", PacingConfig{TargetPoints: 0, TargetWinTimeMinutes: 400}},
		{"negative target", PacingConfig{TargetPoints: -1, TargetWinTimeMinutes: 400}},
		{"zero win time", PacingConfig{TargetPoints: 100, TargetWinTimeMinutes: 0}},
		{"nan win time", PacingConfig{TargetPoints: 100, TargetWinTimeMinutes: math.NaN()}},
		{"infinite target", PacingConfig{TargetPoints: math.Inf(1), TargetWinTimeMinutes: 400}},
		{"unknown curve", PacingConfig{TargetPoints: 100, TargetWinTimeMinutes: 400, Curve: "zigzag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPacingModel(tt.cfg); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewPacingModel err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}
