package dds

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// PacingCurve maps visible elapsed minutes to the score the pacing plan
// expects at that point. Implementations must be non-decreasing, return 0 at
// or before zero elapsed and the target score at or after the target win time.
type PacingCurve interface {
	ExpectedPoints(elapsedMinutes float64) float64
}

// CurveFactory builds a curve for a target score and target win time.
// params carries curve-specific tuning; unknown keys are ignored.
type CurveFactory func(targetPoints, targetWinTime float64, params map[string]float64) (PacingCurve, error)

// CurveInfo describes a registered curve.
type CurveInfo struct {
	Name        string
	Description string
}

type curveEntry struct {
	factory     CurveFactory
	description string
}

var (
	curves   = make(map[string]curveEntry)
	curvesMu sync.RWMutex
)

// Built-in curve names.
const (
	CurveLinear     = "linear"
	CurveEaseIn     = "ease-in"
	CurveSmoothstep = "smoothstep"
)

func init() {
	RegisterCurve(CurveLinear, "constant pace from zero to target", newLinearCurve)
	RegisterCurve(CurveEaseIn, "slow start, faster finish (param: exponent, default 2)", newEaseInCurve)
	RegisterCurve(CurveSmoothstep, "slow start and slow finish", newSmoothstepCurve)
}

// RegisterCurve adds a curve factory under name.
// Panics if a curve with the same name is already registered.
func RegisterCurve(name, description string, f CurveFactory) {
	curvesMu.Lock()
	defer curvesMu.Unlock()

	if _, exists := curves[name]; exists {
		panic(fmt.Sprintf("dds: curve %q already registered", name))
	}
	curves[name] = curveEntry{factory: f, description: description}
}

// Curves returns all registered curves, sorted by name.
func Curves() []CurveInfo {
	curvesMu.RLock()
	defer curvesMu.RUnlock()

	result := make([]CurveInfo, 0, len(curves))
	for name, e := range curves {
		result = append(result, CurveInfo{Name: name, Description: e.description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// NewCurve instantiates a registered curve by name.
func NewCurve(name string, targetPoints, targetWinTime float64, params map[string]float64) (PacingCurve, error) {
	curvesMu.RLock()
	e, ok := curves[name]
	curvesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("dds: unknown pacing curve %q: %w", name, ErrInvalidConfiguration)
	}
	return e.factory(targetPoints, targetWinTime, params)
}

// progress returns elapsed/targetWinTime clamped to [0, 1].
func progress(elapsed, targetWinTime float64) float64 {
	if math.IsNaN(elapsed) || elapsed <= 0 {
		return 0
	}
	return math.Min(elapsed/targetWinTime, 1)
}

type linearCurve struct {
	target, winTime float64
}

func newLinearCurve(targetPoints, targetWinTime float64, _ map[string]float64) (PacingCurve, error) {
	return linearCurve{target: targetPoints, winTime: targetWinTime}, nil
}

func (c linearCurve) ExpectedPoints(elapsed float64) float64 {
	return c.target * progress(elapsed, c.winTime)
}

type easeInCurve struct {
	target, winTime, exponent float64
}

func newEaseInCurve(targetPoints, targetWinTime float64, params map[string]float64) (PacingCurve, error) {
	exp := 2.0
	if v, ok := params["exponent"]; ok {
		exp = v
	}
	if !(exp > 0) || math.IsInf(exp, 0) {
		return nil, fmt.Errorf("dds: ease-in exponent must be positive, got %v: %w", exp, ErrInvalidConfiguration)
	}
	return easeInCurve{target: targetPoints, winTime: targetWinTime, exponent: exp}, nil
}

func (c easeInCurve) ExpectedPoints(elapsed float64) float64 {
	return c.target * math.Pow(progress(elapsed, c.winTime), c.exponent)
}

type smoothstepCurve struct {
	target, winTime float64
}

func newSmoothstepCurve(targetPoints, targetWinTime float64, _ map[string]float64) (PacingCurve, error) {
	return smoothstepCurve{target: targetPoints, winTime: targetWinTime}, nil
}

func (c smoothstepCurve) ExpectedPoints(elapsed float64) float64 {
	x := progress(elapsed, c.winTime)
	return c.target * x * x * (3 - 2*x)
}
