package sim

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

type memRecorder struct {
	steps []Step
	fail  error
}

func (m *memRecorder) RecordStep(_ context.Context, _ string, step Step) error {
	if m.fail != nil {
		return m.fail
	}
	m.steps = append(m.steps, step)
	return nil
}

func newSession(t *testing.T) *dds.Session {
	t.Helper()
	caps := dds.CapTable{Buckets: []dds.CapBucket{{MinutesLeft: 0, Cap: 5}, {MinutesLeft: 60, Cap: 20}}}
	s, err := dds.InitSession(dds.PacingConfig{TargetPoints: 1000, TargetWinTimeMinutes: 400}, caps)
	if err != nil {
		t.Fatalf("InitSession failed: %v", err)
	}
	return s
}

func f(v float64) *float64 { return &v }

func TestLoadScript(t *testing.T) {
	s, err := LoadScript(filepath.Join("testdata", "ahead.yaml"))
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if s.Name != "ahead-of-pace" || len(s.Events) != 6 {
		t.Errorf("script = %+v", s)
	}
}

func TestParseScriptRejectsMixedEvents(t *testing.T) {
	data := []byte("events:\n  - time: 5\n    remaining: 3\n")
	if _, err := ParseScript(data); err == nil {
		t.Error("ParseScript accepted an event with two kinds")
	}
	if _, err := ParseScript([]byte("events:\n  - {}\n")); err == nil {
		t.Error("ParseScript accepted an empty event")
	}
	if _, err := ParseScript([]byte("initial_points: -3\n")); err == nil {
		t.Error("ParseScript accepted negative initial points")
	}
}

func TestRunAheadOfPaceScript(t *testing.T) {
	script, err := LoadScript(filepath.Join("testdata", "ahead.yaml"))
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}

	rec := &memRecorder{}
	r := NewRunner(newSession(t), rec, nil)
	res, err := r.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Steps) != 6 || res.Skipped != 0 {
		t.Fatalf("steps=%d skipped=%d", len(res.Steps), res.Skipped)
	}

	early := res.Steps[1].Result
	if early == nil || early.ScaledMilestoneValue >= 5 {
		t.Errorf("early milestone = %+v, want well below 10", early)
	}
	late := res.Steps[3].Result
	if late == nil || late.Factor != 1 {
		t.Errorf("late milestone = %+v, want factor 1", late)
	}

	bonus := res.Steps[5]
	if bonus.Result == nil || bonus.Result.ScaledTimeReward != 5 || bonus.Result.CappedBy != dds.CapMinutesLeft {
		t.Errorf("bonus = %+v, want capped at 5", bonus.Result)
	}
	// The bonus used the score accumulated from the late milestone.
	if bonus.Points != 910 {
		t.Errorf("bonus points = %v, want 910", bonus.Points)
	}
	if len(rec.steps) != 3 {
		t.Errorf("recorded %d steps, want 3 reward steps", len(rec.steps))
	}
	if res.Steps[2].Elapsed != 395 || res.Steps[4].MinutesLeft != 2 {
		t.Errorf("time tracking: elapsed=%v minutesLeft=%v", res.Steps[2].Elapsed, res.Steps[4].MinutesLeft)
	}
}

func TestRunSkipsInvalidEvents(t *testing.T) {
	script := Script{Events: []Event{
		{Time: f(30)},
		{Milestone: &Award{Points: f(-5), Base: 10}},
		{Bonus: &Award{Points: f(10), Base: -1}},
		{Milestone: &Award{Points: f(10), Base: 10}},
	}}

	r := NewRunner(newSession(t), nil, nil)
	res, err := r.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	if res.Steps[1].Err == "" || res.Steps[1].Result != nil {
		t.Errorf("invalid milestone step = %+v", res.Steps[1])
	}
	if res.Steps[3].Result == nil {
		t.Error("valid milestone after skipped events was not scored")
	}
}

func TestRunReset(t *testing.T) {
	script := Script{InitialPoints: 40, Events: []Event{
		{Time: f(50)},
		{Reset: true},
		{Time: f(20)},
	}}
	r := NewRunner(newSession(t), nil, nil)
	res, err := r.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Steps[1].Elapsed != 0 || res.Steps[1].Tick != 0 {
		t.Errorf("reset step = %+v", res.Steps[1])
	}
	if res.Steps[2].Elapsed != 20 {
		t.Errorf("elapsed after reset = %v, want 20", res.Steps[2].Elapsed)
	}
	if res.FinalPoints != 0 {
		t.Errorf("FinalPoints = %v, want 0 after reset", res.FinalPoints)
	}
}

func TestRunRecorderFailureStops(t *testing.T) {
	boom := errors.New("disk full")
	script := Script{Events: []Event{
		{Milestone: &Award{Base: 1}},
		{Milestone: &Award{Base: 1}},
	}}
	r := NewRunner(newSession(t), &memRecorder{fail: boom}, nil)
	res, err := r.Run(context.Background(), script)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want recorder error", err)
	}
	if len(res.Steps) != 1 {
		t.Errorf("steps after failure = %d, want 1", len(res.Steps))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(newSession(t), nil, nil)
	if _, err := r.Run(ctx, Script{Events: []Event{{Time: f(1)}}}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunUninitializedSession(t *testing.T) {
	r := NewRunner(&dds.Session{}, nil, nil)
	_, err := r.Run(context.Background(), Script{Events: []Event{{Time: f(1)}}})
	if !errors.Is(err, dds.ErrSessionNotInitialized) {
		t.Errorf("err = %v, want ErrSessionNotInitialized", err)
	}

	if _, err := NewRunner(nil, nil, nil).Run(context.Background(), Script{}); !errors.Is(err, dds.ErrSessionNotInitialized) {
		t.Errorf("nil session err = %v", err)
	}
}
