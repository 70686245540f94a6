package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

// Kind identifies what an event or step did.
type Kind string

const (
	KindTime      Kind = "time"
	KindRemaining Kind = "remaining"
	KindMilestone Kind = "milestone"
	KindBonus     Kind = "bonus"
	KindReset     Kind = "reset"
)

// Step is the outcome of one replayed event.
type Step struct {
	Index       int
	Kind        Kind
	Tick        uint64
	Raw         float64 // Raw value for time/remaining events
	Elapsed     float64 // Visible elapsed minutes after the event
	MinutesLeft float64
	Points      float64 // Score the reward was computed for (before it is added)
	Base        float64
	Result      *dds.RewardResult // Set for milestone and bonus steps
	Err         string            // Recoverable error; the event was skipped
}

// Recorder persists reward steps. storage.Store implements it.
type Recorder interface {
	RecordStep(ctx context.Context, sessionID string, step Step) error
}

// Result summarizes a replay.
type Result struct {
	SessionID   string
	Steps       []Step
	FinalPoints float64
	Skipped     int
}

// Runner replays scripts against one session.
type Runner struct {
	session  *dds.Session
	recorder Recorder
	logger   *log.Logger
	points   float64
}

// NewRunner creates a runner. recorder and logger may be nil.
func NewRunner(session *dds.Session, recorder Recorder, logger *log.Logger) *Runner {
	return &Runner{session: session, recorder: recorder, logger: logger}
}

// Points returns the runner's current score.
func (r *Runner) Points() float64 {
	return r.points
}

// SetPoints overrides the runner's score, for resuming a saved run.
func (r *Runner) SetPoints(points float64) {
	r.points = points
}

// Run replays every event in order. Invalid events are logged and skipped,
// the way an engine would drop a bad scoring event; only an uninitialized
// session, a cancelled context or a recorder failure stop the run.
func (r *Runner) Run(ctx context.Context, script Script) (Result, error) {
	if r.session == nil {
		return Result{}, fmt.Errorf("sim: %w", dds.ErrSessionNotInitialized)
	}
	if script.InitialPoints > 0 {
		r.points = script.InitialPoints
	}

	res := Result{SessionID: r.session.ID()}
	for i, e := range script.Events {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		step, err := r.apply(i, e)
		if err != nil {
			return res, err
		}
		if step.Err != "" {
			res.Skipped++
			if r.logger != nil {
				r.logger.Warn("event skipped", "index", i, "kind", step.Kind, "error", step.Err)
			}
		}
		res.Steps = append(res.Steps, step)

		if r.recorder != nil && step.Result != nil {
			if err := r.recorder.RecordStep(ctx, res.SessionID, step); err != nil {
				return res, fmt.Errorf("sim: record step %d: %w", i, err)
			}
		}
	}
	res.FinalPoints = r.points
	return res, nil
}

func (r *Runner) apply(i int, e Event) (Step, error) {
	kind, err := e.Kind()
	step := Step{Index: i, Kind: kind}
	if err != nil {
		step.Err = err.Error()
		return r.finish(step), nil
	}

	switch kind {
	case KindTime:
		step.Raw = *e.Time
		_, err = r.session.ReportTime(*e.Time)
	case KindRemaining:
		step.Raw = *e.Remaining
		err = r.session.ReportRemaining(*e.Remaining)
	case KindMilestone:
		err = r.award(&step, e.Milestone, r.session.ScoreMilestone)
	case KindBonus:
		err = r.award(&step, e.Bonus, r.session.ScoreTimeBonus)
	case KindReset:
		err = r.session.Reset()
		r.points = 0
	}

	if err != nil {
		// Only input problems are recoverable.
		if isFatal(err) {
			return step, err
		}
		step.Err = err.Error()
	}
	return r.finish(step), nil
}

func (r *Runner) award(step *Step, a *Award, score func(points, base float64) (dds.RewardResult, error)) error {
	points := r.points
	if a.Points != nil {
		points = *a.Points
	}
	step.Points = points
	step.Base = a.Base

	res, err := score(points, a.Base)
	if err != nil {
		return err
	}
	step.Result = &res
	r.points = points
	if step.Kind == KindMilestone {
		r.points += res.ScaledMilestoneValue
	}
	return nil
}

func (r *Runner) finish(step Step) Step {
	step.Tick = r.session.Tick()
	step.Elapsed = r.session.ElapsedMinutes()
	step.MinutesLeft = r.session.MinutesLeft()
	return step
}

func isFatal(err error) bool {
	return errors.Is(err, dds.ErrSessionNotInitialized)
}
