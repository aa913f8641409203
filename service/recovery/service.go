package recovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/taskly/internal/clock"
	"github.com/viant/taskly/metrics"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
)

// Strategy names the recovery action chosen for a failed plan.
type Strategy string

const (
	// StrategyRetry re-executes the failed steps unchanged.
	StrategyRetry Strategy = "RETRY"
	// StrategyReplan appends corrective steps to the plan.
	StrategyReplan Strategy = "REPLAN"
	// StrategyAbort gives up on the task.
	StrategyAbort Strategy = "ABORT"
)

// DefaultMaxRetries bounds how many recovery rounds a task may consume.
const DefaultMaxRetries = 3

// Decision is a strategist's answer: which strategy to apply, why, and for
// REPLAN the corrective steps to append.
type Decision struct {
	Strategy Strategy     `json:"strategy"`
	Reason   string       `json:"reason,omitempty"`
	NewSteps []*task.Step `json:"newSteps,omitempty"`
}

// Context summarises the failed task for the strategist.
type Context struct {
	Intent     string
	Plan       []*task.Step
	Results    map[string]*task.Result
	Feedback   map[string]*task.Verdict
	Error      string
	RetryCount int
	MaxRetries int
}

// Strategist analyses a failed task and picks a recovery strategy.
type Strategist interface {
	Decide(ctx context.Context, recoveryContext *Context) (*Decision, error)
}

// StrategistFunc adapts a function to the Strategist interface.
type StrategistFunc func(ctx context.Context, recoveryContext *Context) (*Decision, error)

// Decide calls the function.
func (f StrategistFunc) Decide(ctx context.Context, recoveryContext *Context) (*Decision, error) {
	return f(ctx, recoveryContext)
}

// Service applies recovery strategies to failed tasks: a bounded number of
// retry/replan rounds, then abort.
type Service struct {
	strategist Strategist
	lessons    lesson.Service
	maxRetries int
}

// New creates a recovery engine around the supplied strategist.
func New(strategist Strategist, options ...Option) *Service {
	ret := &Service{
		strategist: strategist,
		maxRetries: DefaultMaxRetries,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// MaxRetries returns the retry ceiling.
func (s *Service) MaxRetries() int {
	return s.maxRetries
}

// Recover picks and applies a recovery strategy for the failed state. The
// retry ceiling forces an abort without consulting the strategist; a
// strategist error or an unrecognized strategy also aborts.
func (s *Service) Recover(ctx context.Context, state *task.State) (Strategy, error) {
	state.Phase = task.PhaseRecovery

	if state.RetryCount >= s.maxRetries {
		state.Error = fmt.Sprintf("max retries (%d) reached, giving up recovery", s.maxRetries)
		return StrategyAbort, nil
	}
	if s.strategist == nil {
		state.Error = "no recovery strategist configured"
		return StrategyAbort, nil
	}

	decision, err := s.strategist.Decide(ctx, s.contextFor(state))
	if err != nil || decision == nil {
		if state.Error == "" {
			state.Error = fmt.Sprintf("recovery strategist failed: %v", err)
		}
		return StrategyAbort, nil
	}

	switch normalize(decision.Strategy) {
	case StrategyRetry:
		s.dropFailedResults(state)
		state.ArmRetry()
		return StrategyRetry, nil
	case StrategyReplan:
		s.replan(ctx, state, decision)
		return StrategyReplan, nil
	default:
		if state.Error == "" {
			if decision.Reason != "" {
				state.Error = decision.Reason
			} else {
				state.Error = "recovery decided to give up"
			}
		}
		return StrategyAbort, nil
	}
}

func (s *Service) replan(ctx context.Context, state *task.State, decision *Decision) {
	s.dropFailedResults(state)
	if len(decision.NewSteps) > 0 {
		nextID := state.MaxStepID() + 1
		for _, step := range decision.NewSteps {
			if step.ID == 0 {
				step.ID = nextID
			}
			nextID = step.ID + 1
			state.Plan = append(state.Plan, step)
		}
	}
	state.RetryCount++
	metrics.FromContext(ctx).Add(metrics.CounterReplans, 1)
	if s.lessons != nil {
		// lesson persistence is best effort
		if err := s.lessons.AppendLesson(ctx, &lesson.Lesson{
			Intent:    state.Intent,
			Reason:    decision.Reason,
			NewSteps:  decision.NewSteps,
			CreatedAt: clock.Now().UTC(),
		}); err == nil {
			metrics.FromContext(ctx).Add(metrics.CounterLessonSaves, 1)
		}
	}
}

// dropFailedResults removes results for steps whose verdict is FAILED so the
// next execution pass re-runs them.
func (s *Service) dropFailedResults(state *task.State) {
	for key, verdict := range state.VerificationFeedback {
		if verdict != nil && verdict.Failed() {
			state.DropResult(key)
		}
	}
}

func (s *Service) contextFor(state *task.State) *Context {
	return &Context{
		Intent:     state.Intent,
		Plan:       state.Plan,
		Results:    state.ExecutionResults,
		Feedback:   state.VerificationFeedback,
		Error:      state.Error,
		RetryCount: state.RetryCount,
		MaxRetries: s.maxRetries,
	}
}

func normalize(strategy Strategy) Strategy {
	return Strategy(strings.ToUpper(strings.TrimSpace(string(strategy))))
}
