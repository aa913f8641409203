package verifier

import (
	"context"
	"fmt"

	"github.com/viant/taskly/model/task"
)

// Judge is an optional external assessor consulted when deep verification is
// requested and a step failed mechanically; its verdict text replaces the
// mechanical reason.
type Judge interface {
	Assess(ctx context.Context, expectedOutcome, resultExcerpt string) (string, error)
}

// Service compares recorded results against each step's expected outcome and
// recomputes the verification feedback for the whole plan on every pass.
type Service struct {
	judge         Judge
	deep          bool
	excerptLength int
}

// New creates a verification engine.
func New(options ...Option) *Service {
	ret := &Service{excerptLength: 200}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Verify recomputes the verification feedback for every step in the plan and
// returns the same state reference for chaining.
func (s *Service) Verify(ctx context.Context, state *task.State) *task.State {
	state.Phase = task.PhaseVerification
	for _, step := range state.Plan {
		state.SetVerdict(step.ID, s.verdictFor(ctx, step, state))
	}
	return state
}

func (s *Service) verdictFor(ctx context.Context, step *task.Step, state *task.State) *task.Verdict {
	result := state.Result(step.ID)
	if result == nil {
		return &task.Verdict{
			Status:          task.VerdictFailed,
			Reason:          "no result produced (blocked or not run)",
			ExpectedOutcome: step.ExpectedOutcome,
		}
	}
	if result.Success && result.ExitCode == 0 {
		return &task.Verdict{
			Status:          task.VerdictSuccess,
			Reason:          "exit_code=0, execution succeeded",
			ExpectedOutcome: step.ExpectedOutcome,
		}
	}
	excerpt := truncate(result.Output, s.excerptLength)
	reason := fmt.Sprintf("exit_code=%d, execution failed: %s", result.ExitCode, excerpt)
	if s.deep && s.judge != nil {
		// judge unavailability falls back to the mechanical reason
		if assessed, err := s.judge.Assess(ctx, step.ExpectedOutcome, excerpt); err == nil && assessed != "" {
			reason = assessed
		}
	}
	return &task.Verdict{
		Status:          task.VerdictFailed,
		Reason:          reason,
		ExpectedOutcome: step.ExpectedOutcome,
	}
}

// HasFailures reports whether any verdict marks a step as failed.
func (s *Service) HasFailures(state *task.State) bool {
	for _, verdict := range state.VerificationFeedback {
		if verdict.Failed() {
			return true
		}
	}
	return false
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
