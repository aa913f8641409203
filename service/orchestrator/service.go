package orchestrator

import (
	"context"
	"fmt"

	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/gateway"
	"github.com/viant/taskly/service/sandbox"
	"github.com/viant/taskly/tracing"
)

// Service walks the plan, consults the permission gateway, dispatches to the
// sandbox executor and records results. It is idempotent at the plan level: a
// second Run over a fully successful state executes nothing.
type Service struct {
	gateway  *gateway.Service
	executor sandbox.Executor
	resolver Resolver
}

// New creates an execution orchestrator.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.gateway == nil {
		ret.gateway = gateway.New()
	}
	if ret.resolver == nil {
		ret.resolver = NewHeuristicResolver()
	}
	return ret
}

// Run executes the plan against the task state and returns the same state
// reference for chaining.
//
// The loop stops on the first gateway-blocked step (later steps are not
// attempted). When the state carries an approved step pointer the working set
// is exactly that one step and the gateway check is skipped for it – the step
// was already explicitly approved.
func (s *Service) Run(ctx context.Context, state *task.State) *task.State {
	if len(state.Plan) == 0 {
		state.Phase = task.PhaseExecution
		return state
	}
	// An unresolved approval must be decided by the caller first; this call
	// must not auto-advance.
	if state.Phase == task.PhaseAwaitingApproval {
		return state
	}
	state.Phase = task.PhaseExecution

	allowRetryFailed := state.TakeRetryFlag()

	approvedID, justApproved := state.TakeApprovedStep()
	working := state.Plan
	if justApproved {
		working = nil
		if step := state.LookupStep(approvedID); step != nil {
			working = []*task.Step{step}
		}
	}

	for _, step := range working {
		if existing := state.Result(step.ID); existing != nil {
			if existing.Success {
				// a successful result is never re-executed
				continue
			}
			if !allowRetryFailed {
				continue
			}
		}
		if !justApproved {
			if verification := s.gateway.Verify(ctx, step, state); !verification.Allowed {
				return state
			}
		}
		s.executeStep(ctx, step, state)
	}
	return state
}

func (s *Service) executeStep(ctx context.Context, step *task.Step, state *task.State) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("orchestrator.step %v", step.ID))
	span.WithAttributes(map[string]string{"tool": step.Tool})

	runnable, err := s.resolver.Resolve(ctx, step, state)
	if err != nil {
		state.SetResult(step.ID, task.NewErrorResult(err))
		tracing.EndSpan(span, err)
		return
	}

	var stdout, stderr string
	var exitCode int
	var execErr error
	switch runnable.Kind {
	case KindCode:
		stdout, stderr, exitCode, execErr = s.executor.ExecuteCode(ctx, runnable.Payload)
	case KindCommand:
		stdout, stderr, exitCode, execErr = s.executor.ExecuteCommand(ctx, runnable.Payload)
	default:
		stdout, stderr, exitCode = "", fmt.Sprintf("unsupported runnable kind %v", runnable.Kind), -1
	}
	if execErr != nil {
		// executor exceptions are captured per step, never raised further
		state.SetResult(step.ID, task.NewErrorResult(execErr))
		tracing.EndSpan(span, execErr)
		return
	}
	state.SetResult(step.ID, task.NewResult(stdout, stderr, exitCode))
	tracing.EndSpan(span, nil)
}
