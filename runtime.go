package taskly

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/taskly/metrics"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/approval"
	"github.com/viant/taskly/service/gateway"
	"github.com/viant/taskly/service/lesson"
	"github.com/viant/taskly/service/orchestrator"
	"github.com/viant/taskly/service/recovery"
	"github.com/viant/taskly/service/verifier"
)

// DefaultApprovalWait bounds how long Run blocks on a pending approval before
// giving the task back to the caller.
const DefaultApprovalWait = time.Minute

// lessons quoted in planning prompts; older ones are still persisted
const recentLessonLimit = 5

// Runtime drives a task through its lifecycle: plan, execute with approval
// pauses, verify, and recover until success, abort or budget exhaustion.
type Runtime struct {
	planner      Planner
	gateway      *gateway.Service
	orchestrator *orchestrator.Service
	verifier     *verifier.Service
	recovery     *recovery.Service
	approvals    approval.Service
	lessons      lesson.Service
	collector    metrics.Collector
	approvalWait time.Duration
}

// NewTask creates a task state for the intent and plans it. A previously
// successful plan with a similar intent is reused without a planner round
// trip; otherwise the configured planner runs, primed with recent lessons.
// Without a planner the state is returned unplanned so the caller can attach
// a plan directly.
func (r *Runtime) NewTask(ctx context.Context, intent string) (*task.State, error) {
	ctx = r.contextFor(ctx)
	state := task.New(intent)
	state.Phase = task.PhaseUnderstanding

	if r.lessons != nil {
		if record, err := r.lessons.FindSimilarPlan(ctx, intent); err == nil && record != nil {
			metrics.FromContext(ctx).Add(metrics.CounterPlanHits, 1)
			for _, step := range record.Plan {
				state.Plan = append(state.Plan, step.Clone())
			}
			state.Phase = task.PhasePlanning
			return state, nil
		}
	}
	if r.planner == nil {
		return state, nil
	}
	if err := r.planner.Plan(ctx, state, r.recentLessons(ctx)); err != nil {
		return state, err
	}
	return state, nil
}

// Execute runs a single orchestrator pass; the state may come back awaiting
// approval, to be resolved with Approve or Reject.
func (r *Runtime) Execute(ctx context.Context, state *task.State) *task.State {
	return r.orchestrator.Run(r.contextFor(ctx), state)
}

// Verify recomputes the verification feedback for the plan.
func (r *Runtime) Verify(ctx context.Context, state *task.State) *task.State {
	return r.verifier.Verify(r.contextFor(ctx), state)
}

// Approve resolves the pending approval positively.
func (r *Runtime) Approve(state *task.State) {
	r.gateway.Approve(state)
}

// Reject resolves the pending approval negatively.
func (r *Runtime) Reject(state *task.State, reason string) {
	r.gateway.Reject(state, reason)
}

// Run drives the task to completion: execution passes interleaved with
// approval decisions, then verification, then recovery. Replans and retries
// loop back into execution; the loop is bounded by the recovery budget plus
// the initial pass regardless of the chosen strategies. On success the plan
// is recorded for reuse.
func (r *Runtime) Run(ctx context.Context, state *task.State) (*task.State, error) {
	ctx = r.contextFor(ctx)
	if len(state.Plan) == 0 {
		return state, nil
	}
	for pass := 0; pass <= r.recovery.MaxRetries(); pass++ {
		if err := r.executeUntilSettled(ctx, state); err != nil {
			return state, err
		}
		r.verifier.Verify(ctx, state)
		if !r.verifier.HasFailures(state) {
			if r.lessons != nil {
				// best effort; a failed write never fails the task
				_ = r.lessons.RecordPlan(ctx, state.Intent, state.Plan)
			}
			return state, nil
		}
		strategy, err := r.recovery.Recover(ctx, state)
		if err != nil {
			return state, err
		}
		if strategy == recovery.StrategyAbort {
			return state, nil
		}
	}
	if state.Error == "" {
		state.Error = "recovery budget exhausted"
	}
	return state, nil
}

// executeUntilSettled repeats orchestrator passes, resolving approval pauses
// through the approval service, until every runnable step has a result. A
// rejection settles the pass; verification records the skipped step as
// failed.
func (r *Runtime) executeUntilSettled(ctx context.Context, state *task.State) error {
	for {
		r.orchestrator.Run(ctx, state)
		if state.Phase != task.PhaseAwaitingApproval {
			return nil
		}
		if state.Blocked == nil || state.Blocked.RequestID == "" {
			return fmt.Errorf("step blocked with no approval request to wait on")
		}
		decision, err := approval.WaitForDecision(ctx, r.approvals, state.Blocked.RequestID, r.approvalWait)
		if err != nil {
			return err
		}
		if decision.Approved {
			r.gateway.Approve(state)
			continue
		}
		r.gateway.Reject(state, decision.Reason)
		return nil
	}
}

func (r *Runtime) recentLessons(ctx context.Context) []*lesson.Lesson {
	if r.lessons == nil {
		return nil
	}
	all, err := r.lessons.Lessons(ctx)
	if err != nil || len(all) == 0 {
		return nil
	}
	if len(all) > recentLessonLimit {
		all = all[len(all)-recentLessonLimit:]
	}
	return all
}

func (r *Runtime) contextFor(ctx context.Context) context.Context {
	if r.collector == nil {
		return ctx
	}
	return metrics.WithCollector(ctx, r.collector)
}
