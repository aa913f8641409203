package gateway

import (
	"context"

	"github.com/viant/taskly/internal/idgen"
	"github.com/viant/taskly/metrics"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/service/approval"
)

// DefaultWorkspace is the workspace root used when none is configured.
const DefaultWorkspace = "./sandbox_workspace"

// Verification is the gateway's answer for a single step.
type Verification struct {
	Allowed bool
	Risk    policy.RiskLevel
	Reason  string
	StepID  int
	Step    *task.Step // snapshot taken at verification time
}

// Service is the permission gateway: it classifies a step's risk level and
// either allows it or places the task into an awaiting-approval state. Its
// only internal state is the immutable workspace root and the rule table.
type Service struct {
	workspace string // absolute, forward slashes
	rules     *policy.Ruleset
	approvals approval.Service // optional; posts a request per blocked step
}

// New creates a permission gateway.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.workspace == "" {
		ret.workspace = DefaultWorkspace
	}
	ret.workspace = normalizeWorkspace(ret.workspace)
	if ret.rules == nil {
		ret.rules = policy.Default()
	}
	return ret
}

// Workspace returns the normalized workspace root.
func (s *Service) Workspace() string {
	return s.workspace
}

// Verify classifies the step. Classification order, most dangerous first:
// path outside the workspace root, dangerous keywords/tools, risky
// keywords/tools, explicit read-only allow list, then a risky default.
//
// On disallow, when a mutable state is supplied, the task transitions to
// awaiting_user_approval with the reason recorded as the blocking error, and
// an approval request is published when an approval service is configured.
func (s *Service) Verify(ctx context.Context, step *task.Step, state *task.State) *Verification {
	result := s.classify(step)
	if !result.Allowed {
		s.block(ctx, state, result)
	}
	return result
}

func (s *Service) classify(step *task.Step) *Verification {
	snapshot := step.Clone()
	if hasPathOutsideWorkspace(s.workspace, step) {
		return &Verification{
			Allowed: false,
			Risk:    policy.RiskDangerous,
			Reason:  "step references a path outside the workspace root",
			StepID:  step.ID,
			Step:    snapshot,
		}
	}
	verdict := s.rules.Evaluate(step)
	return &Verification{
		Allowed: verdict.Allowed,
		Risk:    verdict.Level,
		Reason:  verdict.Reason,
		StepID:  step.ID,
		Step:    snapshot,
	}
}

func (s *Service) block(ctx context.Context, state *task.State, result *Verification) {
	if state == nil {
		return
	}
	metrics.FromContext(ctx).Add(metrics.CounterBlocked, 1)
	pending := &task.Approval{
		StepID: result.StepID,
		Risk:   string(result.Risk),
		Reason: result.Reason,
		Step:   result.Step,
	}
	if s.approvals != nil {
		request := &approval.Request{
			ID:     idgen.New(),
			StepID: result.StepID,
			Risk:   string(result.Risk),
			Reason: result.Reason,
			Step:   result.Step,
		}
		if err := s.approvals.RequestApproval(ctx, request); err == nil {
			pending.RequestID = request.ID
		}
	}
	state.Block(pending)
}

// Approve resolves the pending approval on the state: the error and the
// displayed pending-step fields are cleared while the approved step pointer
// is retained, signalling the orchestrator to execute exactly that step next
// without a second gateway check.
func (s *Service) Approve(state *task.State) {
	state.Approve()
}

// Reject discards the pending approval; the step stays unexecuted and the
// reason is surfaced through the state error.
func (s *Service) Reject(state *task.State, reason string) {
	if reason == "" {
		reason = "step rejected by user"
	}
	state.Reject(reason)
}
