package gateway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/policy"
	memApproval "github.com/viant/taskly/service/approval/memory"
	"github.com/viant/taskly/service/gateway"
)

func TestService_Verify(t *testing.T) {
	svc := gateway.New(gateway.WithWorkspace("/ws"))
	ctx := context.Background()

	var testCases = []struct {
		description string
		step        *task.Step
		expectRisk  policy.RiskLevel
		expectAllow bool
	}{
		{
			description: "path outside workspace dominates tool and keywords",
			step:        &task.Step{ID: 1, Tool: "file_system_reader", Description: "read /etc/passwd"},
			expectRisk:  policy.RiskDangerous,
		},
		{
			description: "path inside workspace never dangerous on path grounds",
			step:        &task.Step{ID: 2, Tool: "file_system_reader", Description: "read /ws/notes.txt"},
			expectRisk:  policy.RiskSafe,
			expectAllow: true,
		},
		{
			description: "write keyword is risky",
			step:        &task.Step{ID: 3, Tool: "file_writer", Description: "write hello.txt"},
			expectRisk:  policy.RiskRisky,
		},
		{
			description: "read-only tool is allowed",
			step:        &task.Step{ID: 4, Tool: "list_dir", Description: "enumerate workspace entries"},
			expectRisk:  policy.RiskSafe,
			expectAllow: true,
		},
		{
			description: "unknown tool fails toward approval",
			step:        &task.Step{ID: 5, Tool: "warp_drive", Description: "engage"},
			expectRisk:  policy.RiskRisky,
		},
	}

	for _, testCase := range testCases {
		result := svc.Verify(ctx, testCase.step, nil)
		assert.Equal(t, testCase.expectRisk, result.Risk, testCase.description)
		assert.Equal(t, testCase.expectAllow, result.Allowed, testCase.description)
		assert.Equal(t, testCase.step.ID, result.StepID, testCase.description)
	}
}

// Scenario: a risky step moves the task into awaiting_user_approval and an
// approval request is published; Approve retains the step pointer.
func TestService_VerifyBlocksState(t *testing.T) {
	ctx := context.Background()
	approvals := memApproval.New()
	svc := gateway.New(
		gateway.WithWorkspace("/ws"),
		gateway.WithApprovalService(approvals),
	)

	state := task.New("write hello")
	step := &task.Step{ID: 1, Tool: "file_writer", Description: "write hello.txt"}
	state.Plan = []*task.Step{step}

	result := svc.Verify(ctx, step, state)
	assert.False(t, result.Allowed)
	assert.Equal(t, policy.RiskRisky, result.Risk)

	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)
	assert.Equal(t, result.Reason, state.Error)
	if assert.NotNil(t, state.Blocked) {
		assert.Equal(t, 1, state.Blocked.StepID)
		assert.Equal(t, string(policy.RiskRisky), state.Blocked.Risk)
		assert.NotEmpty(t, state.Blocked.RequestID)
		// the snapshot is detached from the plan step
		step.Description = "mutated later"
		assert.Equal(t, "write hello.txt", state.Blocked.Step.Description)
	}

	pending, err := approvals.ListPending(ctx)
	assert.NoError(t, err)
	if assert.Len(t, pending, 1) {
		assert.Equal(t, 1, pending[0].StepID)
	}

	svc.Approve(state)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Blocked)
	if assert.NotNil(t, state.ApprovedStepID) {
		assert.Equal(t, 1, *state.ApprovedStepID)
	}
}

func TestService_Reject(t *testing.T) {
	svc := gateway.New(gateway.WithWorkspace("/ws"))
	state := task.New("dangerous request")
	step := &task.Step{ID: 1, Tool: "shell", Description: "remove /etc/hosts"}
	state.Plan = []*task.Step{step}

	result := svc.Verify(context.Background(), step, state)
	assert.False(t, result.Allowed)
	assert.Equal(t, policy.RiskDangerous, result.Risk)

	svc.Reject(state, "operator rejected the step")
	assert.Nil(t, state.Blocked)
	assert.Nil(t, state.ApprovedStepID)
	assert.Equal(t, "operator rejected the step", state.Error)
}
