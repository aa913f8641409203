package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
)

func TestState_ApproveRetainsStepPointer(t *testing.T) {
	state := task.New("write hello")
	state.Plan = []*task.Step{{ID: 1, Tool: "file_writer", Description: "write hello.txt"}}
	state.Block(&task.Approval{StepID: 1, Risk: "RISKY", Reason: "write requires approval", Step: state.Plan[0].Clone()})

	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)
	assert.Equal(t, "write requires approval", state.Error)
	assert.NotNil(t, state.Blocked)

	state.Approve()
	assert.Equal(t, task.PhaseExecution, state.Phase)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Blocked)
	if assert.NotNil(t, state.ApprovedStepID) {
		assert.Equal(t, 1, *state.ApprovedStepID)
	}

	id, ok := state.TakeApprovedStep()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = state.TakeApprovedStep()
	assert.False(t, ok)
}

func TestState_RejectClearsPending(t *testing.T) {
	state := task.New("remove /etc/passwd")
	state.Plan = []*task.Step{{ID: 1, Tool: "shell", Description: "rm /etc/passwd"}}
	state.Block(&task.Approval{StepID: 1, Risk: "DANGEROUS", Reason: "path outside workspace"})

	state.Reject("user rejected the step")
	assert.Nil(t, state.Blocked)
	assert.Nil(t, state.ApprovedStepID)
	assert.Equal(t, "user rejected the step", state.Error)
}

func TestState_TakeRetryFlagIsOneShot(t *testing.T) {
	state := task.New("")
	state.ArmRetry()
	assert.True(t, state.TakeRetryFlag())
	assert.False(t, state.TakeRetryFlag())
}

func TestState_MaxStepID(t *testing.T) {
	var testCases = []struct {
		description string
		plan        []*task.Step
		expected    int
	}{
		{
			description: "empty plan",
			expected:    0,
		},
		{
			description: "ordered ids",
			plan:        []*task.Step{{ID: 1}, {ID: 2}, {ID: 3}},
			expected:    3,
		},
		{
			description: "sparse ids",
			plan:        []*task.Step{{ID: 2}, {ID: 7}, {ID: 5}},
			expected:    7,
		},
	}
	for _, testCase := range testCases {
		state := &task.State{Plan: testCase.plan}
		assert.Equal(t, testCase.expected, state.MaxStepID(), testCase.description)
	}
}

func TestState_ResultRoundTrip(t *testing.T) {
	state := task.New("")
	state.SetResult(4, task.NewResult("ok", "", 0))
	result := state.Result(4)
	if assert.NotNil(t, result) {
		assert.True(t, result.Success)
		assert.Equal(t, "ok", result.Output)
	}
	state.DropResult(task.ResultKey(4))
	assert.Nil(t, state.Result(4))
}

func TestNewResult_OutputFallsBackToStderr(t *testing.T) {
	result := task.NewResult("", "no such file", 2)
	assert.False(t, result.Success)
	assert.Equal(t, "no such file", result.Output)
	assert.Equal(t, 2, result.ExitCode)
}
