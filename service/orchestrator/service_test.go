package orchestrator_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/gateway"
	"github.com/viant/taskly/service/orchestrator"
)

// stubExecutor records calls and replies with canned outputs keyed by
// payload substring.
type stubExecutor struct {
	calls    []string
	exitCode map[string]int
	stderr   map[string]string
}

func newStubExecutor() *stubExecutor {
	return &stubExecutor{exitCode: map[string]int{}, stderr: map[string]string{}}
}

func (s *stubExecutor) run(payload string) (string, string, int, error) {
	s.calls = append(s.calls, payload)
	for key, code := range s.exitCode {
		if key != "" && strings.Contains(payload, key) {
			return "", s.stderr[key], code, nil
		}
	}
	return "", "", 0, nil
}

func (s *stubExecutor) ExecuteCode(_ context.Context, code string) (string, string, int, error) {
	return s.run(code)
}

func (s *stubExecutor) ExecuteCommand(_ context.Context, command string) (string, string, int, error) {
	return s.run(command)
}

func newService(executor *stubExecutor) *orchestrator.Service {
	return orchestrator.New(
		orchestrator.WithGateway(gateway.New(gateway.WithWorkspace("/ws"))),
		orchestrator.WithExecutor(executor),
	)
}

// Scenario A: a risky step halts the loop with the task awaiting approval.
func TestRun_BlocksOnRiskyStep(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)

	state := task.New("write hello")
	state.Plan = []*task.Step{{ID: 1, Tool: "file_writer", Description: "write hello.txt"}}

	svc.Run(context.Background(), state)

	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)
	assert.NotNil(t, state.Blocked)
	assert.Equal(t, 1, state.Blocked.StepID)
	assert.Empty(t, executor.calls)
	assert.Nil(t, state.Result(1))
}

// Scenario B: approval resumption executes exactly the approved step and the
// phase returns to execution.
func TestRun_ApprovalResumption(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)
	gw := gateway.New(gateway.WithWorkspace("/ws"))

	state := task.New("write hello")
	state.Plan = []*task.Step{
		{ID: 1, Tool: "file_writer", Description: "write hello.txt"},
		{ID: 2, Tool: "file_writer", Description: "write goodbye.txt"},
	}

	svc.Run(context.Background(), state)
	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)

	gw.Approve(state)
	svc.Run(context.Background(), state)

	assert.Equal(t, task.PhaseExecution, state.Phase)
	result := state.Result(1)
	if assert.NotNil(t, result) {
		assert.True(t, result.Success)
	}
	// only the approved step ran; step 2 is still pending its own approval
	assert.Len(t, executor.calls, 1)
	assert.Nil(t, state.Result(2))
}

// While awaiting approval, Run must not auto-advance.
func TestRun_NoAutoAdvanceWhileBlocked(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)

	state := task.New("write hello")
	state.Plan = []*task.Step{{ID: 1, Tool: "file_writer", Description: "write hello.txt"}}

	svc.Run(context.Background(), state)
	svc.Run(context.Background(), state)

	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)
	assert.Empty(t, executor.calls)
}

// Idempotence: running twice over a successful state executes nothing new.
func TestRun_Idempotent(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)

	state := task.New("read files")
	state.Plan = []*task.Step{
		{ID: 1, Tool: "file_system_reader", Description: "read a.txt"},
		{ID: 2, Tool: "list_dir", Description: "list workspace"},
	}

	svc.Run(context.Background(), state)
	first := len(executor.calls)
	assert.Equal(t, 2, first)

	svc.Run(context.Background(), state)
	assert.Equal(t, first, len(executor.calls))
	assert.True(t, state.Result(1).Success)
	assert.True(t, state.Result(2).Success)
}

// Failed steps are skipped unless the one-shot retry flag was armed, and the
// flag does not survive the pass.
func TestRun_RetryFailedOnlyWhenArmed(t *testing.T) {
	executor := newStubExecutor()
	executor.exitCode["a.txt"] = 1
	executor.stderr["a.txt"] = "No such file or directory"
	svc := newService(executor)

	state := task.New("read files")
	state.Plan = []*task.Step{{ID: 1, Tool: "file_system_reader", Description: "read a.txt"}}

	svc.Run(context.Background(), state)
	assert.False(t, state.Result(1).Success)
	assert.Len(t, executor.calls, 1)

	// without the flag the failed step is skipped
	svc.Run(context.Background(), state)
	assert.Len(t, executor.calls, 1)

	// with the flag it re-executes once
	state.ArmRetry()
	svc.Run(context.Background(), state)
	assert.Len(t, executor.calls, 2)

	// the flag was consumed
	svc.Run(context.Background(), state)
	assert.Len(t, executor.calls, 2)
}

// An empty plan marks the phase and returns unchanged.
func TestRun_EmptyPlan(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)

	state := task.New("nothing to do")
	svc.Run(context.Background(), state)
	assert.Equal(t, task.PhaseExecution, state.Phase)
	assert.Empty(t, state.ExecutionResults)
}

// The loop halts entirely on the first blocked step; later steps are not
// attempted even if they would be allowed.
func TestRun_HaltsOnFirstBlockedStep(t *testing.T) {
	executor := newStubExecutor()
	svc := newService(executor)

	state := task.New("mixed plan")
	state.Plan = []*task.Step{
		{ID: 1, Tool: "list_dir", Description: "list workspace"},
		{ID: 2, Tool: "file_writer", Description: "write out.txt"},
		{ID: 3, Tool: "list_dir", Description: "list workspace again"},
	}

	svc.Run(context.Background(), state)

	assert.True(t, state.Result(1).Success)
	assert.Equal(t, task.PhaseAwaitingApproval, state.Phase)
	assert.Equal(t, 2, state.Blocked.StepID)
	assert.Nil(t, state.Result(3))
	assert.Len(t, executor.calls, 1)
}

type failingExecutor struct{}

func (failingExecutor) ExecuteCode(context.Context, string) (string, string, int, error) {
	return "", "", 0, fmt.Errorf("session could not be created")
}

func (failingExecutor) ExecuteCommand(context.Context, string) (string, string, int, error) {
	return "", "", 0, fmt.Errorf("session could not be created")
}

// Executor exceptions are captured per step, never raised.
func TestRun_ExecutorErrorRecorded(t *testing.T) {
	svc := orchestrator.New(
		orchestrator.WithGateway(gateway.New(gateway.WithWorkspace("/ws"))),
		orchestrator.WithExecutor(failingExecutor{}),
	)
	state := task.New("read files")
	state.Plan = []*task.Step{{ID: 1, Tool: "file_system_reader", Description: "read a.txt"}}

	svc.Run(context.Background(), state)

	result := state.Result(1)
	if assert.NotNil(t, result) {
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "session could not be created")
	}
	assert.Equal(t, task.PhaseExecution, state.Phase)
}
