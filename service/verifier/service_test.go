package verifier_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/verifier"
)

type stubJudge struct {
	verdict string
	err     error
	calls   int
}

func (j *stubJudge) Assess(_ context.Context, _, _ string) (string, error) {
	j.calls++
	return j.verdict, j.err
}

func TestService_Verify(t *testing.T) {
	testCases := []struct {
		description string
		state       *task.State
		options     []verifier.Option
		expect      map[int]string
		hasFailures bool
	}{
		{
			description: "all steps succeeded",
			state: stateWith(
				[]*task.Step{{ID: 1, Description: "list files"}, {ID: 2, Description: "read file"}},
				map[int]*task.Result{
					1: task.NewResult("ok", "", 0),
					2: task.NewResult("content", "", 0),
				}),
			expect:      map[int]string{1: task.VerdictSuccess, 2: task.VerdictSuccess},
			hasFailures: false,
		},
		{
			description: "failed step yields failed verdict with exit code",
			state: stateWith(
				[]*task.Step{{ID: 1, Description: "read file"}},
				map[int]*task.Result{
					1: task.NewResult("", "No such file or directory", 1),
				}),
			expect:      map[int]string{1: task.VerdictFailed},
			hasFailures: true,
		},
		{
			description: "missing result counts as failure",
			state: stateWith(
				[]*task.Step{{ID: 1, Description: "blocked step"}},
				nil),
			expect:      map[int]string{1: task.VerdictFailed},
			hasFailures: true,
		},
	}

	for _, testCase := range testCases {
		service := verifier.New(testCase.options...)
		state := service.Verify(context.Background(), testCase.state)
		assert.Equal(t, task.PhaseVerification, state.Phase, testCase.description)
		for id, status := range testCase.expect {
			verdict := state.VerificationFeedback[task.ResultKey(id)]
			if !assert.NotNil(t, verdict, testCase.description) {
				continue
			}
			assert.Equal(t, status, verdict.Status, testCase.description)
		}
		assert.Equal(t, testCase.hasFailures, service.HasFailures(state), testCase.description)
	}
}

func TestService_Verify_FailureReason(t *testing.T) {
	state := stateWith(
		[]*task.Step{{ID: 1, Description: "read file"}},
		map[int]*task.Result{1: task.NewResult("", "No such file or directory: data.txt", 1)})
	service := verifier.New()
	service.Verify(context.Background(), state)
	verdict := state.VerificationFeedback[task.ResultKey(1)]
	assert.True(t, strings.Contains(verdict.Reason, "exit_code=1"))
	assert.True(t, strings.Contains(verdict.Reason, "No such file"))
}

func TestService_Verify_MissingResultReason(t *testing.T) {
	state := stateWith([]*task.Step{{ID: 3, Description: "never ran"}}, nil)
	verifier.New().Verify(context.Background(), state)
	verdict := state.VerificationFeedback[task.ResultKey(3)]
	assert.Equal(t, "no result produced (blocked or not run)", verdict.Reason)
}

func TestService_Verify_DeepJudge(t *testing.T) {
	state := stateWith(
		[]*task.Step{{ID: 1, Description: "read file", ExpectedOutcome: "file content printed"}},
		map[int]*task.Result{1: task.NewResult("", "boom", 2)})

	judge := &stubJudge{verdict: "output does not match the expected file content"}
	service := verifier.New(verifier.WithJudge(judge), verifier.WithDeepVerification(true))
	service.Verify(context.Background(), state)

	assert.Equal(t, 1, judge.calls)
	verdict := state.VerificationFeedback[task.ResultKey(1)]
	assert.Equal(t, judge.verdict, verdict.Reason)
}

func TestService_Verify_DeepJudgeNotConsultedOnSuccess(t *testing.T) {
	state := stateWith(
		[]*task.Step{{ID: 1, Description: "list files"}},
		map[int]*task.Result{1: task.NewResult("ok", "", 0)})

	judge := &stubJudge{verdict: "should not be used"}
	service := verifier.New(verifier.WithJudge(judge), verifier.WithDeepVerification(true))
	service.Verify(context.Background(), state)
	assert.Equal(t, 0, judge.calls)
}

func TestService_Verify_JudgeErrorFallsBack(t *testing.T) {
	state := stateWith(
		[]*task.Step{{ID: 1, Description: "read file"}},
		map[int]*task.Result{1: task.NewResult("", "boom", 2)})

	judge := &stubJudge{err: errors.New("model unavailable")}
	service := verifier.New(verifier.WithJudge(judge), verifier.WithDeepVerification(true))
	service.Verify(context.Background(), state)
	verdict := state.VerificationFeedback[task.ResultKey(1)]
	assert.True(t, strings.Contains(verdict.Reason, "exit_code=2"))
}

func TestService_Verify_RecomputesStaleVerdicts(t *testing.T) {
	state := stateWith(
		[]*task.Step{{ID: 1, Description: "read file"}},
		map[int]*task.Result{1: task.NewResult("recovered", "", 0)})
	state.SetVerdict(1, &task.Verdict{Status: task.VerdictFailed, Reason: "previous pass"})

	verifier.New().Verify(context.Background(), state)
	assert.Equal(t, task.VerdictSuccess, state.VerificationFeedback[task.ResultKey(1)].Status)
}

func stateWith(plan []*task.Step, results map[int]*task.Result) *task.State {
	state := task.New("test intent")
	state.Plan = plan
	for id, result := range results {
		state.SetResult(id, result)
	}
	return state
}
