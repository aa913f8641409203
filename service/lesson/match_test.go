package lesson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
)

func TestMatchPlan(t *testing.T) {
	records := []*lesson.PlanRecord{
		{
			Intent: "create a file named report.txt with a summary section",
			Plan:   []*task.Step{{ID: 1, Tool: "file_writer"}},
		},
		{
			Intent: "read the file named report.txt and print the summary section",
			Plan:   []*task.Step{{ID: 1, Tool: "file_reader"}},
		},
	}

	testCases := []struct {
		description string
		intent      string
		records     []*lesson.PlanRecord
		expectTool  string
	}{
		{
			description: "matching intent with shared action reuses plan",
			intent:      "read the file named report.txt and show the summary section",
			records:     records,
			expectTool:  "file_reader",
		},
		{
			description: "action mismatch is never reused",
			intent:      "delete the file named report.txt to free the summary section",
			records:     records,
			expectTool:  "",
		},
		{
			description: "substring relation matches without keyword overlap",
			intent:      "read the file named report.txt and print the summary section now please",
			records:     records[1:],
			expectTool:  "file_reader",
		},
		{
			description: "unrelated intent does not match",
			intent:      "train a model",
			records:     records,
			expectTool:  "",
		},
		{
			description: "empty intent does not match",
			intent:      "   ",
			records:     records,
			expectTool:  "",
		},
	}

	for _, testCase := range testCases {
		matched := lesson.MatchPlan(testCase.intent, testCase.records)
		if testCase.expectTool == "" {
			assert.Nil(t, matched, testCase.description)
			continue
		}
		if assert.NotNil(t, matched, testCase.description) {
			assert.Equal(t, testCase.expectTool, matched.Plan[0].Tool, testCase.description)
		}
	}
}

func TestMatchPlan_PrefersNewest(t *testing.T) {
	records := []*lesson.PlanRecord{
		{Intent: "list files in the working directory", Plan: []*task.Step{{ID: 1, Command: "ls"}}},
		{Intent: "list files in the working directory", Plan: []*task.Step{{ID: 1, Command: "ls -la"}}},
	}
	matched := lesson.MatchPlan("list files in the working directory", records)
	if assert.NotNil(t, matched) {
		assert.Equal(t, "ls -la", matched.Plan[0].Command)
	}
}
