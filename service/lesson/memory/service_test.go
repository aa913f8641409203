package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
	"github.com/viant/taskly/service/lesson/memory"
)

func TestService_Lessons(t *testing.T) {
	ctx := context.Background()
	service := memory.New()

	assert.Error(t, service.AppendLesson(ctx, nil))
	assert.NoError(t, service.AppendLesson(ctx, &lesson.Lesson{Intent: "first", Reason: "exit_code=1"}))
	assert.NoError(t, service.AppendLesson(ctx, &lesson.Lesson{Intent: "second", Reason: "exit_code=2"}))

	lessons, err := service.Lessons(ctx)
	assert.NoError(t, err)
	if assert.Len(t, lessons, 2) {
		assert.Equal(t, "first", lessons[0].Intent)
		assert.Equal(t, "second", lessons[1].Intent)
	}
}

func TestService_RecordPlan(t *testing.T) {
	ctx := context.Background()
	service := memory.New()
	intent := "read the file named report.txt and print the summary section"

	assert.NoError(t, service.RecordPlan(ctx, intent, []*task.Step{{ID: 1, Tool: "file_reader"}}))
	assert.NoError(t, service.RecordPlan(ctx, intent, []*task.Step{{ID: 1, Tool: "file_reader", Parameters: map[string]interface{}{"path": "report.txt"}}}))

	matched, err := service.FindSimilarPlan(ctx, intent)
	assert.NoError(t, err)
	if assert.NotNil(t, matched) {
		assert.NotNil(t, matched.Plan[0].Parameters)
	}

	// empty intent and empty plan are ignored
	assert.NoError(t, service.RecordPlan(ctx, "", []*task.Step{{ID: 1}}))
	assert.NoError(t, service.RecordPlan(ctx, "something", nil))
	none, err := service.FindSimilarPlan(ctx, "completely unrelated request")
	assert.NoError(t, err)
	assert.Nil(t, none)
}
