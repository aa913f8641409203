package fs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
)

func TestService_AppendLesson(t *testing.T) {
	ctx := context.Background()
	URL := filepath.Join(t.TempDir(), "memory.yaml")
	service, err := New(URL, WithMaxLessons(2))
	assert.NoError(t, err)

	for _, intent := range []string{"first", "second", "third"} {
		err = service.AppendLesson(ctx, &lesson.Lesson{
			Intent:    intent,
			Reason:    "exit_code=1",
			CreatedAt: time.Now().UTC(),
		})
		assert.NoError(t, err)
	}

	lessons, err := service.Lessons(ctx)
	assert.NoError(t, err)
	if assert.Len(t, lessons, 2) {
		assert.Equal(t, "second", lessons[0].Intent)
		assert.Equal(t, "third", lessons[1].Intent)
	}
}

func TestService_PlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	URL := filepath.Join(t.TempDir(), "memory.yaml")
	service, err := New(URL)
	assert.NoError(t, err)

	intent := "read the file named report.txt and print the summary section"
	plan := []*task.Step{{ID: 1, Tool: "file_reader", Parameters: map[string]interface{}{"path": "report.txt"}}}
	assert.NoError(t, service.RecordPlan(ctx, intent, plan))

	// a fresh instance reads the same file
	reopened, err := New(URL)
	assert.NoError(t, err)
	matched, err := reopened.FindSimilarPlan(ctx, "read the file named report.txt and show the summary section")
	assert.NoError(t, err)
	if assert.NotNil(t, matched) {
		assert.Equal(t, intent, matched.Intent)
		assert.Equal(t, "file_reader", matched.Plan[0].Tool)
	}
}

func TestService_MissingFile(t *testing.T) {
	ctx := context.Background()
	service, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)

	lessons, err := service.Lessons(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lessons)

	matched, err := service.FindSimilarPlan(ctx, "anything at all")
	assert.NoError(t, err)
	assert.Nil(t, matched)
}
