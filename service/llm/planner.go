package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
)

const plannerSystemPrompt = `You are the planning layer of a task execution kernel.

Decompose the user's intent into an executable sequence of steps. Each step
must be a single atomic action so it can be permission-checked and verified
independently.

Output strictly a JSON array, no prose. Each element has:
  - "stepId": integer, numbered from 1
  - "description": what the step does
  - "tool": the tool to use, e.g. "file_system_reader", "file_writer", "python_interpreter", "list_dir", "shell"
  - "expectedOutcome": the state or output expected after the step, used for verification

Example:
[
  {"stepId": 1, "description": "list files in the logs directory", "tool": "list_dir", "expectedOutcome": "a listing of .log files"},
  {"stepId": 2, "description": "read app.log", "tool": "file_reader", "expectedOutcome": "the file content"}
]`

// Planner turns an intent into a plan of atomic steps.
type Planner struct {
	generator Generator
}

// NewPlanner creates a planner over the supplied generator.
func NewPlanner(generator Generator) *Planner {
	return &Planner{generator: generator}
}

// Plan populates state.Plan from the intent. Previously recorded lessons are
// included in the prompt so past failures steer the new plan. Generation or
// parse failures degrade to a single-step plan rather than failing the task.
func (p *Planner) Plan(ctx context.Context, state *task.State, lessons []*lesson.Lesson) error {
	state.Phase = task.PhasePlanning
	intent := strings.TrimSpace(state.Intent)
	if intent == "" {
		state.Plan = nil
		return nil
	}
	raw, err := p.generator.Generate(ctx, plannerSystemPrompt, p.userPrompt(intent, lessons))
	if err == nil {
		if steps := parseSteps(raw); len(steps) > 0 {
			state.Plan = steps
			return nil
		}
	}
	state.Plan = fallbackPlan(intent)
	return nil
}

func (p *Planner) userPrompt(intent string, lessons []*lesson.Lesson) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "User intent: %s\n", intent)
	if len(lessons) > 0 {
		sb.WriteString("\nLessons from previous failures (avoid repeating them):\n")
		for _, aLesson := range lessons {
			fmt.Fprintf(sb, "- intent: %s; failure: %s\n", aLesson.Intent, aLesson.Reason)
		}
	}
	sb.WriteString("\nProduce the plan as a JSON array of atomic steps.")
	return sb.String()
}

func parseSteps(raw string) []*task.Step {
	document := extractJSON(raw)
	if document == "" {
		return nil
	}
	var steps []*task.Step
	if err := json.Unmarshal([]byte(document), &steps); err != nil {
		return nil
	}
	var valid []*task.Step
	nextID := 1
	for _, step := range steps {
		if step == nil || step.Description == "" {
			continue
		}
		if step.ID == 0 {
			step.ID = nextID
		}
		nextID = step.ID + 1
		valid = append(valid, step)
	}
	return valid
}

// fallbackPlan keeps the kernel operable when the model output is unusable.
func fallbackPlan(intent string) []*task.Step {
	return []*task.Step{
		{
			ID:              1,
			Description:     intent,
			ExpectedOutcome: "task completed",
		},
	}
}
