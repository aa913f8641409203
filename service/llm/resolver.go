package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/orchestrator"
)

const resolverSystemPrompt = `You are the step resolver of a task execution kernel.

Turn the supplied plan step into something a python3 sandbox can execute.

Output strictly a JSON object, no prose:
{"kind": "code or command", "payload": "..."}

"code" is a python3 snippet; "command" is a single shell command line. Prefer
the simplest payload that achieves the step's expected outcome.`

// Resolver resolves steps to runnable payloads with a model, falling back to
// the supplied resolver when generation or parsing fails. It implements
// orchestrator.Resolver.
type Resolver struct {
	generator Generator
	fallback  orchestrator.Resolver
}

var _ orchestrator.Resolver = (*Resolver)(nil)

// NewResolver creates a model-backed resolver; fallback is required and
// handles explicit code/command overrides and degraded operation.
func NewResolver(generator Generator, fallback orchestrator.Resolver) *Resolver {
	return &Resolver{generator: generator, fallback: fallback}
}

// Resolve implements orchestrator.Resolver.
func (r *Resolver) Resolve(ctx context.Context, step *task.Step, state *task.State) (*orchestrator.Runnable, error) {
	// explicit overrides never need a model round trip
	if step.Code != "" || step.Command != "" {
		return r.fallback.Resolve(ctx, step, state)
	}
	raw, err := r.generator.Generate(ctx, resolverSystemPrompt, r.userPrompt(step, state))
	if err != nil {
		return r.fallback.Resolve(ctx, step, state)
	}
	runnable := r.parse(raw)
	if runnable == nil {
		return r.fallback.Resolve(ctx, step, state)
	}
	return runnable, nil
}

func (r *Resolver) parse(raw string) *orchestrator.Runnable {
	document := extractJSON(raw)
	if document == "" {
		return nil
	}
	parsed := &struct {
		Kind    string `json:"kind"`
		Payload string `json:"payload"`
	}{}
	if err := json.Unmarshal([]byte(document), parsed); err != nil || parsed.Payload == "" {
		return nil
	}
	switch orchestrator.Kind(strings.ToLower(strings.TrimSpace(parsed.Kind))) {
	case orchestrator.KindCode:
		return &orchestrator.Runnable{Kind: orchestrator.KindCode, Payload: parsed.Payload}
	case orchestrator.KindCommand:
		return &orchestrator.Runnable{Kind: orchestrator.KindCommand, Payload: parsed.Payload}
	}
	return nil
}

func (r *Resolver) userPrompt(step *task.Step, state *task.State) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Step %d: %s\n", step.ID, step.Description)
	if step.Tool != "" {
		fmt.Fprintf(sb, "Tool: %s\n", step.Tool)
	}
	if len(step.Parameters) > 0 {
		if data, err := json.Marshal(step.Parameters); err == nil {
			fmt.Fprintf(sb, "Parameters: %s\n", data)
		}
	}
	if step.ExpectedOutcome != "" {
		fmt.Fprintf(sb, "Expected outcome: %s\n", step.ExpectedOutcome)
	}
	if state != nil && state.Intent != "" {
		fmt.Fprintf(sb, "Overall intent: %s\n", state.Intent)
	}
	sb.WriteString("Output the runnable JSON.")
	return sb.String()
}
