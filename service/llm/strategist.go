package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/taskly/service/recovery"
)

const strategistSystemPrompt = `You are the recovery layer of a task execution kernel.

Some steps of the current plan failed execution or verification. Choose a
repair strategy:
- RETRY: re-run the failed steps unchanged (transient failures).
- REPLAN: append corrective steps (logic errors, missing files, compensation).
- ABORT: the task cannot be repaired.

Output strictly a JSON object, no prose:
{
  "strategy": "RETRY or REPLAN or ABORT",
  "reason": "one sentence explaining the choice",
  "newSteps": []
}

Only for REPLAN is "newSteps" non-empty; each element has "stepId",
"description", "tool" and "expectedOutcome", numbered after the current
plan's largest stepId.`

// Strategist picks recovery strategies by asking a model; it implements
// recovery.Strategist.
type Strategist struct {
	generator Generator
}

var _ recovery.Strategist = (*Strategist)(nil)

// NewStrategist creates a strategist over the supplied generator.
func NewStrategist(generator Generator) *Strategist {
	return &Strategist{generator: generator}
}

// Decide implements recovery.Strategist. A transport error is returned to the
// caller; an unparseable response is coerced to a conservative abort.
func (s *Strategist) Decide(ctx context.Context, recoveryContext *recovery.Context) (*recovery.Decision, error) {
	raw, err := s.generator.Generate(ctx, strategistSystemPrompt, s.userPrompt(recoveryContext))
	if err != nil {
		return nil, err
	}
	document := extractJSON(raw)
	if document == "" {
		return abortDecision(), nil
	}
	decision := &recovery.Decision{}
	if err := json.Unmarshal([]byte(document), decision); err != nil {
		return abortDecision(), nil
	}
	if decision.Strategy == "" {
		return abortDecision(), nil
	}
	return decision, nil
}

func abortDecision() *recovery.Decision {
	return &recovery.Decision{
		Strategy: recovery.StrategyAbort,
		Reason:   "strategy response could not be parsed, giving up conservatively",
	}
}

func (s *Strategist) userPrompt(recoveryContext *recovery.Context) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "User intent: %s\n\n", recoveryContext.Intent)
	if data, err := json.Marshal(recoveryContext.Plan); err == nil {
		fmt.Fprintf(sb, "Current plan: %s\n\n", data)
	}
	if data, err := json.Marshal(recoveryContext.Results); err == nil {
		fmt.Fprintf(sb, "Execution results: %s\n\n", data)
	}
	if data, err := json.Marshal(recoveryContext.Feedback); err == nil {
		fmt.Fprintf(sb, "Verification feedback: %s\n\n", data)
	}
	if recoveryContext.Error != "" {
		fmt.Fprintf(sb, "Error: %s\n\n", recoveryContext.Error)
	}
	fmt.Fprintf(sb, "Recovery round %d of %d. Output the repair strategy JSON.",
		recoveryContext.RetryCount+1, recoveryContext.MaxRetries)
	return sb.String()
}
