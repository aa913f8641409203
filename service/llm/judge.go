package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/taskly/service/verifier"
)

const judgeSystemPrompt = `You are the verification layer of a task execution kernel.

Given a step's expected outcome and an excerpt of its actual output, assess in
one sentence whether and why the outcome was not met. Be specific, mention the
observed error, and do not speculate beyond the excerpt.`

// Judge assesses failed steps with a model; it implements verifier.Judge.
type Judge struct {
	generator Generator
}

var _ verifier.Judge = (*Judge)(nil)

// NewJudge creates a judge over the supplied generator.
func NewJudge(generator Generator) *Judge {
	return &Judge{generator: generator}
}

// Assess implements verifier.Judge.
func (j *Judge) Assess(ctx context.Context, expectedOutcome, resultExcerpt string) (string, error) {
	prompt := fmt.Sprintf("Expected outcome: %s\n\nActual output excerpt:\n%s\n\nAssessment:",
		expectedOutcome, resultExcerpt)
	raw, err := j.generator.Generate(ctx, judgeSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
