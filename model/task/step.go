package task

import "fmt"

// Step is one atomic unit of a plan. Identity is the integer ID, unique
// within a plan and monotonically increasing across replan appends.
type Step struct {
	ID              int                    `json:"stepId" yaml:"stepId"`
	Description     string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Tool            string                 `json:"tool,omitempty" yaml:"tool,omitempty"`
	Parameters      map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ExpectedOutcome string                 `json:"expectedOutcome,omitempty" yaml:"expectedOutcome,omitempty"`

	// Code and Command are explicit runnable overrides; when set they win
	// over tool/description based resolution.
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// ResultKey returns the execution_results/verification_feedback key for id.
func ResultKey(id int) string {
	return fmt.Sprintf("step_%d", id)
}

// Key returns the step's result key.
func (s *Step) Key() string {
	return ResultKey(s.ID)
}

// Clone returns a shallow snapshot of the step with copied parameters so that
// the pending-approval snapshot cannot be mutated by later plan edits.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	ret := *s
	if len(s.Parameters) > 0 {
		ret.Parameters = make(map[string]interface{}, len(s.Parameters))
		for k, v := range s.Parameters {
			ret.Parameters[k] = v
		}
	}
	return &ret
}
