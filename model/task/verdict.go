package task

// Verdict status values.
const (
	VerdictSuccess = "SUCCESS"
	VerdictFailed  = "FAILED"
)

// Verdict is the verification outcome for one step; the feedback map is fully
// recomputed on every verification pass.
type Verdict struct {
	Status          string `json:"status"`
	Reason          string `json:"reason,omitempty"`
	ExpectedOutcome string `json:"expectedOutcome,omitempty"`
}

// Failed returns true when the verdict marks the step as failed.
func (v *Verdict) Failed() bool {
	return v != nil && v.Status == VerdictFailed
}
