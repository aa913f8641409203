package task

// Approval captures the step blocked by the permission gateway together with
// the information a human needs to decide. Step is a snapshot taken at block
// time so later plan mutations cannot change what was presented.
type Approval struct {
	StepID int    `json:"stepId"`
	Risk   string `json:"risk,omitempty"`
	Reason string `json:"reason,omitempty"`
	Step   *Step  `json:"step,omitempty"`
	// RequestID correlates the blocked step with its approval request.
	RequestID string `json:"requestId,omitempty"`
}

// State is the single mutable aggregate tracking a task's plan, results,
// verdicts and phase. It is owned by the orchestrating caller, passed by
// reference through every component and mutated by a single logical thread
// of control; no internal locking is provided.
type State struct {
	Intent               string              `json:"intent,omitempty"`
	Plan                 []*Step             `json:"plan,omitempty"`
	ExecutionResults     map[string]*Result  `json:"executionResults,omitempty"`
	VerificationFeedback map[string]*Verdict `json:"verificationFeedback,omitempty"`
	RetryCount           int                 `json:"retryCount"`
	Phase                Phase               `json:"currentPhase,omitempty"`
	Error                string              `json:"error,omitempty"`

	// Blocked holds the pending approval presented to the user; it is set by
	// the gateway on disallow and cleared by Approve/Reject.
	Blocked *Approval `json:"blocked,omitempty"`

	// ApprovedStepID points at the single step the user approved; the next
	// orchestrator pass executes exactly that step, bypassing a second
	// gateway check, then clears the pointer.
	ApprovedStepID *int `json:"approvedStepId,omitempty"`

	// RetryFailedSteps is a one-shot flag armed by recovery; the next
	// orchestrator pass consumes it and re-executes failed steps.
	RetryFailedSteps bool `json:"retryFailedSteps,omitempty"`
}

// New creates a task state for the supplied intent.
func New(intent string) *State {
	return &State{
		Intent:               intent,
		ExecutionResults:     make(map[string]*Result),
		VerificationFeedback: make(map[string]*Verdict),
	}
}

func (s *State) init() {
	if s.ExecutionResults == nil {
		s.ExecutionResults = make(map[string]*Result)
	}
	if s.VerificationFeedback == nil {
		s.VerificationFeedback = make(map[string]*Verdict)
	}
}

// Result returns the recorded execution result for a step id, or nil.
func (s *State) Result(stepID int) *Result {
	if s.ExecutionResults == nil {
		return nil
	}
	return s.ExecutionResults[ResultKey(stepID)]
}

// SetResult records (or overwrites) the execution result for a step id.
func (s *State) SetResult(stepID int, result *Result) {
	s.init()
	s.ExecutionResults[ResultKey(stepID)] = result
}

// DropResult removes the recorded result for a step key so that the next
// orchestrator pass re-executes it.
func (s *State) DropResult(key string) {
	if s.ExecutionResults != nil {
		delete(s.ExecutionResults, key)
	}
}

// SetVerdict records the verification verdict for a step id.
func (s *State) SetVerdict(stepID int, verdict *Verdict) {
	s.init()
	s.VerificationFeedback[ResultKey(stepID)] = verdict
}

// LookupStep returns the plan step with the given id, or nil.
func (s *State) LookupStep(id int) *Step {
	for _, step := range s.Plan {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// MaxStepID returns the largest step id in the plan, zero when empty.
func (s *State) MaxStepID() int {
	max := 0
	for _, step := range s.Plan {
		if step.ID > max {
			max = step.ID
		}
	}
	return max
}

// Block transitions the state into awaiting_user_approval for the supplied
// pending approval; the gateway's disallow side effect.
func (s *State) Block(pending *Approval) {
	s.Phase = PhaseAwaitingApproval
	s.Error = pending.Reason
	s.Blocked = pending
}

// Approve resolves the pending approval: the error and the displayed
// pending-step fields are cleared, but the approved step pointer is retained
// so the orchestrator executes exactly that step next without a second
// gateway check.
func (s *State) Approve() {
	if s.Blocked == nil {
		return
	}
	stepID := s.Blocked.StepID
	s.ApprovedStepID = &stepID
	s.Blocked = nil
	s.Error = ""
	s.Phase = PhaseExecution
}

// Reject resolves the pending approval negatively; the task stays blocked on
// the supplied reason and the step will not be executed.
func (s *State) Reject(reason string) {
	s.Blocked = nil
	s.ApprovedStepID = nil
	if reason != "" {
		s.Error = reason
	}
	s.Phase = PhaseExecution
}

// TakeApprovedStep consumes the approved step pointer.
func (s *State) TakeApprovedStep() (int, bool) {
	if s.ApprovedStepID == nil {
		return 0, false
	}
	id := *s.ApprovedStepID
	s.ApprovedStepID = nil
	return id, true
}

// ArmRetry sets the one-shot flag allowing the next orchestrator pass to
// re-execute failed steps.
func (s *State) ArmRetry() {
	s.RetryFailedSteps = true
}

// TakeRetryFlag consumes the one-shot retry flag.
func (s *State) TakeRetryFlag() bool {
	ret := s.RetryFailedSteps
	s.RetryFailedSteps = false
	return ret
}
