package task

// Phase is the single source of truth for what the task is waiting on.
type Phase string

const (
	PhaseUnderstanding    Phase = "understanding"
	PhasePlanning         Phase = "planning"
	PhaseExecution        Phase = "execution"
	PhaseAwaitingApproval Phase = "awaiting_user_approval"
	PhaseVerification     Phase = "verification"
	PhaseRecovery         Phase = "recovery"
)
