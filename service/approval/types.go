package approval

import (
	"time"

	"github.com/viant/taskly/model/task"
)

// Event envelope published on the service queue.
type Event struct {
	Topic   string            // see topic constants below
	Data    interface{}       // *Request | *Decision
	Headers map[string]string `json:"headers,omitempty"`
}

// Standard event topics.
const (
	TopicRequestCreated  = "request.created"
	TopicDecisionCreated = "decision.created"
)

// Request represents a blocked step awaiting a human decision.
type Request struct {
	ID        string     `json:"id"` // globally unique, primary key
	StepID    int        `json:"stepId"`
	Risk      string     `json:"risk,omitempty"`   // SAFE/RISKY/DANGEROUS
	Reason    string     `json:"reason,omitempty"` // gateway's block reason
	Step      *task.Step `json:"step,omitempty"`   // snapshot taken at block time
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Decision represents an approval decision.
type Decision struct {
	ID        string    `json:"id"` // same as request.ID
	Approved  bool      `json:"approved"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decidedAt"`
}
