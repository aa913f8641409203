package approval

import (
	"context"

	"github.com/viant/taskly/service/messaging"
)

// Service defines the approval service interface. The permission gateway
// publishes a Request whenever it blocks a step; a driver lists pending
// requests, decides them and resumes the orchestrator.
type Service interface {
	RequestApproval(ctx context.Context, r *Request) error
	ListPending(ctx context.Context) ([]*Request, error)
	Decide(ctx context.Context, id string, approved bool, reason string) (*Decision, error)
	Queue() messaging.Queue[Event]
}
