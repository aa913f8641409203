package gateway

import (
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/service/approval"
)

// Option customises the gateway.
type Option func(*Service)

// WithWorkspace sets the workspace root the gateway confines steps to.
func WithWorkspace(workspace string) Option {
	return func(s *Service) {
		s.workspace = workspace
	}
}

// WithRules overrides the default risk rule table.
func WithRules(rules *policy.Ruleset) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// WithApprovalService wires an approval service; the gateway publishes a
// request for every blocked step.
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) {
		s.approvals = svc
	}
}
