package orchestrator

import (
	"github.com/viant/taskly/service/gateway"
	"github.com/viant/taskly/service/sandbox"
)

// Option customises the orchestrator.
type Option func(*Service)

// WithGateway sets the permission gateway consulted before every step.
func WithGateway(svc *gateway.Service) Option {
	return func(s *Service) {
		s.gateway = svc
	}
}

// WithExecutor sets the sandbox executor steps are dispatched to.
func WithExecutor(executor sandbox.Executor) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithResolver overrides the default heuristic step resolver.
func WithResolver(resolver Resolver) Option {
	return func(s *Service) {
		s.resolver = resolver
	}
}
