package taskly

import (
	"time"

	"github.com/viant/taskly/metrics"
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/service/approval"
	"github.com/viant/taskly/service/lesson"
	"github.com/viant/taskly/service/llm"
	"github.com/viant/taskly/service/orchestrator"
	"github.com/viant/taskly/service/recovery"
	"github.com/viant/taskly/service/sandbox"
	"github.com/viant/taskly/service/verifier"
	"github.com/viant/taskly/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the kernel service.
type Option func(s *Service)

// WithWorkspace sets the workspace root enforced by the gateway and used by
// the sandbox.
func WithWorkspace(workspace string) Option {
	return func(s *Service) { s.workspace = workspace }
}

// WithPolicyRules overrides the gateway risk rule table.
func WithPolicyRules(rules *policy.Ruleset) Option {
	return func(s *Service) { s.rules = rules }
}

// WithApprovalService sets the approval service.
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.approvals = svc }
}

// WithLessonStore sets the lesson store.
func WithLessonStore(svc lesson.Service) Option {
	return func(s *Service) { s.lessons = svc }
}

// WithGenerator sets the model generator backing the planner, resolver,
// judge and strategist unless those are supplied individually.
func WithGenerator(generator llm.Generator) Option {
	return func(s *Service) { s.generator = generator }
}

// WithPlanner overrides the planner.
func WithPlanner(planner Planner) Option {
	return func(s *Service) { s.planner = planner }
}

// WithResolver overrides the step resolver.
func WithResolver(resolver orchestrator.Resolver) Option {
	return func(s *Service) { s.resolver = resolver }
}

// WithJudge sets the verification judge.
func WithJudge(judge verifier.Judge) Option {
	return func(s *Service) { s.judge = judge }
}

// WithStrategist sets the recovery strategist.
func WithStrategist(strategist recovery.Strategist) Option {
	return func(s *Service) { s.strategist = strategist }
}

// WithExecutor overrides the sandbox executor, mostly used by tests.
func WithExecutor(executor sandbox.Executor) Option {
	return func(s *Service) { s.executor = executor }
}

// WithSandboxOptions passes options to the owned sandbox service; ignored
// when an executor is supplied.
func WithSandboxOptions(options ...sandbox.Option) Option {
	return func(s *Service) { s.sandboxOptions = append(s.sandboxOptions, options...) }
}

// WithMaxRetries bounds the recovery rounds per task.
func WithMaxRetries(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxRetries = max
		}
	}
}

// WithDeepVerification enables judge-backed assessment of failed steps.
func WithDeepVerification(enabled bool) Option {
	return func(s *Service) { s.deepVerification = enabled }
}

// WithApprovalWait bounds how long Run blocks on a pending approval.
func WithApprovalWait(wait time.Duration) Option {
	return func(s *Service) {
		if wait > 0 {
			s.approvalWait = wait
		}
	}
}

// WithMetrics sets the counter collector.
func WithMetrics(collector metrics.Collector) Option {
	return func(s *Service) { s.collector = collector }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. Safe to call multiple times, the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP, Jaeger or Zipkin. Safe to call multiple
// times, the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
