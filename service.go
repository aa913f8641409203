package taskly

import (
	"context"
	"time"

	"github.com/viant/taskly/metrics"
	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/policy"
	"github.com/viant/taskly/service/approval"
	amemory "github.com/viant/taskly/service/approval/memory"
	"github.com/viant/taskly/service/gateway"
	"github.com/viant/taskly/service/lesson"
	lmemory "github.com/viant/taskly/service/lesson/memory"
	"github.com/viant/taskly/service/llm"
	"github.com/viant/taskly/service/orchestrator"
	"github.com/viant/taskly/service/recovery"
	"github.com/viant/taskly/service/sandbox"
	"github.com/viant/taskly/service/verifier"
)

// Planner turns an intent into a plan on the state; llm.Planner is the
// default implementation, tests may supply their own.
type Planner interface {
	Plan(ctx context.Context, state *task.State, lessons []*lesson.Lesson) error
}

// Service is the kernel façade: it wires the permission gateway, the sandbox,
// the orchestrator, verification and recovery into a Runtime.
type Service struct {
	runtime *Runtime

	workspace        string
	rules            *policy.Ruleset
	approvals        approval.Service
	lessons          lesson.Service
	collector        metrics.Collector
	generator        llm.Generator
	planner          Planner
	resolver         orchestrator.Resolver
	judge            verifier.Judge
	strategist       recovery.Strategist
	executor         sandbox.Executor
	sandbox          *sandbox.Service
	sandboxOptions   []sandbox.Option
	maxRetries       int
	deepVerification bool
	approvalWait     time.Duration
}

// New creates the kernel service; the zero configuration runs fully local
// with in-memory approvals and lessons and heuristic step resolution.
func New(options ...Option) *Service {
	ret := &Service{
		maxRetries:   recovery.DefaultMaxRetries,
		approvalWait: DefaultApprovalWait,
	}
	ret.init(options)
	return ret
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	gatewayService := gateway.New(
		gateway.WithWorkspace(s.workspace),
		gateway.WithRules(s.rules),
		gateway.WithApprovalService(s.approvals))

	orchestratorService := orchestrator.New(
		orchestrator.WithGateway(gatewayService),
		orchestrator.WithExecutor(s.executor),
		orchestrator.WithResolver(s.resolver))

	var verifierOptions []verifier.Option
	if s.judge != nil {
		verifierOptions = append(verifierOptions, verifier.WithJudge(s.judge))
	}
	verifierOptions = append(verifierOptions, verifier.WithDeepVerification(s.deepVerification))

	s.runtime = &Runtime{
		planner:      s.planner,
		gateway:      gatewayService,
		orchestrator: orchestratorService,
		verifier:     verifier.New(verifierOptions...),
		recovery: recovery.New(s.strategist,
			recovery.WithMaxRetries(s.maxRetries),
			recovery.WithLessonStore(s.lessons)),
		approvals:    s.approvals,
		lessons:      s.lessons,
		collector:    s.collector,
		approvalWait: s.approvalWait,
	}
}

func (s *Service) ensureBaseSetup() {
	if s.workspace == "" {
		s.workspace = gateway.DefaultWorkspace
	}
	if s.rules == nil {
		s.rules = policy.Default()
	}
	if s.approvals == nil {
		s.approvals = amemory.New()
	}
	if s.lessons == nil {
		s.lessons = lmemory.New()
	}
	if s.collector == nil {
		s.collector = metrics.NewCounters()
	}
	if s.executor == nil {
		sandboxOptions := append([]sandbox.Option{sandbox.WithWorkspace(s.workspace)}, s.sandboxOptions...)
		s.sandbox = sandbox.New(sandboxOptions...)
		s.executor = s.sandbox
	}
	if s.resolver == nil {
		heuristic := orchestrator.NewHeuristicResolver()
		if s.generator != nil {
			s.resolver = llm.NewResolver(s.generator, heuristic)
		} else {
			s.resolver = heuristic
		}
	}
	if s.generator != nil {
		if s.planner == nil {
			s.planner = llm.NewPlanner(s.generator)
		}
		if s.judge == nil {
			s.judge = llm.NewJudge(s.generator)
		}
		if s.strategist == nil {
			s.strategist = llm.NewStrategist(s.generator)
		}
	}
}

// Runtime returns the task runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Approvals exposes the approval service so drivers can list and decide
// pending requests.
func (s *Service) Approvals() approval.Service {
	return s.approvals
}

// Lessons exposes the lesson store.
func (s *Service) Lessons() lesson.Service {
	return s.lessons
}

// Metrics returns the counter collector the runtime reports into.
func (s *Service) Metrics() metrics.Collector {
	return s.collector
}

// Close releases the sandbox session when the service owns one.
func (s *Service) Close() error {
	if s.sandbox != nil {
		return s.sandbox.Close()
	}
	return nil
}
