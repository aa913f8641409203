package sandbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/taskly/metrics"
)

// Defaults mirror the resident sandbox profile: 512m memory, bounded CPU
// time, 30 second wall-clock timeout per call.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMemoryMB   = 512
	DefaultCPUSeconds = 30
	DefaultCodeRunner = "python3"
)

// Executor is the sandbox contract consumed by the orchestrator. Both calls
// run inside the context's working directory under resource and time limits;
// the returned error is reserved for executor failures (the session could not
// be created or used), never for non-zero exit codes.
type Executor interface {
	ExecuteCode(ctx context.Context, code string) (stdout, stderr string, exitCode int, err error)
	ExecuteCommand(ctx context.Context, command string) (stdout, stderr string, exitCode int, err error)
}

// Service owns one long-lived isolated execution session surviving across
// many calls; startup cost is paid once. A single session exists per Service
// instance and concurrent callers are serialized on an internal mutex.
type Service struct {
	workspace   string
	host        *Host
	env         map[string]string
	timeout     time.Duration
	memoryMB    int
	cpuSeconds  int
	interpreter string

	mux     sync.Mutex
	session *gosh.Service
}

// New creates a sandbox executor.
func New(options ...Option) *Service {
	ret := &Service{
		timeout:     DefaultTimeout,
		memoryMB:    DefaultMemoryMB,
		cpuSeconds:  DefaultCPUSeconds,
		interpreter: DefaultCodeRunner,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.workspace == "" {
		ret.workspace = "./sandbox_workspace"
	}
	if ret.host == nil {
		ret.host = &Host{}
	}
	ret.host.Init()
	return ret
}

// ExecuteCode runs a source snippet through the configured interpreter inside
// the session working directory.
func (s *Service) ExecuteCode(ctx context.Context, code string) (string, string, int, error) {
	command := fmt.Sprintf("%s -c %s", s.interpreter, shellQuote(code))
	return s.execute(ctx, command)
}

// ExecuteCommand runs a shell command line inside the session working
// directory.
func (s *Service) ExecuteCommand(ctx context.Context, command string) (string, string, int, error) {
	return s.execute(ctx, command)
}

func (s *Service) execute(ctx context.Context, command string) (string, string, int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	session, err := s.ensureSession(ctx)
	if err != nil {
		return "", "", -1, fmt.Errorf("failed to get session: %w", err)
	}

	metrics.FromContext(ctx).Add(metrics.CounterSandboxRuns, 1)

	started := time.Now()
	stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(s.timeout.Milliseconds())))
	elapsed := time.Since(started)
	if elapsed >= s.timeout {
		// The call returned because we stopped waiting; the underlying work
		// may still be running inside the session and keep consuming its
		// resource allowance.
		return "", fmt.Sprintf("execution timed out after %s", s.timeout), -1, nil
	}
	if err != nil && status == 0 {
		status = -1
	}
	if status == 0 {
		return stdout, "", 0, nil
	}
	if stdout == "" && err != nil {
		stdout = err.Error()
	}
	return "", stdout, status, nil
}

// Close stops and discards the session. It is idempotent and swallows
// underlying failures since it runs at shutdown.
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.session == nil {
		return nil
	}
	_ = s.session.Close()
	s.session = nil
	return nil
}

// shellQuote wraps text in single quotes, escaping embedded single quotes, so
// interpreter payloads survive the session shell.
func shellQuote(text string) string {
	return "'" + strings.ReplaceAll(text, "'", `'"'"'`) + "'"
}
