package sandbox

import "time"

// Option customises the sandbox executor.
type Option func(*Service)

// WithWorkspace sets the working directory every call executes in.
func WithWorkspace(workspace string) Option {
	return func(s *Service) {
		s.workspace = workspace
	}
}

// WithHost points the session at a remote host (SSH); the default is local.
func WithHost(host *Host) Option {
	return func(s *Service) {
		s.host = host
	}
}

// WithEnv sets environment variables applied to the session.
func WithEnv(env map[string]string) Option {
	return func(s *Service) {
		s.env = env
	}
}

// WithTimeout bounds the wall-clock time of a single call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMemoryLimitMB caps the session's virtual memory.
func WithMemoryLimitMB(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.memoryMB = limit
		}
	}
}

// WithCPUSeconds caps per-process CPU time inside the session.
func WithCPUSeconds(seconds int) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.cpuSeconds = seconds
		}
	}
}

// WithInterpreter overrides the interpreter used by ExecuteCode.
func WithInterpreter(interpreter string) Option {
	return func(s *Service) {
		if interpreter != "" {
			s.interpreter = interpreter
		}
	}
}
