package sandbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

// Host identifies where the sandbox session runs; the default is the local
// machine. A remote host is addressed by URL with SSH credentials resolved
// through the secret service.
type Host struct {
	URL         string `json:"url,omitempty"`
	Credentials string `json:"credentials,omitempty"`
}

// Init applies the local default.
func (h *Host) Init() {
	if h.URL == "" {
		h.URL = "ssh://localhost/"
	}
}

// IsLocal reports whether the host addresses the local machine.
func (h *Host) IsLocal() bool {
	return url.Host(h.URL) == "localhost"
}

// ensureSession lazily creates the execution session if absent; idempotent.
// The session is pinned to the workspace directory and bounded by memory and
// CPU ulimits, so every subsequent call inherits the same confinement.
func (s *Service) ensureSession(ctx context.Context) (*gosh.Service, error) {
	if s.session != nil {
		return s.session, nil
	}
	var envOptions []runner.Option
	if len(s.env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(s.env))
	}

	var session *gosh.Service
	var err error
	if s.host.IsLocal() {
		session, err = gosh.New(ctx, local.New(envOptions...))
	} else {
		config, cErr := s.sshConfig(ctx)
		if cErr != nil {
			return nil, fmt.Errorf("failed to get SSH config: %w", cErr)
		}
		sshHost := url.Host(s.host.URL)
		if !strings.Contains(sshHost, ":") {
			sshHost += ":22"
		}
		session, err = gosh.New(ctx, rssh.New(sshHost, config, envOptions...))
	}
	if err != nil {
		return nil, err
	}

	if _, _, err = session.Run(ctx, fmt.Sprintf("mkdir -p %s && cd %s", s.workspace, s.workspace)); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to enter workspace %v: %w", s.workspace, err)
	}
	// Best effort: not every shell accepts every ulimit flag.
	_, _, _ = session.Run(ctx, fmt.Sprintf("ulimit -v %d -t %d", s.memoryMB*1024, s.cpuSeconds))

	s.session = session
	return session, nil
}

// sshConfig resolves the host credentials into an SSH client config.
func (s *Service) sshConfig(ctx context.Context) (*ssh.ClientConfig, error) {
	credentials := s.host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	secrets := secret.New()
	generic, err := secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}
