package taskly

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/taskly/policy"
	lessonfs "github.com/viant/taskly/service/lesson/fs"
	"github.com/viant/taskly/service/llm"
	"github.com/viant/taskly/service/sandbox"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the kernel configuration. The
// zero value is useful – all nested fields inherit their package defaults.
type Config struct {
	Workspace        string         `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	MaxRetries       int            `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	DeepVerification bool           `json:"deepVerification,omitempty" yaml:"deepVerification,omitempty"`
	ApprovalWaitMs   int            `json:"approvalWaitMs,omitempty" yaml:"approvalWaitMs,omitempty"`
	Sandbox          SandboxConfig  `json:"sandbox" yaml:"sandbox"`
	Policy           *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	Lessons          LessonConfig   `json:"lessons" yaml:"lessons"`
	Model            ModelConfig    `json:"model" yaml:"model"`
}

// SandboxConfig configures the owned sandbox service.
type SandboxConfig struct {
	HostURL       string `json:"hostURL,omitempty" yaml:"hostURL,omitempty"`
	Credentials   string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	TimeoutMs     int    `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	MemoryLimitMB int    `json:"memoryLimitMB,omitempty" yaml:"memoryLimitMB,omitempty"`
	CPUSeconds    int    `json:"cpuSeconds,omitempty" yaml:"cpuSeconds,omitempty"`
	Interpreter   string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
}

// LessonConfig configures lesson persistence; an empty URL keeps lessons in
// memory.
type LessonConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ModelConfig configures the OpenAI-compatible model backing the planner,
// resolver, judge and strategist; an empty Model disables them in favour of
// heuristics.
type ModelConfig struct {
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey  string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// DefaultConfig returns a Config mirroring the package defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		Sandbox: SandboxConfig{
			TimeoutMs:     int(sandbox.DefaultTimeout / time.Millisecond),
			MemoryLimitMB: sandbox.DefaultMemoryMB,
			CPUSeconds:    sandbox.DefaultCPUSeconds,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must be >= 0")
	}
	if c.Sandbox.TimeoutMs < 0 {
		return fmt.Errorf("sandbox.timeoutMs must be >= 0")
	}
	if c.Model.Model != "" && c.Model.APIKey == "" {
		return fmt.Errorf("model.apiKey is required when model.model is set")
	}
	return nil
}

// LoadConfig reads a yaml configuration from URL (a plain file path works
// too).
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	return config, nil
}

// NewFromConfig builds a service from a configuration; explicit options are
// applied after the configuration and win on conflict.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var configured []Option
	if config.Workspace != "" {
		configured = append(configured, WithWorkspace(config.Workspace))
	}
	if config.MaxRetries > 0 {
		configured = append(configured, WithMaxRetries(config.MaxRetries))
	}
	configured = append(configured, WithDeepVerification(config.DeepVerification))
	if config.ApprovalWaitMs > 0 {
		configured = append(configured, WithApprovalWait(time.Duration(config.ApprovalWaitMs)*time.Millisecond))
	}
	if config.Policy != nil {
		configured = append(configured, WithPolicyRules(config.Policy.Rules()))
	}
	if sandboxOptions := config.sandboxOptions(); len(sandboxOptions) > 0 {
		configured = append(configured, WithSandboxOptions(sandboxOptions...))
	}
	if config.Lessons.URL != "" {
		store, err := lessonfs.New(config.Lessons.URL)
		if err != nil {
			return nil, err
		}
		configured = append(configured, WithLessonStore(store))
	}
	if config.Model.Model != "" {
		client, err := llm.NewOpenAI(config.Model.APIKey, config.Model.Model, config.Model.BaseURL)
		if err != nil {
			return nil, err
		}
		configured = append(configured, WithGenerator(client))
	}
	return New(append(configured, options...)...), nil
}

func (c *Config) sandboxOptions() []sandbox.Option {
	var options []sandbox.Option
	if c.Sandbox.HostURL != "" {
		options = append(options, sandbox.WithHost(&sandbox.Host{
			URL:         c.Sandbox.HostURL,
			Credentials: c.Sandbox.Credentials,
		}))
	}
	if c.Sandbox.TimeoutMs > 0 {
		options = append(options, sandbox.WithTimeout(time.Duration(c.Sandbox.TimeoutMs)*time.Millisecond))
	}
	if c.Sandbox.MemoryLimitMB > 0 {
		options = append(options, sandbox.WithMemoryLimitMB(c.Sandbox.MemoryLimitMB))
	}
	if c.Sandbox.CPUSeconds > 0 {
		options = append(options, sandbox.WithCPUSeconds(c.Sandbox.CPUSeconds))
	}
	if c.Sandbox.Interpreter != "" {
		options = append(options, sandbox.WithInterpreter(c.Sandbox.Interpreter))
	}
	return options
}
