package policy

// Config is the serialisable part of a rule set; keyword and tool tables can
// be populated from YAML/JSON and compiled into ordered rules.
type Config struct {
	DangerousKeywords []string `json:"dangerousKeywords,omitempty" yaml:"dangerousKeywords,omitempty"`
	DangerousTools    []string `json:"dangerousTools,omitempty" yaml:"dangerousTools,omitempty"`
	RiskyKeywords     []string `json:"riskyKeywords,omitempty" yaml:"riskyKeywords,omitempty"`
	RiskyTools        []string `json:"riskyTools,omitempty" yaml:"riskyTools,omitempty"`
	SafeTools         []string `json:"safeTools,omitempty" yaml:"safeTools,omitempty"`
}

// DefaultConfig returns the built-in keyword and tool tables.
func DefaultConfig() *Config {
	return &Config{
		// deletion, system paths, raw execution
		DangerousKeywords: []string{"delete", "remove", "rm ", "unlink", "system", "/etc", "/usr", "binary", "exec", "subprocess", "shell"},
		DangerousTools:    []string{},
		// writes, installs, network
		RiskyKeywords: []string{"write", "create", "install", "pip", "network", "request", "curl", "wget"},
		// anything that writes files or runs arbitrary interpreted code
		RiskyTools: []string{"file_writer", "code_writer", "python_interpreter"},
		// read-only allow list
		SafeTools: []string{"file_system_reader", "file_reader", "log_frequency_analyzer", "list_dir"},
	}
}

// Rules compiles the config into the ordered classification table, most
// dangerous first.
func (c *Config) Rules() *Ruleset {
	var rules []*Rule
	if len(c.DangerousKeywords) > 0 {
		rules = append(rules, &Rule{
			Name:   "dangerous-keywords",
			Level:  RiskDangerous,
			Reason: "step involves a deletion, system-path or raw-execution operation",
			When:   MatchKeywords(c.DangerousKeywords...),
		})
	}
	if len(c.DangerousTools) > 0 {
		rules = append(rules, &Rule{
			Name:   "dangerous-tools",
			Level:  RiskDangerous,
			Reason: "tool is on the dangerous tool list",
			When:   MatchTools(c.DangerousTools...),
		})
	}
	if len(c.RiskyKeywords) > 0 {
		rules = append(rules, &Rule{
			Name:   "risky-keywords",
			Level:  RiskRisky,
			Reason: "step involves a write/install/network operation, approval required",
			When:   MatchKeywords(c.RiskyKeywords...),
		})
	}
	if len(c.RiskyTools) > 0 {
		rules = append(rules, &Rule{
			Name:   "risky-tools",
			Level:  RiskRisky,
			Reason: "tool requires user approval before execution",
			When:   MatchTools(c.RiskyTools...),
		})
	}
	if len(c.SafeTools) > 0 {
		rules = append(rules, &Rule{
			Name:    "safe-tools",
			Level:   RiskSafe,
			Allowed: true,
			Reason:  "read-only operation confined to the workspace",
			When:    MatchTools(c.SafeTools...),
		})
	}
	return NewRuleset(rules...)
}

// Default returns the built-in rule set.
func Default() *Ruleset {
	return DefaultConfig().Rules()
}
