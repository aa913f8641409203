// Package policy provides the declarative risk classification rules applied
// by the permission gateway. Rules form an ordered table evaluated first
// match wins, most dangerous first; an unrecognised tool or description falls
// through to a risky default so the gateway fails toward requiring approval,
// never toward a silent allow.
package policy

import (
	"fmt"
	"strings"

	"github.com/viant/taskly/model/task"
)

// RiskLevel classifies a step.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "SAFE"
	RiskRisky     RiskLevel = "RISKY"
	RiskDangerous RiskLevel = "DANGEROUS"
)

// Predicate reports whether a rule applies to a step. Matching is performed
// on the lower-cased description and tool.
type Predicate func(description, tool string) bool

// Rule is one entry of the ordered classification table.
type Rule struct {
	Name    string
	Level   RiskLevel
	Allowed bool
	Reason  string
	When    Predicate
}

// Verdict is the outcome of evaluating a step against a rule set.
type Verdict struct {
	Rule    string
	Level   RiskLevel
	Allowed bool
	Reason  string
}

// Ruleset is an ordered list of rules.
type Ruleset struct {
	rules []*Rule
}

// NewRuleset creates a rule set preserving the supplied order.
func NewRuleset(rules ...*Rule) *Ruleset {
	return &Ruleset{rules: rules}
}

// Prepend returns a new rule set with the supplied rules evaluated before the
// existing ones; used by the gateway to put the workspace path rule first.
func (r *Ruleset) Prepend(rules ...*Rule) *Ruleset {
	merged := make([]*Rule, 0, len(rules)+len(r.rules))
	merged = append(merged, rules...)
	merged = append(merged, r.rules...)
	return &Ruleset{rules: merged}
}

// Evaluate classifies a step; the first matching rule wins.
func (r *Ruleset) Evaluate(step *task.Step) *Verdict {
	description := strings.ToLower(step.Description)
	tool := strings.ToLower(strings.TrimSpace(step.Tool))
	for _, rule := range r.rules {
		if rule.When == nil || !rule.When(description, tool) {
			continue
		}
		reason := rule.Reason
		if reason == "" {
			reason = fmt.Sprintf("step matched %v rule: %v", rule.Level, rule.Name)
		}
		return &Verdict{Rule: rule.Name, Level: rule.Level, Allowed: rule.Allowed, Reason: reason}
	}
	// Unrecognised tool or operation requires approval.
	subject := tool
	if subject == "" {
		subject = description
	}
	return &Verdict{
		Rule:    "default",
		Level:   RiskRisky,
		Allowed: false,
		Reason:  fmt.Sprintf("unrecognized tool or operation, approval required: %v", subject),
	}
}

// MatchKeywords builds a predicate matching any keyword as a substring of the
// description or tool.
func MatchKeywords(keywords ...string) Predicate {
	return func(description, tool string) bool {
		for _, keyword := range keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(description, keyword) || strings.Contains(tool, keyword) {
				return true
			}
		}
		return false
	}
}

// MatchTools builds a predicate matching the tool name exactly.
func MatchTools(tools ...string) Predicate {
	return func(_, tool string) bool {
		for _, candidate := range tools {
			if tool == strings.ToLower(candidate) {
				return true
			}
		}
		return false
	}
}
