// Package lesson defines the persistent memory contract: recovery lessons
// recorded after a replan and successful plans kept for intent-based reuse.
package lesson

import (
	"context"
	"time"

	"github.com/viant/taskly/model/task"
)

const (
	// DefaultMaxLessons caps the lesson log; older entries are evicted.
	DefaultMaxLessons = 100
	// DefaultMaxPlans caps the successful plan cache.
	DefaultMaxPlans = 50
)

// Lesson records what recovery learned from a failed plan: why it failed and
// the replacement steps the strategist produced.
type Lesson struct {
	Intent    string       `yaml:"intent" json:"intent"`
	Reason    string       `yaml:"reason,omitempty" json:"reason,omitempty"`
	NewSteps  []*task.Step `yaml:"newSteps,omitempty" json:"newSteps,omitempty"`
	CreatedAt time.Time    `yaml:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PlanRecord pairs an intent with the plan that completed it successfully.
type PlanRecord struct {
	Intent string       `yaml:"intent" json:"intent"`
	Plan   []*task.Step `yaml:"plan" json:"plan"`
}

// Service persists lessons and successful plans across tasks.
type Service interface {
	// AppendLesson adds a lesson, evicting the oldest past the cap.
	AppendLesson(ctx context.Context, lesson *Lesson) error

	// Lessons returns the recorded lessons, oldest first.
	Lessons(ctx context.Context) ([]*Lesson, error)

	// RecordPlan stores a successful plan for the intent, replacing any
	// previous record with the same intent.
	RecordPlan(ctx context.Context, intent string, plan []*task.Step) error

	// FindSimilarPlan returns the most recent plan whose intent matches the
	// supplied one closely enough to reuse, or nil.
	FindSimilarPlan(ctx context.Context, intent string) (*PlanRecord, error)
}
