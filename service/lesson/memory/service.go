// Package memory provides an in-process lesson store, used by tests and by
// runtimes that do not need lessons to survive a restart.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/taskly/model/task"
	"github.com/viant/taskly/service/lesson"
)

// Service implements lesson.Service with in-memory capped logs.
type Service struct {
	mu         sync.Mutex
	lessons    []*lesson.Lesson
	plans      []*lesson.PlanRecord
	maxLessons int
	maxPlans   int
}

var _ lesson.Service = (*Service)(nil)

// New creates an in-memory lesson store with the default caps.
func New() *Service {
	return &Service{
		maxLessons: lesson.DefaultMaxLessons,
		maxPlans:   lesson.DefaultMaxPlans,
	}
}

// AppendLesson adds a lesson to the log, evicting the oldest past the cap.
func (s *Service) AppendLesson(_ context.Context, aLesson *lesson.Lesson) error {
	if aLesson == nil {
		return fmt.Errorf("lesson cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessons = append(s.lessons, aLesson)
	if len(s.lessons) > s.maxLessons {
		s.lessons = s.lessons[len(s.lessons)-s.maxLessons:]
	}
	return nil
}

// Lessons returns the recorded lessons, oldest first.
func (s *Service) Lessons(_ context.Context) ([]*lesson.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*lesson.Lesson, len(s.lessons))
	copy(out, s.lessons)
	return out, nil
}

// RecordPlan stores a successful plan, replacing a previous record with the
// same intent.
func (s *Service) RecordPlan(_ context.Context, intent string, plan []*task.Step) error {
	intent = strings.TrimSpace(intent)
	if intent == "" || len(plan) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := s.plans[:0]
	for _, record := range s.plans {
		if strings.TrimSpace(record.Intent) != intent {
			plans = append(plans, record)
		}
	}
	plans = append(plans, &lesson.PlanRecord{Intent: intent, Plan: plan})
	if len(plans) > s.maxPlans {
		plans = plans[len(plans)-s.maxPlans:]
	}
	s.plans = plans
	return nil
}

// FindSimilarPlan returns the most recent stored plan matching the intent.
func (s *Service) FindSimilarPlan(_ context.Context, intent string) (*lesson.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lesson.MatchPlan(intent, s.plans), nil
}
