// Package fs provides a filesystem-backed lesson store kept in a single yaml
// document so it can be inspected and edited by hand.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/taskly/service/lesson"
	"gopkg.in/yaml.v3"

	"github.com/viant/taskly/model/task"
)

type document struct {
	Lessons []*lesson.Lesson     `yaml:"lessons,omitempty"`
	Plans   []*lesson.PlanRecord `yaml:"successfulPlans,omitempty"`
}

// Service implements lesson.Service over a single yaml file.
type Service struct {
	url        string
	fs         afs.Service
	mu         sync.Mutex
	maxLessons int
	maxPlans   int
}

var _ lesson.Service = (*Service)(nil)

// New creates a filesystem lesson store persisting to the supplied URL
// (a plain file path works too).
func New(URL string, options ...Option) (*Service, error) {
	if URL == "" {
		return nil, fmt.Errorf("lesson store URL cannot be empty")
	}
	ret := &Service{
		url:        URL,
		fs:         afs.New(),
		maxLessons: lesson.DefaultMaxLessons,
		maxPlans:   lesson.DefaultMaxPlans,
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

// AppendLesson adds a lesson to the log, evicting the oldest past the cap.
func (s *Service) AppendLesson(ctx context.Context, aLesson *lesson.Lesson) error {
	if aLesson == nil {
		return fmt.Errorf("lesson cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	doc.Lessons = append(doc.Lessons, aLesson)
	if len(doc.Lessons) > s.maxLessons {
		doc.Lessons = doc.Lessons[len(doc.Lessons)-s.maxLessons:]
	}
	return s.save(ctx, doc)
}

// Lessons returns the recorded lessons, oldest first.
func (s *Service) Lessons(ctx context.Context) ([]*lesson.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Lessons, nil
}

// RecordPlan stores a successful plan, replacing a previous record with the
// same intent and evicting the oldest past the cap.
func (s *Service) RecordPlan(ctx context.Context, intent string, plan []*task.Step) error {
	intent = strings.TrimSpace(intent)
	if intent == "" || len(plan) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	plans := doc.Plans[:0]
	for _, record := range doc.Plans {
		if strings.TrimSpace(record.Intent) != intent {
			plans = append(plans, record)
		}
	}
	plans = append(plans, &lesson.PlanRecord{Intent: intent, Plan: plan})
	if len(plans) > s.maxPlans {
		plans = plans[len(plans)-s.maxPlans:]
	}
	doc.Plans = plans
	return s.save(ctx, doc)
}

// FindSimilarPlan returns the most recent stored plan matching the intent.
func (s *Service) FindSimilarPlan(ctx context.Context, intent string) (*lesson.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return lesson.MatchPlan(intent, doc.Plans), nil
}

func (s *Service) load(ctx context.Context) (*document, error) {
	exists, err := s.fs.Exists(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson store %s: %w", s.url, err)
	}
	if !exists {
		return &document{}, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson store %s: %w", s.url, err)
	}
	doc := &document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode lesson store %s: %w", s.url, err)
	}
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode lesson store: %w", err)
	}
	if err := s.fs.Upload(ctx, s.url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write lesson store %s: %w", s.url, err)
	}
	return nil
}
