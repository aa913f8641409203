package recovery

import "github.com/viant/taskly/service/lesson"

// Option customises the recovery engine.
type Option func(*Service)

// WithMaxRetries sets the recovery round ceiling.
func WithMaxRetries(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxRetries = max
		}
	}
}

// WithLessonStore persists replan lessons to the supplied store.
func WithLessonStore(lessons lesson.Service) Option {
	return func(s *Service) {
		s.lessons = lessons
	}
}
