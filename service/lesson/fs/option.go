package fs

import "github.com/viant/afs"

// Option customises the filesystem lesson store.
type Option func(*Service)

// WithFS overrides the afs service, used by tests with mem:// URLs.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithMaxLessons caps the lesson log.
func WithMaxLessons(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxLessons = max
		}
	}
}

// WithMaxPlans caps the successful plan cache.
func WithMaxPlans(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxPlans = max
		}
	}
}
