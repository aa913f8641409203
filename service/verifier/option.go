package verifier

// Option customises the verification engine.
type Option func(*Service)

// WithJudge sets the external assessor used for deep verification.
func WithJudge(judge Judge) Option {
	return func(s *Service) {
		s.judge = judge
	}
}

// WithDeepVerification enables judge-backed assessment of failed steps.
func WithDeepVerification(enabled bool) Option {
	return func(s *Service) {
		s.deep = enabled
	}
}

// WithExcerptLength bounds the result excerpt embedded in failure reasons.
func WithExcerptLength(length int) Option {
	return func(s *Service) {
		s.excerptLength = length
	}
}
