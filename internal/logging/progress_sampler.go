package logging

// ProgressSampler suppresses repetitive progress logs, emitting once every
// `every` items plus once for the final item.
type ProgressSampler struct {
	every int
	last  int
}

// NewProgressSampler constructs a sampler that emits every `every` items (default 100).
func NewProgressSampler(every int) *ProgressSampler {
	if every <= 0 {
		every = 100
	}
	return &ProgressSampler{every: every}
}

// ShouldLog reports whether progress at done of total should be logged.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil {
		return true
	}
	if done <= s.last {
		return false
	}
	if done%s.every == 0 || (total > 0 && done == total) {
		s.last = done
		return true
	}
	return false
}
