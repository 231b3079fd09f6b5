package pipeline

import (
	"fmt"
	"time"

	"assetgen/internal/manifest"
)

// JobResult records the outcome of one job.
type JobResult struct {
	Kind     manifest.Kind
	Name     string
	Label    string
	Output   string
	Bytes    int
	Changed  bool
	Duration time.Duration
	Err      error
}

// OK reports whether the job succeeded.
func (r JobResult) OK() bool {
	return r.Err == nil
}

// Summary aggregates a batch.
type Summary struct {
	RunID    string
	Results  []JobResult
	Duration time.Duration
}

// Failed returns the number of failed jobs.
func (s *Summary) Failed() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Results {
		if !r.OK() {
			n++
		}
	}
	return n
}

// Succeeded returns the number of successful jobs.
func (s *Summary) Succeeded() int {
	if s == nil {
		return 0
	}
	return len(s.Results) - s.Failed()
}

// Err returns a non-nil error when any job failed.
func (s *Summary) Err() error {
	if failed := s.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(s.Results))
	}
	return nil
}
