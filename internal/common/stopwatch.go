package common

import (
	"time"
)

// This stopwatch keeps track of the time elapsed since it was started
type Stopwatch struct {
	startTime time.Time
}

// Create a stopwatch that is already counting
func StartStopwatch() Stopwatch {
	var s Stopwatch
	s.Start()
	return s
}

func (s *Stopwatch) Start() {
	s.startTime = time.Now()
}

// Time elapsed since the stopwatch was started.
// A stopwatch that never started reports zero
func (s *Stopwatch) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

func (s *Stopwatch) StartTime() time.Time {
	return s.startTime
}
