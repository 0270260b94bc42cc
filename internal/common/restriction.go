package common

import "time"

// A restriction means that only the specified number of requests
// are allowed for a specific time duration
type Restriction struct {
	Requests int           `mapstructure:"requests"`
	Duration time.Duration `mapstructure:"duration"`
}

// Result of checking a restriction against the history of requests
type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// Analyse the recent history of requests and find out
// if a new request at the provided time should be allowed or not.
// History is expected in chronological order
func (rest *Restriction) Analyse(history []time.Time, now time.Time) Analysis {

	// A restriction without requests or duration does not restrict anything
	if rest.Requests <= 0 || rest.Duration <= 0 {
		return Analysis{true, 0}
	}

	// Compute the number of requests that have been served in my duration.
	// Start counting from the end.
	// If one request is too old, the rest will be too
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if now.Sub(history[i]) >= rest.Duration {
			break
		}
		count++
	}

	if count < rest.Requests {
		return Analysis{true, 0}
	}

	// The request that has to leave the window before a new one fits
	oldest := history[len(history)-rest.Requests]
	return Analysis{false, oldest.Add(rest.Duration).Sub(now)}
}
