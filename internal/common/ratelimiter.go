package common

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type RateLimiter struct {
	mu           sync.Mutex
	restrictions []Restriction    // Restrictions to consider
	history      []time.Time      // History of requests
	duration     time.Duration    // Min duration to wait for all restrictions to be lifted
	now          func() time.Time // Source of the current time
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{now: time.Now}
	// Only keep restrictions that actually restrict something
	for _, restriction := range restrictions {
		if restriction.Requests <= 0 || restriction.Duration <= 0 {
			log.Warn().Msgf("Ignoring invalid restriction of %d requests per %s", restriction.Requests, restriction.Duration)
			continue
		}
		rl.restrictions = append(rl.restrictions, restriction)
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	return rl
}

// Decide if a request is allowed right now. When it is, the request
// is recorded in the history. When it is not, the minimal time to wait
// before asking again is returned
func (rl *RateLimiter) Allowed() (bool, time.Duration) {

	if len(rl.restrictions) == 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.trim(now)
	analysis := rl.analyse(now)
	if !analysis.allowed {
		log.Debug().Msgf("Rejecting request, next one allowed in %s", analysis.wait)
		return false, analysis.wait
	}

	rl.history = append(rl.history, now)
	return true, 0
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(now time.Time) {
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if now.Sub(rl.history[i]) >= rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(now time.Time) Analysis {

	// Merge the analyses of all the restrictions
	var wait time.Duration = 0
	allowed := true
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, now)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}
