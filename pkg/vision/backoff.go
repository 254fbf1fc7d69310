package vision

import "time"

const (
	rateLimitBase = 15 * time.Second
	rateLimitStep = 5 * time.Second
	transientStep = 1 * time.Second
)

// Backoff returns the sleep before retrying after a failed attempt
// (0-based). It is a pure function of attempt and kind so retry schedules
// are testable; rate-limit failures wait much longer than generic ones.
func Backoff(attempt int, kind Kind) time.Duration {
	if kind == RateLimited {
		return rateLimitBase + time.Duration(attempt)*rateLimitStep
	}
	return time.Duration(attempt+1) * transientStep
}
