package render

import "time"

// RetryPolicy is the backoff schedule for container readiness checks. The
// first check runs immediately; each entry is the delay before one more.
type RetryPolicy struct {
	Schedule []time.Duration
}

// DefaultRetryPolicy checks immediately, then retries after 100, 200 and
// 300 ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Schedule: []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}}
}

// Retries returns the number of retries after the first attempt.
func (p RetryPolicy) Retries() int { return len(p.Schedule) }

// Retry is the state of one retry loop.
type Retry struct {
	policy  RetryPolicy
	attempt int
}

// NewRetry starts a retry loop.
func (p RetryPolicy) NewRetry() *Retry {
	return &Retry{policy: p}
}

// Next returns the delay before the next attempt, or false when the policy is
// exhausted.
func (r *Retry) Next() (time.Duration, bool) {
	if r.attempt >= len(r.policy.Schedule) {
		return 0, false
	}
	d := r.policy.Schedule[r.attempt]
	r.attempt++
	return d, true
}

// Attempts returns the number of retries consumed so far.
func (r *Retry) Attempts() int { return r.attempt }
