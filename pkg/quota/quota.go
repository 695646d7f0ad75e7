package quota

import "errors"

// Unlimited marks a counter with no cap (-1).
const Unlimited int64 = -1

// ErrQuotaExceeded is returned when a usage counter has reached its limit.
var ErrQuotaExceeded = errors.New("quota.exceeded")

// UsageInfo pairs a current usage counter with its limit.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Remaining returns how many units are left, or Unlimited when uncapped.
func (u UsageInfo) Remaining() int64 {
	if u.Limit == Unlimited {
		return Unlimited
	}
	if u.Current >= u.Limit {
		return 0
	}
	return u.Limit - u.Current
}

// Allow returns ErrQuotaExceeded when the counter has reached its limit.
// A zero-valued limit means nothing is allowed; Unlimited always passes.
func (u UsageInfo) Allow() error {
	if u.Limit == Unlimited {
		return nil
	}
	if u.Current >= u.Limit {
		return ErrQuotaExceeded
	}
	return nil
}
