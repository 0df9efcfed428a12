// rate_limit.go
// -------------
// Rate-limit metadata parsed from response headers. The executor uses the
// reset time to size the wait after a 429; callers can inspect the info on a
// returned Envelope for cost awareness.
package searchtweets

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo is the service's view of the caller's remaining quota, taken
// from the x-rate-limit-* response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// parseRateLimitInfo extracts rate-limit headers from a response, returning
// nil when none are present.
func parseRateLimitInfo(h http.Header) *RateLimitInfo {
	limitStr := h.Get("x-rate-limit-limit")
	remainingStr := h.Get("x-rate-limit-remaining")
	resetStr := h.Get("x-rate-limit-reset")
	if limitStr == "" && remainingStr == "" && resetStr == "" {
		return nil
	}

	info := &RateLimitInfo{}
	if v, err := strconv.Atoi(limitStr); err == nil {
		info.Limit = v
	}
	if v, err := strconv.Atoi(remainingStr); err == nil {
		info.Remaining = v
	}
	if v, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
		info.Reset = time.Unix(v, 0)
	}
	return info
}

// Wait returns how long until the quota window resets, or zero if the reset
// time is unknown or already past.
func (r *RateLimitInfo) Wait() time.Duration {
	if r == nil || r.Reset.IsZero() {
		return 0
	}
	d := time.Until(r.Reset)
	if d < 0 {
		return 0
	}
	return d
}
