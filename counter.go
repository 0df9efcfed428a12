// counter.go
// ----------
// Session-wide request accounting. Every HTTP attempt made by a
// RequestExecutor, including retried attempts, bumps a SessionCounter so the
// total request volume of a process can be audited. The counter is
// observational only and never influences control flow.
package searchtweets

import "sync/atomic"

// SessionCounter counts HTTP attempts. It is safe for concurrent use and is
// monotonic for the lifetime of the process: it is never decremented or
// reset. Inject a fresh counter per test to assert on request volume without
// cross-test contamination.
type SessionCounter struct {
	n atomic.Int64
}

// Increment records one HTTP attempt.
func (c *SessionCounter) Increment() { c.n.Add(1) }

// Count returns the number of HTTP attempts recorded so far.
func (c *SessionCounter) Count() int64 { return c.n.Load() }

// DefaultSessionCounter is the counter used when a Config does not supply
// one. It spans every executor in the process.
var DefaultSessionCounter = &SessionCounter{}
