// errors.go
// ---------
// Typed errors returned by the RequestExecutor and surfaced unchanged through
// a ResultStream. Each kind maps to a class of API outcome:
//
//   - AuthenticationError: 401/403, never retried
//   - InvalidRuleError:    400/422 (and other non-retryable 4xx), never retried
//   - RateLimitError:      429 after the retry budget is exhausted
//   - ServerError:         5xx after the retry budget is exhausted
//   - ConnectionError:     network-level failure after the retry budget
//   - ProtocolError:       a 200 response whose body could not be decoded
//
// Callers should match with errors.As on the pointer types.
package searchtweets

import (
	"errors"
	"fmt"
	"time"
)

// Credential validation errors, returned before any request is sent.
var (
	ErrNoCredentials        = errors.New("searchtweets: no authentication fields populated")
	ErrAmbiguousCredentials = errors.New("searchtweets: both basic and bearer credential fields populated")
	ErrMissingEndpoint      = errors.New("searchtweets: credentials missing endpoint URL")
)

// AuthenticationError indicates the service rejected the supplied
// credentials (HTTP 401 or 403). It is fatal and never retried.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("searchtweets: authentication rejected (HTTP %d): %s", e.StatusCode, e.Body)
}

// InvalidRuleError indicates the service rejected the rule payload as
// malformed (HTTP 400 or 422). It is fatal and never retried.
type InvalidRuleError struct {
	StatusCode int
	Body       string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("searchtweets: invalid rule payload (HTTP %d): %s", e.StatusCode, e.Body)
}

// RateLimitError indicates the request was still being throttled (HTTP 429)
// after all backoff attempts.
type RateLimitError struct {
	Attempts  int
	RateLimit *RateLimitInfo // last known limit info, may be nil
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("searchtweets: rate limited after %d attempts", e.Attempts)
}

// ServerError indicates repeated 5xx responses exhausted the retry budget.
type ServerError struct {
	StatusCode int
	Attempts   int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("searchtweets: server error (HTTP %d) after %d attempts: %s", e.StatusCode, e.Attempts, e.Body)
}

// ConnectionError indicates repeated network-level failures (connection
// reset, timeout) exhausted the retry budget. The last underlying error is
// available via Unwrap.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("searchtweets: connection failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError indicates a 200 response carried a body that could not be
// decoded. Retrying would bill another request for the same broken answer,
// so it is fatal.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("searchtweets: undecodable response body: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// retryAfter reports how long a 429 should wait before the next attempt
// based on the response's rate-limit reset header, or zero if unknown.
func retryAfter(info *RateLimitInfo) time.Duration {
	if info == nil {
		return 0
	}
	return info.Wait()
}
