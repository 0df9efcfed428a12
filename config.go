// config.go
// ---------
// Config tunes the RequestExecutor: retry budget, backoff shape, transport,
// logging, and request accounting. The zero value is usable; withDefaults
// fills in anything left unset.
package searchtweets

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = time.Second
	maxBackoff         = 30 * time.Second
	defaultTimeout     = 30 * time.Second
)

// Config carries per-executor settings.
type Config struct {
	// MaxRetries bounds how many times a transient failure (network error,
	// 429, 5xx) is retried before the typed error surfaces. Defaults to 3.
	MaxRetries int

	// BaseBackoff is the initial interval of the exponential backoff between
	// retries, capped at 30s. Defaults to one second.
	BaseBackoff time.Duration

	// HTTPClient overrides the transport. Defaults to an *http.Client with a
	// 30s timeout.
	HTTPClient HTTPDoer

	// Logger receives debug-level request/retry logging. Defaults to a nop
	// logger.
	Logger *zap.Logger

	// Counter receives one increment per HTTP attempt. Defaults to
	// DefaultSessionCounter.
	Counter *SessionCounter
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseBackoff == 0 {
		c.BaseBackoff = defaultBaseBackoff
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Counter == nil {
		c.Counter = DefaultSessionCounter
	}
	return c
}
