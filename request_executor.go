// request_executor.go
// -------------------
// RequestExecutor issues one logical API call: build the HTTP request with
// the right Authorization header, send it, absorb transient failures with
// exponential backoff, classify terminal failures into typed errors, and
// decode the 200 body into an Envelope. It keeps no state between calls
// beyond the shared session counter.
package searchtweets

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// maxErrorBodyBytes bounds how much of an error response body is carried
// into the returned error.
const maxErrorBodyBytes = 1 << 12

type RequestExecutor struct {
	client  HTTPDoer
	cfg     Config
	logger  *zap.Logger
	counter *SessionCounter
}

func NewRequestExecutor(cfg Config) *RequestExecutor {
	cfg = cfg.withDefaults()
	return &RequestExecutor{
		client:  cfg.HTTPClient,
		cfg:     cfg,
		logger:  cfg.Logger,
		counter: cfg.Counter,
	}
}

// Execute POSTs the payload to the credentials' endpoint and returns the
// decoded page. Transient failures (network errors, 429, 5xx) are retried up
// to the configured budget; 401/403, 400/422, and undecodable 200 bodies
// fail immediately with the corresponding typed error. Credentials are
// validated before any request is sent.
func (re *RequestExecutor) Execute(ctx context.Context, creds Credentials, payload []byte) (*Envelope, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if !json.Valid(payload) {
		return nil, &InvalidRuleError{Body: "payload is not valid JSON"}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = re.cfg.BaseBackoff
	bo.MaxInterval = maxBackoff
	bo.MaxElapsedTime = 0

	attempts := 0
	var lastRate *RateLimitInfo
	for {
		resp, err := re.doRequest(ctx, creds, payload)
		attempts++
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempts <= re.cfg.MaxRetries {
				wait := bo.NextBackOff()
				re.logger.Debug("network error, retrying",
					zap.Error(err),
					zap.Duration("wait", wait),
					zap.Int("attempt", attempts),
					zap.Int("max_retries", re.cfg.MaxRetries))
				if err := sleepCtx(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			re.logger.Debug("network error, retry budget exhausted", zap.Error(err), zap.Int("attempts", attempts))
			return nil, &ConnectionError{Attempts: attempts, Err: err}
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		rate := parseRateLimitInfo(resp.Header)
		if rate != nil {
			lastRate = rate
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, &ProtocolError{Err: readErr}
			}
			var decoded apiResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return nil, &ProtocolError{Err: err}
			}
			re.logger.Debug("request succeeded",
				zap.Int("attempts", attempts),
				zap.Int("records", len(decoded.Results)),
				zap.Bool("has_next", decoded.Next != ""))
			return &Envelope{
				Records:   decoded.Results,
				Next:      decoded.Next,
				RateLimit: rate,
			}, nil

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: errorBody(body)}

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempts <= re.cfg.MaxRetries {
				wait := retryAfter(rate)
				if wait == 0 {
					wait = bo.NextBackOff()
				}
				re.logger.Debug("rate limited, backing off",
					zap.Duration("wait", wait),
					zap.Int("attempt", attempts),
					zap.Int("max_retries", re.cfg.MaxRetries))
				if err := sleepCtx(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &RateLimitError{Attempts: attempts, RateLimit: lastRate}

		case resp.StatusCode >= http.StatusInternalServerError:
			if attempts <= re.cfg.MaxRetries {
				wait := bo.NextBackOff()
				re.logger.Debug("server error, retrying",
					zap.Int("status", resp.StatusCode),
					zap.Duration("wait", wait),
					zap.Int("attempt", attempts),
					zap.Int("max_retries", re.cfg.MaxRetries))
				if err := sleepCtx(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &ServerError{StatusCode: resp.StatusCode, Attempts: attempts, Body: errorBody(body)}

		default:
			// 400, 422, and any other unexpected client status: the payload
			// or endpoint is wrong and a retry cannot fix it.
			return nil, &InvalidRuleError{StatusCode: resp.StatusCode, Body: errorBody(body)}
		}
	}
}

func (re *RequestExecutor) doRequest(ctx context.Context, creds Credentials, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := creds.authorize(req); err != nil {
		return nil, err
	}
	re.counter.Increment()
	return re.client.Do(req)
}

func errorBody(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return string(bytes.TrimSpace(body))
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
