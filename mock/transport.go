// Package mock provides a scripted HTTP transport for exercising the client
// without a live endpoint. Each enqueued step is either a canned response or
// a network-level error; the transport replays them in order and records
// every request it sees.
package mock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Step is one scripted exchange. Err, when set, simulates a network-level
// failure (connection reset, timeout) instead of a response.
type Step struct {
	StatusCode int
	Body       string
	Header     http.Header
	Err        error
}

// Request is one captured outbound request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport replays scripted steps. With Repeat set, the last step is
// replayed forever once the script runs out, which is handy for simulating
// an endless supply of pages.
type Transport struct {
	mu       sync.Mutex
	steps    []Step
	pos      int
	Repeat   bool
	requests []Request
}

// Enqueue appends steps to the script.
func (t *Transport) Enqueue(steps ...Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, steps...)
}

// Do satisfies the client's transport contract.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	t.requests = append(t.requests, Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})

	if t.pos >= len(t.steps) {
		if !t.Repeat || len(t.steps) == 0 {
			return nil, fmt.Errorf("mock: no scripted step for request %d", len(t.requests))
		}
		t.pos = len(t.steps) - 1
	}
	step := t.steps[t.pos]
	t.pos++

	if step.Err != nil {
		return nil, step.Err
	}
	header := step.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: step.StatusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(step.Body))),
		Request:    req,
	}, nil
}

// Requests returns a copy of every request captured so far.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// RequestCount returns how many requests the transport has served.
func (t *Transport) RequestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}
