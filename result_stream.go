// result_stream.go
// ----------------
// ResultStream converts one logical query into a bounded, ordered sequence
// of API calls and exposes the combined results as a lazy iterator. It owns
// the continuation token: each page's token is fed back into the next
// request's payload until the server signals exhaustion or a stop condition
// fires. Records come back in exactly the order the server returned them,
// page by page, with no buffering beyond the current page.
package searchtweets

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// ErrStreamDone is returned by Next when iteration has finished normally,
// whether by server exhaustion or by a stop condition. It is never returned
// for failures; those surface as the executor's typed errors.
var ErrStreamDone = errors.New("searchtweets: result stream done")

// Iterator is a single-use, pull-based sequence. Next returns ErrStreamDone
// after the final item; a failure is sticky and returned on every subsequent
// call. Ceasing to call Next (or calling Stop) halts all further network
// activity, since at most one request is ever in flight.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
	Stop()
}

// StreamConfig carries the ResultStream's stop conditions and collaborators.
type StreamConfig struct {
	// MaxResults caps the total number of records (or count buckets) the
	// stream yields; the final page is truncated to hit the cap exactly.
	// Zero means no cap.
	MaxResults int

	// MaxPages caps the number of page fetches regardless of MaxResults or
	// the server's continuation token. Zero means no cap.
	MaxPages int

	// Executor overrides the request executor, mainly for tests. When nil a
	// default-configured one is built.
	Executor *RequestExecutor

	// Logger receives paging progress at debug level. Defaults to the
	// executor's logger.
	Logger *zap.Logger
}

// ResultStream is a reusable description of one logical query. Constructing
// it performs no network calls; calling Stream (or StreamCounts, or the
// Collect helpers) starts pagination from page one each time.
//
// With neither MaxResults nor MaxPages set the stream runs until the server
// reports no more data, which for broad queries can be an enormous number of
// pages. Bounding the cost is the caller's responsibility.
type ResultStream struct {
	creds    Credentials
	payload  *RulePayload
	cfg      StreamConfig
	executor *RequestExecutor
	logger   *zap.Logger
}

// NewResultStream validates the credentials and binds them to a rule
// payload. When the payload carries a count bucket, the endpoint is rewritten
// to its counts counterpart.
func NewResultStream(creds Credentials, payload *RulePayload, cfg StreamConfig) (*ResultStream, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("searchtweets: nil rule payload")
	}
	if payload.IsCounts() {
		creds.Endpoint = ChangeToCountEndpoint(creds.Endpoint)
	}
	executor := cfg.Executor
	if executor == nil {
		executor = NewRequestExecutor(Config{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = executor.logger
	}
	return &ResultStream{
		creds:    creds,
		payload:  payload,
		cfg:      cfg,
		executor: executor,
		logger:   logger,
	}, nil
}

// IsCounts reports whether this stream targets the counts endpoint.
func (rs *ResultStream) IsCounts() bool { return rs.payload.IsCounts() }

// Stream returns a fresh iterator over the query's records. No request is
// made until the first Next call.
func (rs *ResultStream) Stream() Iterator[*Tweet] {
	return &tweetIterator{inner: rs.newPageIterator()}
}

// StreamCounts returns a fresh iterator over the query's count buckets, for
// payloads built with a CountBucket. No request is made until the first Next
// call.
func (rs *ResultStream) StreamCounts() Iterator[CountBucket] {
	return &countIterator{inner: rs.newPageIterator()}
}

// Collect drains a fresh record stream into a slice. On failure the records
// yielded before the failing page are returned alongside the error; callers
// must treat such a result as partial, not empty.
func (rs *ResultStream) Collect(ctx context.Context) ([]*Tweet, error) {
	it := rs.Stream()
	defer it.Stop()
	var tweets []*Tweet
	for {
		t, err := it.Next(ctx)
		if errors.Is(err, ErrStreamDone) {
			return tweets, nil
		}
		if err != nil {
			return tweets, err
		}
		tweets = append(tweets, t)
	}
}

// CollectCounts drains a fresh counts stream into a slice, with the same
// partial-result semantics as Collect.
func (rs *ResultStream) CollectCounts(ctx context.Context) ([]CountBucket, error) {
	it := rs.StreamCounts()
	defer it.Stop()
	var buckets []CountBucket
	for {
		b, err := it.Next(ctx)
		if errors.Is(err, ErrStreamDone) {
			return buckets, nil
		}
		if err != nil {
			return buckets, err
		}
		buckets = append(buckets, b)
	}
}

func (rs *ResultStream) newPageIterator() *pageIterator {
	return &pageIterator{rs: rs}
}

// pageIterator is the pagination state machine. It holds at most one page of
// raw records and fetches the next page only when the current one is
// consumed and no stop condition has fired.
type pageIterator struct {
	rs *ResultStream

	page      []json.RawMessage
	pos       int
	nextToken string

	started bool
	stopped bool
	err     error

	yielded int
	pages   int
}

func (it *pageIterator) next(ctx context.Context) (json.RawMessage, error) {
	for {
		if it.stopped {
			if it.err != nil {
				return nil, it.err
			}
			return nil, ErrStreamDone
		}

		if it.rs.cfg.MaxResults > 0 && it.yielded >= it.rs.cfg.MaxResults {
			it.stopped = true
			it.rs.logger.Debug("stream stopped at max results",
				zap.Int("yielded", it.yielded),
				zap.Int("pages", it.pages))
			continue
		}

		if it.pos < len(it.page) {
			rec := it.page[it.pos]
			it.pos++
			it.yielded++
			return rec, nil
		}

		if it.started {
			if it.nextToken == "" {
				// Server exhaustion.
				it.stopped = true
				it.rs.logger.Debug("stream exhausted",
					zap.Int("yielded", it.yielded),
					zap.Int("pages", it.pages))
				continue
			}
			if it.rs.cfg.MaxPages > 0 && it.pages >= it.rs.cfg.MaxPages {
				it.stopped = true
				it.rs.logger.Debug("stream stopped at max pages",
					zap.Int("yielded", it.yielded),
					zap.Int("pages", it.pages))
				continue
			}
		}

		if err := it.fetchPage(ctx); err != nil {
			it.stopped = true
			it.err = err
			return nil, err
		}
	}
}

func (it *pageIterator) fetchPage(ctx context.Context) error {
	var (
		body []byte
		err  error
	)
	if it.started {
		body, err = it.rs.payload.WithNext(it.nextToken)
	} else {
		body, err = it.rs.payload.Bytes()
	}
	if err != nil {
		return err
	}

	env, err := it.rs.executor.Execute(ctx, it.rs.creds, body)
	if err != nil {
		return err
	}

	it.started = true
	it.pages++
	it.page = env.Records
	it.pos = 0
	it.nextToken = env.Next
	it.rs.logger.Debug("fetched page",
		zap.Int("page", it.pages),
		zap.Int("records", len(env.Records)),
		zap.Bool("has_next", env.Next != ""))
	return nil
}

func (it *pageIterator) stop() {
	it.stopped = true
	it.page = nil
}

type tweetIterator struct {
	inner *pageIterator
}

var _ Iterator[*Tweet] = (*tweetIterator)(nil)

func (it *tweetIterator) Next(ctx context.Context) (*Tweet, error) {
	raw, err := it.inner.next(ctx)
	if err != nil {
		return nil, err
	}
	return newTweet(raw), nil
}

func (it *tweetIterator) Stop() { it.inner.stop() }

type countIterator struct {
	inner *pageIterator
}

var _ Iterator[CountBucket] = (*countIterator)(nil)

func (it *countIterator) Next(ctx context.Context) (CountBucket, error) {
	raw, err := it.inner.next(ctx)
	if err != nil {
		return CountBucket{}, err
	}
	var bucket CountBucket
	if err := json.Unmarshal(raw, &bucket); err != nil {
		return CountBucket{}, &ProtocolError{Err: err}
	}
	return bucket, nil
}

func (it *countIterator) Stop() { it.inner.stop() }

// CollectResults is a convenience for one-off queries: it builds a
// ResultStream capped at maxResults and drains it.
func CollectResults(ctx context.Context, creds Credentials, payload *RulePayload, maxResults int) ([]*Tweet, error) {
	rs, err := NewResultStream(creds, payload, StreamConfig{MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	return rs.Collect(ctx)
}
