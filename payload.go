// payload.go
// ----------
// Rule payload construction and the small amount of payload surgery the
// pagination engine performs. A payload combines a filter rule with optional
// time bounds, a page-size hint, and an optional count bucket; everything in
// it is opaque to the engine except the "next" continuation field patched in
// between pages and the "bucket" field used to route counts queries.
package searchtweets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twitterdev/search-tweets-go/internal/timeutil"
)

// Count buckets accepted by the counts endpoint.
const (
	BucketMinute = "minute"
	BucketHour   = "hour"
	BucketDay    = "day"
)

// DefaultResultsPerCall is the page-size hint applied when none is given.
// The server caps this by account tier, typically between 100 and 500.
const DefaultResultsPerCall = 500

// RuleOptions carries the optional parts of a rule payload.
type RuleOptions struct {
	// FromDate and ToDate bound the search window. Any format accepted by
	// timeutil.ConvertToAPITime works.
	FromDate string
	ToDate   string

	// ResultsPerCall maps to the API's maxResults page-size hint.
	// Zero means DefaultResultsPerCall. Ignored for counts queries.
	ResultsPerCall int

	// CountBucket switches the payload to the counts variant, aggregating
	// matches per minute, hour, or day.
	CountBucket string

	// Tag is an optional label echoed back with matched results.
	Tag string
}

// RulePayload is a serialized query. The engine sends it verbatim, except
// that page two and later carry the prior page's continuation token.
type RulePayload struct {
	fields map[string]any
}

// NewRulePayload builds a payload for the given filter rule. Multi-line rule
// strings are collapsed to single spaces for ease of entry.
func NewRulePayload(rule string, opts RuleOptions) (*RulePayload, error) {
	rule = strings.Join(strings.Fields(rule), " ")
	if rule == "" {
		return nil, fmt.Errorf("searchtweets: empty rule")
	}

	fields := map[string]any{"query": rule}

	if opts.CountBucket != "" {
		switch opts.CountBucket {
		case BucketMinute, BucketHour, BucketDay:
			fields["bucket"] = opts.CountBucket
		default:
			return nil, fmt.Errorf("searchtweets: invalid count bucket %q", opts.CountBucket)
		}
	} else {
		perCall := opts.ResultsPerCall
		if perCall == 0 {
			perCall = DefaultResultsPerCall
		}
		fields["maxResults"] = perCall
	}

	if opts.ToDate != "" {
		to, err := timeutil.ConvertToAPITime(opts.ToDate)
		if err != nil {
			return nil, err
		}
		fields["toDate"] = to
	}
	if opts.FromDate != "" {
		from, err := timeutil.ConvertToAPITime(opts.FromDate)
		if err != nil {
			return nil, err
		}
		fields["fromDate"] = from
	}
	if opts.Tag != "" {
		fields["tag"] = opts.Tag
	}

	return &RulePayload{fields: fields}, nil
}

// ParseRulePayload wraps an already-serialized payload produced elsewhere.
func ParseRulePayload(raw []byte) (*RulePayload, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("searchtweets: rule payload is not valid JSON: %w", err)
	}
	if _, ok := fields["query"]; !ok {
		return nil, fmt.Errorf("searchtweets: rule payload is missing the query field")
	}
	return &RulePayload{fields: fields}, nil
}

// Bytes serializes the payload as sent for the first page.
func (p *RulePayload) Bytes() ([]byte, error) {
	return json.Marshal(p.fields)
}

// WithNext serializes the payload with the continuation token merged in, as
// sent for page two and later. The receiver is not modified.
func (p *RulePayload) WithNext(token string) ([]byte, error) {
	merged := make(map[string]any, len(p.fields)+1)
	for k, v := range p.fields {
		merged[k] = v
	}
	merged["next"] = token
	return json.Marshal(merged)
}

// Bucket returns the counts bucket, or "" for a search payload.
func (p *RulePayload) Bucket() string {
	b, _ := p.fields["bucket"].(string)
	return b
}

// IsCounts reports whether the payload targets the counts endpoint.
func (p *RulePayload) IsCounts() bool { return p.Bucket() != "" }

func (p *RulePayload) String() string {
	b, _ := p.Bytes()
	return string(b)
}

// ChangeToCountEndpoint rewrites a search endpoint URL to its counts
// counterpart. An endpoint that already targets counts is returned unchanged.
func ChangeToCountEndpoint(endpoint string) string {
	trimmed := strings.TrimSuffix(endpoint, "/")
	base := strings.TrimSuffix(trimmed, ".json")
	if strings.HasSuffix(base, "/counts") {
		return base + ".json"
	}
	return base + "/counts.json"
}
