// tweet.go
// --------
// Lazy record wrapper. A Tweet holds the raw JSON bytes of one record and
// decodes individual fields only when an accessor is called, so a stream of
// large records costs no more than the fields actually touched.
package searchtweets

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

// createdAtLayout is the timestamp format used in record payloads.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Tweet is one record from the search endpoint. Accessors return zero
// values for fields the record does not carry.
type Tweet struct {
	raw json.RawMessage
}

func newTweet(raw json.RawMessage) *Tweet {
	return &Tweet{raw: raw}
}

// Raw returns the undecoded record bytes.
func (t *Tweet) Raw() json.RawMessage { return t.raw }

// Unmarshal decodes the full record into v.
func (t *Tweet) Unmarshal(v any) error {
	return json.Unmarshal(t.raw, v)
}

// Get looks up an arbitrary field by gjson path, for fields without a
// dedicated accessor.
func (t *Tweet) Get(path string) gjson.Result {
	return gjson.GetBytes(t.raw, path)
}

// ID returns the record's string identifier.
func (t *Tweet) ID() string {
	if id := t.Get("id_str"); id.Exists() {
		return id.String()
	}
	return t.Get("id").String()
}

// Text returns the full text of the record, preferring the extended form
// when the record was truncated.
func (t *Tweet) Text() string {
	if ext := t.Get("extended_tweet.full_text"); ext.Exists() {
		return ext.String()
	}
	return t.Get("text").String()
}

// CreatedAt returns the record's creation time, or the zero time if the
// field is absent or unparsable.
func (t *Tweet) CreatedAt() time.Time {
	ts, err := time.Parse(createdAtLayout, t.Get("created_at").String())
	if err != nil {
		return time.Time{}
	}
	return ts
}

// ScreenName returns the authoring user's handle.
func (t *Tweet) ScreenName() string {
	return t.Get("user.screen_name").String()
}

// UserID returns the authoring user's string identifier.
func (t *Tweet) UserID() string {
	if id := t.Get("user.id_str"); id.Exists() {
		return id.String()
	}
	return t.Get("user.id").String()
}

// Lang returns the record's language code.
func (t *Tweet) Lang() string {
	return t.Get("lang").String()
}

func (t *Tweet) String() string { return string(t.raw) }

// CountBucket is one aggregate from the counts endpoint: how many records
// matched within one time period.
type CountBucket struct {
	Count      int    `json:"count"`
	TimePeriod string `json:"timePeriod"`
}
