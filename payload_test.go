package searchtweets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchtweets "github.com/twitterdev/search-tweets-go"
)

func TestNewRulePayload(t *testing.T) {
	payload, err := searchtweets.NewRulePayload("kanye west has:geo", searchtweets.RuleOptions{
		FromDate: "2017-08-21",
		ToDate:   "2017-08-22",
	})
	require.NoError(t, err)

	body, err := payload.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"query": "kanye west has:geo",
		"maxResults": 500,
		"fromDate": "201708210000",
		"toDate": "201708220000"
	}`, string(body))
}

func TestNewRulePayloadCollapsesWhitespace(t *testing.T) {
	payload, err := searchtweets.NewRulePayload(`beyonce
		has:geo`, searchtweets.RuleOptions{ResultsPerCall: 100})
	require.NoError(t, err)

	body, err := payload.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": "beyonce has:geo", "maxResults": 100}`, string(body))
}

func TestNewRulePayloadEmptyRule(t *testing.T) {
	_, err := searchtweets.NewRulePayload("   ", searchtweets.RuleOptions{})
	require.Error(t, err)
}

func TestNewRulePayloadCountBucket(t *testing.T) {
	payload, err := searchtweets.NewRulePayload("beyonce", searchtweets.RuleOptions{
		CountBucket: searchtweets.BucketDay,
		// ResultsPerCall must be dropped for counts queries.
		ResultsPerCall: 100,
	})
	require.NoError(t, err)
	assert.True(t, payload.IsCounts())
	assert.Equal(t, searchtweets.BucketDay, payload.Bucket())

	body, err := payload.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": "beyonce", "bucket": "day"}`, string(body))
}

func TestNewRulePayloadInvalidBucket(t *testing.T) {
	_, err := searchtweets.NewRulePayload("beyonce", searchtweets.RuleOptions{CountBucket: "week"})
	require.Error(t, err)
}

func TestNewRulePayloadBadDate(t *testing.T) {
	_, err := searchtweets.NewRulePayload("beyonce", searchtweets.RuleOptions{FromDate: "last tuesday"})
	require.Error(t, err)
}

func TestNewRulePayloadTag(t *testing.T) {
	payload, err := searchtweets.NewRulePayload("beyonce", searchtweets.RuleOptions{Tag: "music"})
	require.NoError(t, err)

	body, err := payload.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": "beyonce", "maxResults": 500, "tag": "music"}`, string(body))
}

func TestParseRulePayload(t *testing.T) {
	payload, err := searchtweets.ParseRulePayload([]byte(`{"query":"snow","maxResults":100}`))
	require.NoError(t, err)
	assert.False(t, payload.IsCounts())

	_, err = searchtweets.ParseRulePayload([]byte(`{"maxResults":100}`))
	require.Error(t, err, "missing query field")

	_, err = searchtweets.ParseRulePayload([]byte(`{"query": `))
	require.Error(t, err, "invalid JSON")
}

func TestWithNextDoesNotMutateBase(t *testing.T) {
	payload, err := searchtweets.NewRulePayload("snow", searchtweets.RuleOptions{ResultsPerCall: 100})
	require.NoError(t, err)

	withNext, err := payload.WithNext("abc123")
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": "snow", "maxResults": 100, "next": "abc123"}`, string(withNext))

	base, err := payload.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": "snow", "maxResults": 100}`, string(base))
}

func TestChangeToCountEndpoint(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod.json",
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod/counts.json",
		},
		{
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod/counts.json",
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod/counts.json",
		},
		{
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod",
			"https://gnip-api.twitter.com/search/powertrack/accounts/acme/prod/counts.json",
		},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, searchtweets.ChangeToCountEndpoint(tc.in))
	}
}
