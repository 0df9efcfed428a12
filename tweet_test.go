package searchtweets_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchtweets "github.com/twitterdev/search-tweets-go"
	"github.com/twitterdev/search-tweets-go/mock"
)

func streamSingleTweet(t *testing.T, record string) *searchtweets.Tweet {
	t.Helper()
	transport := &mock.Transport{}
	transport.Enqueue(mock.Step{
		StatusCode: http.StatusOK,
		Body:       `{"results":[` + record + `]}`,
	})
	rs := newTestStream(t, transport, searchtweets.StreamConfig{})
	tweets, err := rs.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	return tweets[0]
}

func TestTweetAccessors(t *testing.T) {
	tweet := streamSingleTweet(t, `{
		"id_str": "1080880619053059842",
		"text": "short text",
		"created_at": "Thu Jan 03 18:05:35 +0000 2019",
		"lang": "en",
		"user": {"id_str": "2244994945", "screen_name": "TwitterDev"},
		"extended_tweet": {"full_text": "the much longer full text of the tweet"}
	}`)

	assert.Equal(t, "1080880619053059842", tweet.ID())
	assert.Equal(t, "the much longer full text of the tweet", tweet.Text())
	assert.Equal(t, "TwitterDev", tweet.ScreenName())
	assert.Equal(t, "2244994945", tweet.UserID())
	assert.Equal(t, "en", tweet.Lang())

	want := time.Date(2019, time.January, 3, 18, 5, 35, 0, time.UTC)
	assert.True(t, tweet.CreatedAt().Equal(want), "got %v", tweet.CreatedAt())
}

func TestTweetFallbackFields(t *testing.T) {
	tweet := streamSingleTweet(t, `{
		"id": 42,
		"text": "plain text",
		"user": {"id": 7}
	}`)

	assert.Equal(t, "42", tweet.ID(), "numeric id falls back to the id field")
	assert.Equal(t, "plain text", tweet.Text(), "no extended form present")
	assert.Equal(t, "7", tweet.UserID())
	assert.True(t, tweet.CreatedAt().IsZero())
}

func TestTweetRawAndUnmarshal(t *testing.T) {
	tweet := streamSingleTweet(t, `{"id_str":"1","text":"hi","favorite_count":3}`)

	assert.JSONEq(t, `{"id_str":"1","text":"hi","favorite_count":3}`, string(tweet.Raw()))

	var decoded struct {
		FavoriteCount int `json:"favorite_count"`
	}
	require.NoError(t, tweet.Unmarshal(&decoded))
	assert.Equal(t, 3, decoded.FavoriteCount)

	assert.Equal(t, int64(3), tweet.Get("favorite_count").Int())
	assert.False(t, tweet.Get("retweeted_status").Exists())
}
