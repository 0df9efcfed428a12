package searchtweets_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchtweets "github.com/twitterdev/search-tweets-go"
	"github.com/twitterdev/search-tweets-go/mock"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
	return dir
}

func TestWriteNDJSON(t *testing.T) {
	transport := &mock.Transport{}
	transport.Enqueue(
		okPage(t, 1, 2, "T1"),
		okPage(t, 3, 1, ""),
	)
	rs := newTestStream(t, transport, searchtweets.StreamConfig{})

	it := rs.Stream()
	defer it.Stop()
	var buf bytes.Buffer
	n, err := searchtweets.WriteNDJSON(context.Background(), &buf, it)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"id_str":"1"`)
	assert.Contains(t, lines[2], `"id_str":"3"`)
}

func TestStreamWriterSingleFile(t *testing.T) {
	dir := chdirTemp(t)

	transport := &mock.Transport{}
	transport.Enqueue(okPage(t, 1, 3, ""))
	rs := newTestStream(t, transport, searchtweets.StreamConfig{})

	it := rs.Stream()
	defer it.Stop()
	writer := &searchtweets.StreamWriter{Prefix: "results"}
	n, err := writer.Write(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestStreamWriterChunksFiles(t *testing.T) {
	dir := chdirTemp(t)

	transport := &mock.Transport{}
	transport.Enqueue(
		okPage(t, 1, 2, "T1"),
		okPage(t, 3, 2, "T2"),
		okPage(t, 5, 1, ""),
	)
	rs := newTestStream(t, transport, searchtweets.StreamConfig{})

	it := rs.Stream()
	defer it.Stop()
	writer := &searchtweets.StreamWriter{Prefix: "chunked", ResultsPerFile: 2}
	n, err := writer.Write(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	files, err := filepath.Glob(filepath.Join(dir, "chunked_*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	total := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		count := strings.Count(string(data), "\n")
		assert.LessOrEqual(t, count, 2)
		total += count
	}
	assert.Equal(t, 5, total)
}

func TestStreamWriterKeepsPartialResultsOnFailure(t *testing.T) {
	dir := chdirTemp(t)

	transport := &mock.Transport{}
	transport.Enqueue(
		okPage(t, 1, 2, "T1"),
		mock.Step{StatusCode: http.StatusUnauthorized, Body: `{"error":"expired"}`},
	)
	rs := newTestStream(t, transport, searchtweets.StreamConfig{})

	it := rs.Stream()
	defer it.Stop()
	writer := &searchtweets.StreamWriter{Prefix: "partial"}
	n, err := writer.Write(context.Background(), it)
	var authErr *searchtweets.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dir, "partial.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"), "records before the failure stay on disk")
}
