package searchtweets

import "net/http"

// HTTPDoer is the transport contract the RequestExecutor depends on.
// *http.Client satisfies it; tests substitute a scripted implementation.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
