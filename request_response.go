// request_response.go
// -------------------
// Wire-level envelope types shared by the RequestExecutor and ResultStream.
package searchtweets

import "encoding/json"

// Envelope is one page of decoded response data: the records (or count
// buckets) in server order, the continuation token for the next page, and
// any rate-limit metadata the response carried. An absent Next token means
// the server has no more data for this query.
type Envelope struct {
	Records   []json.RawMessage
	Next      string
	RateLimit *RateLimitInfo
}

// apiResponse mirrors the response body's JSON shape. Both the search and
// counts variants put their page under "results".
type apiResponse struct {
	Results []json.RawMessage `json:"results"`
	Next    string            `json:"next"`
}
