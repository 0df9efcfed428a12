// Package searchtweets is a client for the paginated tweet search API
// (enterprise and premium tiers). It turns one logical query into a bounded,
// ordered sequence of API calls and exposes the combined results as a lazy
// stream.
//
// Key pieces:
//   - LoadCredentials reads auth material from a YAML file and/or
//     SEARCHTWEETS_* environment variables.
//   - NewRulePayload builds the query payload (filter rule, time bounds,
//     page-size hint, optional count bucket).
//   - ResultStream paginates via the server's "next" continuation token,
//     honoring MaxResults and MaxPages stop conditions, and yields records
//     through a pull-based iterator.
//   - RequestExecutor issues the individual HTTP calls with retry/backoff
//     and classifies failures into typed errors.
//
// Minimal usage:
//
//	creds, err := searchtweets.LoadCredentials("", "", true)
//	if err != nil { ... }
//	rule, err := searchtweets.NewRulePayload("snow has:geo", searchtweets.RuleOptions{
//		FromDate: "2023-01-01",
//		ToDate:   "2023-01-02",
//	})
//	if err != nil { ... }
//	tweets, err := searchtweets.CollectResults(ctx, creds, rule, 500)
//
// Pagination is strictly sequential: at most one request is in flight, and
// the consumer stopping iteration halts all further network activity.
package searchtweets
