// internal/timeutil/timeutil.go
// -----------------------------
// Helpers for converting caller-supplied datetime strings into the API's
// minute-granularity timestamp format. The API expects YYYYMMDDHHmm; callers
// may pass any of several common layouts and get the canonical form back.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// APILayout is the timestamp layout the search API expects in
// fromDate/toDate fields.
const APILayout = "200601021504"

// acceptedLayouts are tried in order when converting caller input.
var acceptedLayouts = []string{
	APILayout,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ConvertToAPITime converts a datetime string into the API's YYYYMMDDHHmm
// format. Accepted input forms:
//
//	YYYYMMDDHHmm
//	YYYY-mm-DD
//	YYYY-mm-DD HH:MM
//	YYYY-mm-DDTHH:MM
//
// An empty input returns an empty string with no error.
func ConvertToAPITime(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	// The command line commonly passes the 'T' separated form.
	s = strings.Replace(s, "T", " ", 1)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(APILayout), nil
		}
	}
	return "", fmt.Errorf("timeutil: unrecognized datetime %q", s)
}
