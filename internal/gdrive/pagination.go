package gdrive

import "strings"

// pageTokenField is the response field carrying the continuation token.
// Listing responses must select it or pagination stops after one page.
const pageTokenField = "nextPageToken"

// collectPages drives a paged listing to completion. page is invoked with
// the continuation token from the previous response (empty for the first
// request) and returns one page of items plus the next token. Iteration
// stops when the token comes back empty, or once the accumulated count
// exceeds limit — so the result may overshoot limit by up to one page.
// limit <= 0 selects the client default. Result order is the concatenation
// order of successive pages; nothing is re-sorted.
func collectPages[T any](limit int64, page func(token string) ([]T, string, error)) ([]T, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}

	var results []T

	token := ""

	for {
		items, next, err := page(token)
		if err != nil {
			return nil, err
		}

		results = append(results, items...)

		if next == "" || int64(len(results)) > limit {
			return results, nil
		}

		token = next
	}
}

// withPageToken ensures a caller-supplied field selection includes the
// continuation token, appending it when missing. Empty selections and the
// wildcard already cover it and pass through unchanged.
func withPageToken(fields string) string {
	if fields == "" || fields == "*" {
		return fields
	}

	for _, f := range strings.Split(fields, ",") {
		if strings.TrimSpace(f) == pageTokenField {
			return fields
		}
	}

	return fields + ", " + pageTokenField
}
