package listutil

import (
	"net/url"
	"strings"
)

// SearchParam is the query parameter the listing search boxes submit.
const SearchParam = "search"

// FilterParams carries the search box value and exact-match filters.
type FilterParams struct {
	Search  string            // trimmed free-text search
	Filters map[string]string // recognised filters with non-blank values
}

// ParseFilterParams extracts the search text and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised, non-blank keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get(SearchParam)),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// BackendPath appends the filters to a backend list path, sending the search
// text as searchKey. Blank values are omitted; with nothing to send, path is
// returned unchanged.
// PRE: path has no query string
// POST: returns path with an encoded query string when any value is present
func (fp FilterParams) BackendPath(path, searchKey string) string {
	q := url.Values{}
	if fp.Search != "" && searchKey != "" {
		q.Set(searchKey, fp.Search)
	}
	for k, v := range fp.Filters {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
