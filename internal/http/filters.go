package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	sortAsc  = "asc"
	sortDesc = "desc"
)

// listOptions reads limit, offset, sort and order from the query string.
// Limit is clamped to [1, maxPageLimit]; negative offsets become 0.
func listOptions(r *http.Request) model.ListOptions {
	q := r.URL.Query()
	opts := model.ListOptions{
		Limit:  clamp(queryIntOr(q, "limit", defaultPageLimit), 1, maxPageLimit),
		Offset: max(queryIntOr(q, "offset", 0), 0),
	}
	opts.Sort, opts.Dir = parseSort(q)
	return opts
}

// parseSort accepts either ?sort=field:dir or ?sort=field&order=dir.
// An unknown direction is dropped so the repository falls back to its
// default; the field itself is checked against a whitelist downstream.
func parseSort(q url.Values) (string, string) {
	field := strings.TrimSpace(q.Get("sort"))
	dir := q.Get("order")
	if f, d, ok := strings.Cut(field, ":"); ok {
		field, dir = strings.TrimSpace(f), d
	}
	switch dir = strings.ToLower(strings.TrimSpace(dir)); dir {
	case sortAsc, sortDesc:
		return field, dir
	default:
		return field, ""
	}
}

func queryIntOr(q url.Values, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// queryString returns a trimmed query value, or nil when absent or blank.
func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryBool parses "true"/"false"; anything else is treated as absent.
func queryBool(q url.Values, key string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &v
}

// queryInt64 parses a non-negative integer. ok is false only for a value
// that is present but malformed.
func queryInt64(q url.Values, key string) (*int64, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}
