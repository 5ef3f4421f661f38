package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOptions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantSort   string
		wantDir    string
	}{
		{name: "defaults", query: "", wantLimit: defaultPageLimit},
		{name: "explicit paging", query: "limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "limit clamped high", query: "limit=1000", wantLimit: maxPageLimit},
		{name: "limit clamped low", query: "limit=0", wantLimit: 1},
		{name: "negative offset", query: "offset=-3", wantLimit: defaultPageLimit},
		{name: "garbage falls back", query: "limit=ten&offset=x", wantLimit: defaultPageLimit},
		{name: "sort carried", query: "sort=deadline&order=ASC", wantLimit: defaultPageLimit, wantSort: "deadline", wantDir: "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/jobs?"+tt.query, nil)
			opts := listOptions(r)
			assert.Equal(t, tt.wantLimit, opts.Limit)
			assert.Equal(t, tt.wantOffset, opts.Offset)
			assert.Equal(t, tt.wantSort, opts.Sort)
			assert.Equal(t, tt.wantDir, opts.Dir)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
		wantDir   string
	}{
		{name: "combined", values: url.Values{"sort": {"salary_max:desc"}}, wantField: "salary_max", wantDir: "desc"},
		{name: "combined uppercase", values: url.Values{"sort": {"title:ASC"}}, wantField: "title", wantDir: "asc"},
		{name: "combined wins over order", values: url.Values{"sort": {"title:asc"}, "order": {"desc"}}, wantField: "title", wantDir: "asc"},
		{name: "separate", values: url.Values{"sort": {"deadline"}, "order": {"desc"}}, wantField: "deadline", wantDir: "desc"},
		{name: "bad direction dropped", values: url.Values{"sort": {"deadline"}, "order": {"sideways"}}, wantField: "deadline"},
		{name: "empty combined direction", values: url.Values{"sort": {"created_at:"}}, wantField: "created_at"},
		{name: "whitespace", values: url.Values{"sort": {" created_at : desc "}}, wantField: "created_at", wantDir: "desc"},
		{name: "nothing", values: url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, dir := parseSort(tt.values)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDir, dir)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	q := url.Values{
		"q":        {"  icu nurse "},
		"blank":    {"   "},
		"unread":   {"TRUE"},
		"active":   {"0"},
		"bogus":    {"maybe"},
		"salary":   {"45000"},
		"negative": {"-1"},
	}

	assert.Equal(t, "icu nurse", *queryString(q, "q"))
	assert.Nil(t, queryString(q, "blank"))
	assert.Nil(t, queryString(q, "missing"))

	assert.True(t, *queryBool(q, "unread"))
	assert.False(t, *queryBool(q, "active"))
	assert.Nil(t, queryBool(q, "bogus"))

	v, ok := queryInt64(q, "salary")
	assert.True(t, ok)
	assert.Equal(t, int64(45000), *v)

	v, ok = queryInt64(q, "missing")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = queryInt64(q, "negative")
	assert.False(t, ok)
}
