package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		method string
		path   string
		params map[string]string
		want   string
	}{
		{"templated", "get", "/users/42", map[string]string{"id": "42"}, "GET /users/[id]"},
		{"no params", "POST", "/api/orders", nil, "POST /api/orders"},
		{"query stripped", "GET", "/users/42?expand=1", map[string]string{"id": "42"}, "GET /users/[id]"},
		{"fragment stripped", "GET", "/docs#intro", nil, "GET /docs"},
		{"empty method and path", "", "", nil, "GET /"},
		{"segment exact", "GET", "/users/4242/items/42", map[string]string{"id": "42"}, "GET /users/4242/items/[id]"},
		{"every matching segment", "GET", "/a/7/b/7", map[string]string{"n": "7"}, "GET /a/[n]/b/[n]"},
		{"shared value picks first name", "GET", "/x/1", map[string]string{"b": "1", "a": "1"}, "GET /x/[a]"},
		{"two params", "PATCH", "/orgs/acme/repos/api", map[string]string{"org": "acme", "repo": "api"}, "PATCH /orgs/[org]/repos/[repo]"},
		{"escaped segment", "GET", "/files/a%20b", map[string]string{"name": "a b"}, "GET /files/[name]"},
		{"empty value ignored", "GET", "/x//y", map[string]string{"gap": ""}, "GET /x//y"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, TransactionName(tc.method, tc.path, tc.params))
		})
	}
}

func TestStripQueryAndFragment(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/a", StripQueryAndFragment("/a?b#c"))
	assert.Equal(t, "/a", StripQueryAndFragment("/a#c?b"))
	assert.Equal(t, "/a", StripQueryAndFragment("/a"))
	assert.Equal(t, "", StripQueryAndFragment("?only"))
}
