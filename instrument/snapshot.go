package instrument

import (
	"net/http"
	"strings"

	"github.com/aalemi-dev/reqscope/event"
)

// Headers never copied into a request snapshot.
var sensitiveHeaders = map[string]struct{}{
	"Authorization":       {},
	"Proxy-Authorization": {},
	"Cookie":              {},
	"Set-Cookie":          {},
}

// RequestSnapshot copies what events need from r. Credentials and cookies
// are left out.
func RequestSnapshot(r *http.Request) *event.Request {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return &event.Request{
		Method:      r.Method,
		URL:         scheme + "://" + r.Host + r.URL.Path,
		QueryString: r.URL.RawQuery,
		Headers:     SnapshotHeaders(r.Header),
	}
}

// SnapshotHeaders flattens h, joining repeated values with ", ".
func SnapshotHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		key := http.CanonicalHeaderKey(k)
		if _, skip := sensitiveHeaders[key]; skip {
			continue
		}
		out[key] = strings.Join(v, ", ")
	}
	return out
}
