package instrument

import (
	"net/url"
	"sort"
	"strings"
)

// StripQueryAndFragment cuts everything from the first '?' or '#'.
func StripQueryAndFragment(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// PathTemplate replaces every path segment equal to a route parameter value
// with "[name]". Parameters are tried in sorted name order, so the result is
// deterministic when two parameters share a value.
func PathTemplate(path string, params map[string]string) string {
	path = StripQueryAndFragment(path)
	if len(params) == 0 {
		return path
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			decoded = seg
		}
		for _, name := range names {
			if v := params[name]; v == seg || v == decoded {
				segments[i] = "[" + name + "]"
				break
			}
		}
	}
	return strings.Join(segments, "/")
}

// TransactionName is the uppercased method, GET when empty, and the path
// template, e.g. "GET /users/[id]".
func TransactionName(method, path string, params map[string]string) string {
	method = strings.ToUpper(method)
	if method == "" {
		method = "GET"
	}
	tmpl := PathTemplate(path, params)
	if tmpl == "" {
		tmpl = "/"
	}
	return method + " " + tmpl
}
