package instrument

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

// ParamsFunc returns the route parameters matched for r.
type ParamsFunc func(r *http.Request) map[string]string

// ChiParams reads chi URL parameters. The catch-all "*" is skipped. The
// wrapper must run inside the router, through Router.Use or per route: chi
// keeps its route context on a request it derives itself and recycles it
// after serving, so a wrapper mounted above chi.Mux never sees the
// parameters.
func ChiParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[key] = rctx.URLParams.Values[i]
	}
	return out
}

// MuxParams reads gorilla/mux route variables. Use it with Router.Use or
// per-route wrapping, where the variables are already on the request.
func MuxParams(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// PathValues reads the named wildcards of a net/http ServeMux pattern.
func PathValues(names ...string) ParamsFunc {
	return func(r *http.Request) map[string]string {
		out := make(map[string]string, len(names))
		for _, name := range names {
			if v := r.PathValue(name); v != "" {
				out[name] = v
			}
		}
		return out
	}
}
