package instrument

import (
	"io"
	"net/http"
	"sync"

	"github.com/felixge/httpsnoop"
)

// ResponseHook is a platform's end-of-response signal. StatusCode returns the
// status written so far, or 0 if nothing was written. Callbacks registered
// with OnResponseComplete run once, when the response is done.
type ResponseHook interface {
	StatusCode() int
	OnResponseComplete(fn func())
}

// responseHook snoops a net/http ResponseWriter. It completes when the
// wrapped handler returns.
type responseHook struct {
	mu        sync.Mutex
	status    int
	callbacks []func()
	completed bool

	writer http.ResponseWriter
}

func newResponseHook(rw http.ResponseWriter) *responseHook {
	h := &responseHook{}
	h.writer = httpsnoop.Wrap(rw, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				h.record(code)
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				h.record(http.StatusOK)
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				h.record(http.StatusOK)
				return next(src)
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				h.record(http.StatusOK)
				next()
			}
		},
	})
	return h
}

// record keeps the first final status. Informational 1xx headers other than
// 101 Switching Protocols are followed by a real status and are skipped.
func (h *responseHook) record(code int) {
	if code < 200 && code != http.StatusSwitchingProtocols {
		return
	}
	h.mu.Lock()
	if h.status == 0 {
		h.status = code
	}
	h.mu.Unlock()
}

func (h *responseHook) StatusCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *responseHook) OnResponseComplete(fn func()) {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		fn()
		return
	}
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

func (h *responseHook) complete() {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		return
	}
	h.completed = true
	callbacks := h.callbacks
	h.callbacks = nil
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
