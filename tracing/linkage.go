package tracing

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultTraceHeader is the request header carrying upstream trace linkage.
const DefaultTraceHeader = "sentry-trace"

var traceHeaderPattern = regexp.MustCompile(`^[ \t]*([0-9a-fA-F]+)-([0-9a-fA-F]+)(?:-([01]))?[ \t]*$`)

// TraceLinkage connects a new transaction to the caller's trace.
type TraceLinkage struct {
	TraceID      string
	ParentSpanID string
	// Sampled is nil when the upstream left the decision open.
	Sampled *bool
}

// ExtractTraceData parses a traceId-spanId-sampled header value. It returns
// nil for an empty or malformed value; it never fails.
func ExtractTraceData(header string) *TraceLinkage {
	m := traceHeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return nil
	}

	l := &TraceLinkage{
		TraceID:      strings.ToLower(m[1]),
		ParentSpanID: strings.ToLower(m[2]),
	}
	switch m[3] {
	case "1":
		v := true
		l.Sampled = &v
	case "0":
		v := false
		l.Sampled = &v
	}
	return l
}

func newTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func newSpanID() string {
	return newTraceID()[:16]
}
