package tracing

// Status is the outcome of a span.
type Status string

const (
	StatusOK                 Status = "ok"
	StatusCancelled          Status = "cancelled"
	StatusUnknown            Status = "unknown_error"
	StatusInvalidArgument    Status = "invalid_argument"
	StatusDeadlineExceeded   Status = "deadline_exceeded"
	StatusNotFound           Status = "not_found"
	StatusAlreadyExists      Status = "already_exists"
	StatusPermissionDenied   Status = "permission_denied"
	StatusResourceExhausted  Status = "resource_exhausted"
	StatusFailedPrecondition Status = "failed_precondition"
	StatusUnimplemented      Status = "unimplemented"
	StatusInternalError      Status = "internal_error"
	StatusUnavailable        Status = "unavailable"
	StatusUnauthenticated    Status = "unauthenticated"
)

// StatusFromHTTPCode maps an HTTP status code onto a span status.
func StatusFromHTTPCode(code int) Status {
	switch {
	case code >= 100 && code < 400:
		return StatusOK
	case code >= 400 && code < 500:
		switch code {
		case 401:
			return StatusUnauthenticated
		case 403:
			return StatusPermissionDenied
		case 404:
			return StatusNotFound
		case 409:
			return StatusAlreadyExists
		case 413:
			return StatusFailedPrecondition
		case 429:
			return StatusResourceExhausted
		default:
			return StatusInvalidArgument
		}
	case code >= 500 && code < 600:
		switch code {
		case 501:
			return StatusUnimplemented
		case 503:
			return StatusUnavailable
		case 504:
			return StatusDeadlineExceeded
		default:
			return StatusInternalError
		}
	default:
		return StatusUnknown
	}
}

// IsError reports whether s represents a failed operation.
func (s Status) IsError() bool {
	return s != "" && s != StatusOK
}
