package instrument

import (
	"errors"
	"fmt"
)

var (
	// ErrNilHandler is the panic value of Wrap and WrapFunc given nil.
	ErrNilHandler = errors.New("instrument: nil handler")

	// ErrFlushTimeout is logged when the telemetry flush misses its deadline.
	ErrFlushTimeout = errors.New("telemetry flush timed out")
)

// PanicError carries a recovered panic value that is not an error.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsError converts a recovered panic value into the error to capture.
func AsError(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &PanicError{Value: v}
}
