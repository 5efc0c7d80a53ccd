package event

import (
	"errors"
	"reflect"
)

// maxErrorDepth bounds how far an error chain is unwrapped.
const maxErrorDepth = 10

// ExceptionsFromError converts err and the errors it wraps into exceptions,
// innermost cause first. Joined errors contribute their first branch only.
func ExceptionsFromError(err error) []Exception {
	var chain []Exception
	for i := 0; err != nil && i < maxErrorDepth; i++ {
		chain = append(chain, Exception{
			Type:  typeName(err),
			Value: err.Error(),
		})
		err = unwrap(err)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func unwrap(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return "error"
	}
	return t.String()
}
