package observability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aalemi-dev/reqscope/observability"
)

type recordingObserver struct {
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.ops = append(r.ops, ctx)
}

func TestNoOpObserver(t *testing.T) {
	t.Parallel()
	observer := observability.NewNoOpObserver()

	assert.NotPanics(t, func() {
		observer.ObserveOperation(observability.OperationContext{Component: "instrument", Operation: "finalize"})
	})
}

func TestObserverFunc(t *testing.T) {
	t.Parallel()
	var got observability.OperationContext
	observer := observability.ObserverFunc(func(ctx observability.OperationContext) { got = ctx })

	observer.ObserveOperation(observability.OperationContext{
		Component: "instrument",
		Operation: "flush",
		Resource:  "GET /users/[id]",
		Duration:  15 * time.Millisecond,
	})

	assert.Equal(t, "flush", got.Operation)
	assert.Equal(t, "GET /users/[id]", got.Resource)
}

func TestMulti(t *testing.T) {
	t.Parallel()
	a, b := &recordingObserver{}, &recordingObserver{}
	observer := observability.Multi(a, nil, b)

	observer.ObserveOperation(observability.OperationContext{
		Component: "transport",
		Operation: "deliver",
		Error:     errors.New("refused"),
		Size:      3,
	})

	assert.Len(t, a.ops, 1)
	assert.Len(t, b.ops, 1)
	assert.EqualError(t, b.ops[0].Error, "refused")
	assert.Equal(t, int64(3), a.ops[0].Size)
}

func TestMulti_Degenerate(t *testing.T) {
	t.Parallel()
	a := &recordingObserver{}

	assert.Nil(t, observability.Multi())
	assert.Nil(t, observability.Multi(nil, nil))
	assert.Same(t, a, observability.Multi(nil, a))
}
