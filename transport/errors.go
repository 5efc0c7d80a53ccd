package transport

import "errors"

var (
	// ErrQueueFull is returned by Send when the event was dropped because the
	// queue is at capacity.
	ErrQueueFull = errors.New("transport queue full")

	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("transport closed")

	ErrInvalidConfig = errors.New("invalid transport config")

	// ErrRejected wraps a non-2xx answer from an ingestion endpoint.
	ErrRejected = errors.New("events rejected by endpoint")
)
