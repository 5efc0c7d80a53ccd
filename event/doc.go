// Package event defines the telemetry event submitted by the client: error
// and message events captured while handling a request, and transaction
// events carrying a finished request trace with its child spans.
package event
