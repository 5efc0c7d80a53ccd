// Package logger provides the zap-based structured logger used by reqscope.
//
// Messages take an optional error and any number of field maps. The
// ...WithContext variants correlate log entries with the request being
// traced: when Config.EnableTracing is set and the context carries the
// request span installed by the instrument package, trace_id, span_id and
// transaction are added. An OpenTelemetry span on the context is used as a
// fallback.
//
//	log.ErrorWithContext(r.Context(), "charge failed", err, map[string]interface{}{
//	    "order_id": id,
//	})
package logger
