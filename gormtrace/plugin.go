package gormtrace

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/tracing"
)

const (
	pluginName = "reqscope:gormtrace"
	spanKey    = pluginName + ":span"
	startKey   = pluginName + ":start"
)

// Logger is the logging API the plugin reports failed statements through.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Plugin is a gorm.Plugin that records every statement as a "db" child span
// of the span active on the statement context.
type Plugin struct {
	system   string
	logger   Logger
	observer observability.Observer
}

type Option func(*Plugin)

// WithSystem sets the db.system tag. Defaults to "postgresql".
func WithSystem(system string) Option {
	return func(p *Plugin) { p.system = system }
}

func WithLogger(l Logger) Option {
	return func(p *Plugin) { p.logger = l }
}

func WithObserver(o observability.Observer) Option {
	return func(p *Plugin) { p.observer = o }
}

func New(opts ...Option) *Plugin {
	p := &Plugin{system: "postgresql"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Install registers a new plugin on db.
func Install(db *gorm.DB, opts ...Option) error {
	return db.Use(New(opts...))
}

func (p *Plugin) Name() string {
	return pluginName
}

// Initialize registers the before/after callbacks around gorm's built-in
// create, query, update, delete, row and raw callbacks.
func (p *Plugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register(pluginName+":before_create", p.before("create")),
		cb.Create().After("gorm:create").Register(pluginName+":after_create", p.after("create")),
		cb.Query().Before("gorm:query").Register(pluginName+":before_query", p.before("query")),
		cb.Query().After("gorm:query").Register(pluginName+":after_query", p.after("query")),
		cb.Update().Before("gorm:update").Register(pluginName+":before_update", p.before("update")),
		cb.Update().After("gorm:update").Register(pluginName+":after_update", p.after("update")),
		cb.Delete().Before("gorm:delete").Register(pluginName+":before_delete", p.before("delete")),
		cb.Delete().After("gorm:delete").Register(pluginName+":after_delete", p.after("delete")),
		cb.Row().Before("gorm:row").Register(pluginName+":before_row", p.before("row")),
		cb.Row().After("gorm:row").Register(pluginName+":after_row", p.after("row")),
		cb.Raw().Before("gorm:raw").Register(pluginName+":before_raw", p.before("raw")),
		cb.Raw().After("gorm:raw").Register(pluginName+":after_raw", p.after("raw")),
	)
}

func (p *Plugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(startKey, time.Now())

		parent := parentSpan(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild("db",
			tracing.WithTag("db.system", p.system),
			tracing.WithTag("db.operation", op),
		)
		db.InstanceSet(spanKey, span)
	}
}

func (p *Plugin) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		stmt := db.Statement
		sql := stmt.SQL.String()
		table := stmt.Table
		err := db.Error
		notFound := errors.Is(err, gorm.ErrRecordNotFound)

		var duration time.Duration
		if v, ok := db.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				duration = time.Since(start)
			}
		}

		if v, ok := db.InstanceGet(spanKey); ok {
			if span, ok := v.(*tracing.Span); ok {
				span.SetDescription(sql)
				span.SetData("db.table", table)
				span.SetData("db.rows_affected", db.RowsAffected)
				switch {
				case notFound:
					span.SetStatus(tracing.StatusNotFound)
				case err != nil:
					span.SetStatus(tracing.StatusInternalError)
					span.SetData("error", err.Error())
				}
				span.Finish()
			}
		}

		if err != nil && !notFound && p.logger != nil {
			p.logger.WarnWithContext(stmt.Context, "database statement failed", err, map[string]interface{}{
				"operation": op,
				"table":     table,
			})
		}
		p.observe(op, table, duration, err, db.RowsAffected, sql)
	}
}

// parentSpan prefers the span on ctx and falls back to the request scope's.
func parentSpan(ctx context.Context) *tracing.Span {
	if ctx == nil {
		return nil
	}
	if span := tracing.SpanFromContext(ctx); span != nil {
		return span
	}
	if !hub.HasHubOnContext(ctx) {
		return nil
	}
	return hub.FromContext(ctx).Scope().Span()
}

func (p *Plugin) observe(op, table string, duration time.Duration, err error, rows int64, sql string) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "gorm",
		Operation: op,
		Resource:  table,
		Duration:  duration,
		Error:     err,
		Size:      rows,
		Metadata:  map[string]interface{}{"sql": sql},
	})
}
