package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/zfogg/inkwell/backend/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	spanKey      = "telemetry:span"
	startTimeKey = "telemetry:start"
	maxStatement = 500
)

// GORMPlugin returns a gorm plugin that opens a span per statement and
// records query latency in Prometheus.
func GORMPlugin(system string) gorm.Plugin {
	return &gormPlugin{tracer: otel.Tracer("gorm"), system: system}
}

type gormPlugin struct {
	tracer trace.Tracer
	system string
}

func (p *gormPlugin) Name() string {
	return "telemetry:gorm"
}

func (p *gormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{"SELECT", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"INSERT", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"UPDATE", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"DELETE", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"RAW", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
		{"ROW", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
	}

	for _, h := range hooks {
		op := h.operation
		name := strings.ToLower(op)
		if err := h.before("telemetry:before_"+name, func(tx *gorm.DB) { p.start(tx, op) }); err != nil {
			return fmt.Errorf("register before_%s: %w", name, err)
		}
		if err := h.after("telemetry:after_"+name, func(tx *gorm.DB) { p.finish(tx, op) }); err != nil {
			return fmt.Errorf("register after_%s: %w", name, err)
		}
	}
	return nil
}

func (p *gormPlugin) start(db *gorm.DB, operation string) {
	db.InstanceSet(startTimeKey, time.Now())

	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	_, span := p.tracer.Start(ctx, "db."+strings.ToLower(operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", p.system),
			attribute.String("db.operation", operation),
		),
	)
	db.InstanceSet(spanKey, span)
}

func (p *gormPlugin) finish(db *gorm.DB, operation string) {
	table := db.Statement.Table
	if table == "" {
		table = "unknown"
	}

	err := db.Error
	if err == gorm.ErrRecordNotFound {
		err = nil
	}

	if raw, ok := db.InstanceGet(startTimeKey); ok {
		if started, ok := raw.(time.Time); ok {
			metrics.RecordDatabaseQuery(operation, table, time.Since(started), err)
		}
	}

	raw, ok := db.InstanceGet(spanKey)
	if !ok {
		return
	}
	span, ok := raw.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	span.SetAttributes(attribute.String("db.sql.table", table))
	if sql := db.Statement.SQL.String(); sql != "" {
		if len(sql) > maxStatement {
			sql = sql[:maxStatement] + "... (truncated)"
		}
		span.SetAttributes(attribute.String("db.statement", sql))
	}
	if db.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
