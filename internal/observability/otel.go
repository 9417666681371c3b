package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation scope shared by every span and metric the gateway
// emits. The global providers are no-ops until an SDK is installed, so
// these calls are safe in any configuration (tests included).
const scopeName = "clickupmcp/server"

var (
	tracerOnce sync.Once
	tracer     trace.Tracer

	meterOnce        sync.Once
	toolCallCounter  metric.Int64Counter
	toolCallDuration metric.Int64Histogram
)

// Tracer returns the gateway's tracer.
func Tracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer(scopeName)
	})
	return tracer
}

func initMeter() {
	meterOnce.Do(func() {
		m := otel.Meter(scopeName)
		toolCallCounter, _ = m.Int64Counter("mcp.tool.calls",
			metric.WithDescription("Completed tool executions by module, tool and status"))
		toolCallDuration, _ = m.Int64Histogram("mcp.tool.duration",
			metric.WithDescription("Tool execution wall time"),
			metric.WithUnit("ms"))
	})
}

// RecordToolCall records one finished tool execution.
func RecordToolCall(ctx context.Context, module, tool, status string, durationMs int64) {
	initMeter()
	attrs := metric.WithAttributes(
		attribute.String("mcp.module", module),
		attribute.String("mcp.tool", tool),
		attribute.String("mcp.status", status),
	)
	toolCallCounter.Add(ctx, 1, attrs)
	toolCallDuration.Record(ctx, durationMs, attrs)
}
