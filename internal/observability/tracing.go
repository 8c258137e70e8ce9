// internal/observability/tracing.go

package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName 為追蹤與 otelgin middleware 使用的服務名稱。
const ServiceName = "autoshop"

// ErrUnknownExporter 代表設定了不支援的 trace exporter。
var ErrUnknownExporter = errors.New("unknown trace exporter")

// ShutdownFunc 用於關閉 tracer provider 並送出剩餘 span。
type ShutdownFunc func(context.Context) error

// InitTracer 安裝全域 TracerProvider。
// exporter 為 "none" 時不安裝任何 provider（otel 預設為 no-op），回傳的 ShutdownFunc 不做事。
// exporter 為 "stdout" 時 span 以 pretty print 寫入 w。
func InitTracer(exporter string, w io.Writer) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	var exp sdktrace.SpanExporter
	switch exporter {
	case "none", "":
		return noop, nil
	case "stdout":
		var err error
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, exporter)
	}

	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(ServiceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}
