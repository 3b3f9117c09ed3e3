package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"vocalis/config"
	"vocalis/internal/core"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Trace 追蹤未啟用時 TracerProvider 為 nil，所有方法退化成 noop，
// 呼叫端不需要判斷開關。
type Trace struct {
	TracerProvider *sdktrace.TracerProvider
	ServiceName    string
}

func NewTrace(conf *config.Configuration) (*Trace, error) {
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return &Trace{}, nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second, // 超過就丟棄該批
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.App.Name),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Trace{TracerProvider: tp, ServiceName: conf.App.Name}, nil
}

func (t *Trace) tracer() trace.Tracer {
	if t.TracerProvider == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return t.TracerProvider.Tracer(t.ServiceName)
}

func (t *Trace) StartSpanForLayer(
	ctx context.Context,
	spanName core.TraceSpanName,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	return t.tracer().Start(ctx, string(spanName), opts...)
}

// StartSpanFromGinAuto handler 層用：從 gin context 取父 span，
// 預設以 handler 方法名命名，把新 ctx 存回 gin 供下游接力。
func (t *Trace) StartSpanFromGinAuto(c *gin.Context, name ...string) (context.Context, trace.Span) {
	n := spanNameFromGin(c)
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		n = name[0]
	}
	ctx := t.GetTraceContext(c)
	ctx, span := t.StartSpanForLayer(ctx, core.TraceSpanName(n))
	c.Set(core.ContextTraceKey, ctx)
	return ctx, span
}

// StartSpanAuto service/repository 層用：以呼叫者方法名命名
func (t *Trace) StartSpanAuto(ctx context.Context, name ...string) (context.Context, trace.Span) {
	n := simplifyFuncName(runtimeCaller(4))
	if n == "" {
		n = "unknown"
	}
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		n = name[0]
	}
	return t.StartSpanForLayer(ctx, core.TraceSpanName(n))
}

// startSpanAny 同一入口吃 *gin.Context（handler）或 context.Context（service）
func (t *Trace) startSpanAny(parent interface{}, name ...string) (context.Context, trace.Span) {
	switch p := parent.(type) {
	case *gin.Context:
		return t.StartSpanFromGinAuto(p, name...)
	case context.Context:
		return t.StartSpanAuto(p, name...)
	default:
		n := "unknown"
		if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
			n = name[0]
		}
		return t.StartSpanForLayer(context.Background(), core.TraceSpanName(n))
	}
}

// WithSpan 開 span 並回傳收尾 closure；defer end(err) 可同時記錯誤與結束
func (t *Trace) WithSpan(parent interface{}, name ...string) (context.Context, trace.Span, func(error)) {
	ctx, span := t.startSpanAny(parent, name...)
	return ctx, span, func(err error) { t.EndSpan(span, err) }
}

func (t *Trace) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetTraceContext 取 middleware 鏈上最新的 trace ctx
func (t *Trace) GetTraceContext(c *gin.Context) context.Context {
	if ctx, ok := c.Get(core.ContextTraceKey); ok {
		return ctx.(context.Context)
	}
	return c.Request.Context()
}

// ApplyTraceAttributes 讀 struct 的 `trace:"..."` tag，把欄位值掛成 span 屬性。
// 巢狀 struct / 非 nil 指標遞迴展開；string-key map 展開成 tag.key。
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj interface{}) {
	if span == nil || obj == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("ApplyTraceAttributes panic: %v", r))
		}
	}()

	val := reflect.ValueOf(obj)
	typ := reflect.TypeOf(obj)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}

	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("trace")
		if tag == "" {
			continue
		}
		fieldVal := val.Field(i)
		if !fieldVal.IsValid() || !fieldVal.CanInterface() {
			continue
		}
		t.applyFieldAttribute(span, tag, fieldVal)
	}
}

func (t *Trace) applyFieldAttribute(span trace.Span, tag string, fieldVal reflect.Value) {
	switch fieldVal.Kind() {
	case reflect.String:
		span.SetAttributes(attribute.String(tag, fieldVal.String()))
	case reflect.Bool:
		span.SetAttributes(attribute.Bool(tag, fieldVal.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		span.SetAttributes(attribute.Int64(tag, fieldVal.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		span.SetAttributes(attribute.Int64(tag, int64(fieldVal.Uint())))
	case reflect.Float32, reflect.Float64:
		span.SetAttributes(attribute.Float64(tag, fieldVal.Float()))
	case reflect.Slice, reflect.Array:
		if fieldVal.Type().Elem().Kind() == reflect.String {
			strs := make([]string, 0, fieldVal.Len())
			for j := 0; j < fieldVal.Len(); j++ {
				strs = append(strs, fieldVal.Index(j).String())
			}
			span.SetAttributes(attribute.StringSlice(tag, strs))
		}
	case reflect.Struct:
		t.ApplyTraceAttributes(span, fieldVal.Interface())
	case reflect.Ptr:
		if !fieldVal.IsNil() {
			t.ApplyTraceAttributes(span, fieldVal.Interface())
		}
	case reflect.Map:
		if fieldVal.Type().Key().Kind() != reflect.String {
			return
		}
		for _, key := range fieldVal.MapKeys() {
			mapKey := tag + "." + key.String()
			mapVal := fieldVal.MapIndex(key)
			switch mapVal.Kind() {
			case reflect.String:
				span.SetAttributes(attribute.String(mapKey, mapVal.String()))
			case reflect.Int, reflect.Int64:
				span.SetAttributes(attribute.Int64(mapKey, mapVal.Int()))
			case reflect.Float64, reflect.Float32:
				span.SetAttributes(attribute.Float64(mapKey, mapVal.Float()))
			case reflect.Bool:
				span.SetAttributes(attribute.Bool(mapKey, mapVal.Bool()))
			}
		}
	}
}

// ==== span 命名 ====

// simplifyFuncName 把 runtime 的完整函式名縮成 "Type.Method"
func simplifyFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	// 編譯器附加的 method value / closure 後綴
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, ".func"); i >= 0 {
		full = full[:i]
	}
	if i := strings.Index(full, "·"); i >= 0 {
		full = full[:i]
	}
	// 去掉 package 前綴
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	full = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
	// 泛型型參不進 span 名
	if i := strings.Index(full, "["); i >= 0 {
		if j := strings.Index(full, "]"); j > i {
			full = full[:i] + full[j+1:]
		}
	}
	return full
}

func spanNameFromGin(c *gin.Context) string {
	if hn := c.HandlerName(); hn != "" {
		return simplifyFuncName(hn)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func runtimeCaller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return ""
}
