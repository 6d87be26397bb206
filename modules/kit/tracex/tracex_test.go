package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsure_保留已有traceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-keep")
	ctx = Ensure(ctx, "arrival")
	if got, _ := TraceIDFrom(ctx); got != "t-keep" {
		t.Fatalf("期望保留已有 trace_id，got=%q", got)
	}
	if got, _ := SpanIDFrom(ctx); got != "arrival" {
		t.Fatalf("期望写入 span_id=arrival，got=%q", got)
	}
}

func TestEnsure_缺失时生成traceID(t *testing.T) {
	ctx := Ensure(context.Background(), "")
	if got, ok := TraceIDFrom(ctx); !ok || len(got) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id，got=%q ok=%v", got, ok)
	}
}

func TestWithTraceID_空串不覆盖(t *testing.T) {
	ctx := WithTraceID(context.Background(), "upstream")
	ctx = WithTraceID(ctx, "")
	if got, _ := TraceIDFrom(ctx); got != "upstream" {
		t.Fatalf("期望空串不覆盖已有 trace_id，got=%q", got)
	}
	if _, ok := SpanIDFrom(ctx); ok {
		t.Fatalf("期望未设置 span_id")
	}
}
