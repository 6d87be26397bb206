// Package tracex 在 context 里传递 trace_id / span_id。
// trace_id 贯穿一次请求或一次 tick；span_id 标记当前所在的处理环节。
package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

type key uint8

const (
	traceKey key = iota
	spanKey
)

// WithTraceID 空串不写入，避免覆盖上游已有的值。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return lookup(ctx, traceKey)
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	if spanID == "" {
		return ctx
	}
	return context.WithValue(ctx, spanKey, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return lookup(ctx, spanKey)
}

// NewTraceID 生成 32 位 hex；随机源不可用时退化为纳秒时间戳。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b[:])
}

// Ensure 缺 trace_id 时补一个，并把 span_id 设为 spanID。
// 请求入口与后台 tick 入口都调用。
func Ensure(ctx context.Context, spanID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := TraceIDFrom(ctx); !ok {
		ctx = WithTraceID(ctx, NewTraceID())
	}
	return WithSpanID(ctx, spanID)
}

func lookup(ctx context.Context, k key) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, _ := ctx.Value(k).(string)
	return s, s != ""
}
