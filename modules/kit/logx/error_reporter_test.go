package logx

import (
	"context"
	"errors"
	"testing"

	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("db down")
	e := errx.NewSys("SYS_INTERNAL", "服务器内部错误").
		WithData("method", "ClaimDue").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("期望 meta.Error 非空")
	}
	if meta.Code == "" {
		t.Fatalf("期望 meta.Code 非空")
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["method"] != "ClaimDue" {
		t.Fatalf("期望 meta.Data 包含 method=ClaimDue, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空（错误发生/转换处栈） origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportSysError_输出ERROR并带trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	err := errx.ErrUnavailable.WithCause(errors.New("conn refused"))
	ReportSysErrorWithLoggerContext(ctx, l, NewSysLog("arrival resolve", err))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望输出 1 条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("期望 ERROR 级别，got=%v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["err_type"] != "sys" || fields["trace_id"] != "trace-1" {
		t.Fatalf("期望带 err_type=sys 与 trace_id，got=%v", fields)
	}
}

func TestReportBiz_输出INFO不带栈(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportBizWithLoggerContext(context.Background(), l, NewBizLog("launch attack", "TRAVEL_EMPTY_ARMY", "未选择任何兵种"))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望 1 条 INFO 日志，got=%v", entries)
	}
	if _, ok := entries[0].ContextMap()["stack_origin"]; ok {
		t.Fatalf("期望业务拒绝日志不带栈")
	}
}

func TestReportSysError_可容忍错误码降级为WARN(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	lost := errx.NewSys("TRAVEL_CLAIM_LOST", "认领已失效").WithCause(errors.New("0 rows affected"))
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("arrival resolve", lost).Tolerate("TRAVEL_CLAIM_LOST"))
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("arrival resolve", errx.ErrUnavailable.WithCause(errors.New("db down"))).Tolerate("TRAVEL_CLAIM_LOST"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("期望认领失效为 WARN，got=%v", entries[0].Level)
	}
	if _, ok := entries[0].ContextMap()["stack_origin"]; ok {
		t.Fatalf("期望可容忍错误不带栈")
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("期望其他系统错误仍为 ERROR，got=%v", entries[1].Level)
	}
}

func TestBuildErrorLog_普通错误与业务错误(t *testing.T) {
	if got := BuildErrorLog(errors.New("plain")); got.Kind != "plain" || got.Code != "" {
		t.Fatalf("期望普通错误 kind=plain，got=%+v", got)
	}
	biz := errx.NewBiz("TRAVEL_EMPTY_ARMY", "").WithData("reason", "TRAVEL_EMPTY_ARMY")
	got := BuildErrorLog(biz)
	if got.Kind != "biz" || got.Reason != "TRAVEL_EMPTY_ARMY" || got.Stack != "" {
		t.Fatalf("期望业务错误带 reason 且无栈，got=%+v", got)
	}
}

func TestZapLogger_With与WithContext叠加字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).With(zap.String("component", "scheduler"))

	ctx := tracex.WithSpanID(tracex.WithTraceID(context.Background(), "t-1"), "arrival_tick")
	l.WithContext(ctx).Info("tick")
	l.WithContext(context.Background()).Info("no trace")

	entries := logs.All()
	first := entries[0].ContextMap()
	if first["component"] != "scheduler" || first["trace_id"] != "t-1" || first["span_id"] != "arrival_tick" {
		t.Fatalf("期望带 component 与 trace/span，got=%v", first)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("期望无 trace 的 ctx 不附加 trace_id")
	}
}

func TestReportAccess_业务码分级(t *testing.T) {
	cases := []struct {
		code int
		want zapcore.Level
	}{
		{0, zapcore.InfoLevel},
		{400, zapcore.WarnLevel},
		{500, zapcore.ErrorLevel},
		{503, zapcore.ErrorLevel},
		{1003, zapcore.WarnLevel},
		{1005, zapcore.WarnLevel},
		{1102, zapcore.WarnLevel},
	}
	for _, tc := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		ReportAccessWithLoggerContext(context.Background(), NewZapLogger(zap.New(core)), "POST /travel/attacks", tc.code)
		if got := logs.All(); len(got) != 1 || got[0].Level != tc.want {
			t.Fatalf("期望 biz_code=%d 为 %v，got=%v", tc.code, tc.want, got)
		}
	}
}
