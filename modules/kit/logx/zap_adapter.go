package logx

import (
	"context"

	"BrowserGame/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 *zap.Logger 适配为 Logger；nil 接收者与 nil logger 都按 Nop 处理。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) base() *zap.Logger {
	if z == nil || z.logger == nil {
		return zap.NewNop()
	}
	return z.logger
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.base().With(fields...)}
}

// WithContext 附加 ctx 中的 trace_id/span_id；都没有时返回自身，避免多余的 With 分配。
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}
	fields := make([]zap.Field, 0, 2)
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	return z.With(fields...)
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.base().Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.base().Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.base().Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.base().Warn(msg, fields...) }

// Sync 刷新底层 core 的缓冲，进程退出前调用。
func (z *ZapLogger) Sync() error {
	return z.base().Sync()
}
