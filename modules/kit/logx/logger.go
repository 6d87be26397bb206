package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨服务可复用的最小日志接口：结构化字段 + ctx 透传（trace/span）。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	// With 返回带固定字段的子 Logger，例如 component=scheduler。
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

type nopLogger struct{}

// NewNop 返回丢弃全部输出的 Logger，测试与未注入日志时使用。
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Info(msg string, fields ...zap.Field)   {}
func (nopLogger) Error(msg string, fields ...zap.Field)  {}
func (nopLogger) Debug(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)   {}
func (nopLogger) With(fields ...zap.Field) Logger        { return nopLogger{} }
func (nopLogger) WithContext(ctx context.Context) Logger { return nopLogger{} }
