package transport

import (
	"context"
	"sync"
	"time"

	"BrowserGame/modules/kit/logx"
	"BrowserGame/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文，HTTP 中间件与 gRPC 拦截器创建，请求结束时输出一条。
type AccessLog struct {
	mu          sync.Mutex
	BizCode     BizCode
	ErrorReason string
	fields      []zap.Field
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 以 background 为父 context 创建，测试与后台入口使用。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留父 context 的取消信号与已有 trace_id。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent, "travel")
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.BizCode = code
		al.mu.Unlock()
	}
}

// SetErrorReason 失败场景记录 reason，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.ErrorReason = reason
		al.mu.Unlock()
	}
}

// AddField 给本次请求的 access 日志追加字段，例如新建的 army_id。
func AddField(ctx context.Context, fields ...zap.Field) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.fields = append(al.fields, fields...)
		al.mu.Unlock()
	}
}

// WriteAccessLog 在请求结束时调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger, extra ...zap.Field) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	al.mu.Lock()
	code, reason := al.BizCode, al.ErrorReason
	fields := append([]zap.Field{zap.Duration("latency", time.Since(al.startTime))}, al.fields...)
	al.mu.Unlock()

	fields = append(fields, extra...)
	if code == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if reason != "" {
			fields = append(fields, zap.String("error_reason", reason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(code), fields...)
}
