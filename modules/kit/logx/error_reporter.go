package logx

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// BizLog 是业务拒绝日志的强类型输入，避免参数顺序误传。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 是技术错误日志的强类型输入。
type SysLog struct {
	Action string
	Err    error
	// tolerated 中的错误码按 WARN 输出且不带栈，用于并发认领竞争这类可预期的失败。
	tolerated []string
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// Tolerate 返回追加了可容忍错误码的副本。
func (s SysLog) Tolerate(codes ...string) SysLog {
	s.tolerated = append(slices.Clone(s.tolerated), codes...)
	return s
}

// ReportAccessWithLoggerContext 记录访问日志：biz_code 0 为 INFO，500~599 为 ERROR，其余（含 1xxx 业务拒绝码）为 WARN。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	log := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		log.Info("access", base...)
	case bizCode >= 500 && bizCode < 600:
		log.Error("access", base...)
	default:
		log.Warn("access", base...)
	}
}

// ReportBizWithLoggerContext 记录业务拒绝：INFO、err_type=biz、不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	l.WithContext(ctx).Info(joinMsg(action, "reason", biz.Reason, "msg", biz.Message), append(base, fields...)...)
}

// ReportSysErrorWithLoggerContext 记录技术错误：默认 ERROR 并附带首次捕获的栈，
// 错误码命中 SysLog.Tolerate 时降为 WARN。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)
	tolerated := meta.Code != "" && slices.Contains(sys.tolerated, meta.Code)

	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if meta.Reason != "" {
		base = append(base, zap.String("reason", meta.Reason))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if !tolerated && meta.Stack != "" {
		base = append(base, zap.String("origin_caller", meta.Origin), zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	msg := joinMsg(action, "reason", meta.Reason, "error", meta.Error)
	if tolerated {
		l.WithContext(ctx).Warn(msg, base...)
		return
	}
	l.WithContext(ctx).Error(msg, base...)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// joinMsg 拼出 "action, k1:v1, k2:v2"，空值跳过。
func joinMsg(action string, kv ...string) string {
	var b strings.Builder
	b.WriteString(action)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(kv[i])
		b.WriteString(":")
		b.WriteString(kv[i+1])
	}
	return b.String()
}
