package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const (
	maxCauseDepth  = 16
	maxStackFrames = 24
)

// semanticError 与 errx.Error 的导出方法对齐；这里只依赖方法集，不引入 errx。
type semanticError interface {
	CodeText() string
	Msg() string
	Data() map[string]any
	Reason() string
	Stack() []uintptr
	IsBiz() bool
}

// ErrorLog 是错误在日志里的展开形态。
type ErrorLog struct {
	Error      string
	Kind       string // biz | sys | plain
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 取错误链上第一个带语义的错误展开码、原因、上下文和首次捕获的栈。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error(), Kind: "plain"}

	var se semanticError
	if errors.As(err, &se) {
		out.Kind = "sys"
		if se.IsBiz() {
			out.Kind = "biz"
		}
		out.Code = se.CodeText()
		out.Msg = se.Msg()
		out.Reason = se.Reason()
		out.Data = se.Data()
	}
	// 栈可能挂在更深的 cause 上（上层只改写了码或原因）
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if sp, ok := cur.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			out.Origin, out.Stack = formatStack(sp.Stack())
			break
		}
	}
	out.CauseChain = causeChain(err)
	return out
}

func causeChain(err error) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxCauseDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatStack(pcs []uintptr) (origin, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxStackFrames)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, f.Function+" "+f.File+":"+strconv.Itoa(f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
