package errx

import "errors"

// CodeOf 沿 cause 链取第一个 *Error 的错误码，取不到返回空串。
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code()
}

// IsBizError 判断错误链上第一个 *Error 是否为业务拒绝。
func IsBizError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsBiz()
}

// ReasonOf 取错误链上第一个带 reason 的错误的 reason。
func ReasonOf(err error) string {
	for i := 0; i < maxChainDepth && err != nil; i++ {
		if e, ok := err.(*Error); ok && e.Reason() != "" {
			return e.Reason()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// Retryable 依赖不可用、超时与并发冲突属于稍后重试可能成功的错误。
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeUnavailable, CodeTimeout, CodeConflict:
		return true
	}
	return false
}
