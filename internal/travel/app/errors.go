package app

import (
	"errors"

	"BrowserGame/modules/kit/errx"
)

// Code 表示应用层错误码。
type Code = errx.Code

const (
	CodeInvalidRequest Code = "TRAVEL_INVALID_REQUEST"
	CodeNotFound       Code = "TRAVEL_NOT_FOUND"
	CodeForbidden      Code = "TRAVEL_FORBIDDEN"
	CodeInsufficient   Code = "TRAVEL_INSUFFICIENT"
	CodeStateConflict  Code = "TRAVEL_STATE_CONFLICT"
	// CodeInternalServer 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeInternalServer Code = errx.CodeInternal
	// CodeUnavailable 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

// 常用错误定义（哨兵错误）：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrInvalidRequest = errx.NewBiz(CodeInvalidRequest, "请求参数错误")
	ErrNotFound       = errx.NewBiz(CodeNotFound, "目标不存在")
	ErrForbidden      = errx.NewBiz(CodeForbidden, "无权操作")
	ErrInsufficient   = errx.NewBiz(CodeInsufficient, "数量不足")
	ErrStateConflict  = errx.NewBiz(CodeStateConflict, "状态已变化")
	ErrInternalServer = errx.ErrInternal
	ErrUnavailable    = errx.ErrUnavailable
)

// reject 以 reason 的文案派生一个业务拒绝错误。
func reject(base *Error, r Reason) *Error {
	return errx.NewBiz(base.Code(), r.Message).WithReason(r)
}

// unavailable 包装存储层错误：业务错误原样返回，系统错误补上 reason，裸错误包成 ErrUnavailable。
func unavailable(r Reason, err error) error {
	if err == nil {
		return nil
	}
	var e *errx.Error
	if errors.As(err, &e) && e != nil {
		if e.IsBiz() || e.Reason() != "" {
			return err
		}
		return e.WithReason(r)
	}
	return ErrUnavailable.WithReason(r).WithCause(err)
}

// GetErrorReasonCode 取错误链上第一个非空的 reason。
func GetErrorReasonCode(err error) string {
	return errx.ReasonOf(err)
}
