package handler

import (
	"context"
	"errors"

	"BrowserGame/internal/shared/transport"
	"BrowserGame/internal/travel/actors"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"
)

const (
	busyMessage   = "系统繁忙，请稍后重试"
	rejectMessage = "请求被拒绝"
)

var bizReasonCodes = map[string]int{
	app.ReasonSettlementNotFound.Code:   transport.SettlementNotFound,
	app.ReasonNotOwner.Code:             transport.NotSettlementOwner,
	app.ReasonSelfTarget.Code:           transport.SelfTarget,
	app.ReasonEmptyArmy.Code:            transport.EmptyArmy,
	app.ReasonNegativeAmount.Code:       transport.InvalidParam,
	app.ReasonInsufficientUnits.Code:    transport.InsufficientUnits,
	app.ReasonEmptyCargo.Code:           transport.EmptyCargo,
	app.ReasonInsufficientResource.Code: transport.InsufficientResource,
	app.ReasonOfferNotFound.Code:        transport.OfferNotFound,
	app.ReasonOfferNotOpen.Code:         transport.OfferNotOpen,
	app.ReasonOwnOffer.Code:             transport.OwnOffer,
	app.ReasonEmptyOffer.Code:           transport.EmptyOffer,
	app.ReasonArmyNotFound.Code:         transport.NotFound,
	app.ReasonInvalidDirection.Code:     transport.InvalidParam,
}

func mapBizReasonToClientCode(err error, reason string) int {
	if code, ok := bizReasonCodes[reason]; ok {
		return code
	}
	switch {
	case errors.Is(err, domain.ErrSettlementNotFound):
		return transport.SettlementNotFound
	case errors.Is(err, domain.ErrOfferNotFound):
		return transport.OfferNotFound
	case errors.Is(err, domain.ErrOfferNotOpen):
		return transport.OfferNotOpen
	case errors.Is(err, app.ErrNotFound), errors.Is(err, domain.ErrArmyNotFound):
		return transport.NotFound
	case errors.Is(err, app.ErrStateConflict):
		return transport.Conflict
	default:
		return transport.InvalidParam
	}
}

func mapTechErrToClientCode(err error) int {
	var re *actors.RuntimeError
	if errors.As(err, &re) {
		return actors.CodeFromError(err)
	}
	if errx.Retryable(err) {
		return transport.Unavailable
	}
	return transport.SystemError
}

// HandleError 每个请求只调用一次：业务拒绝记 INFO 并返回 reason 文案，技术错误记 ERROR 并返回统一文案。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string) {
	reason := app.GetErrorReasonCode(err)
	transport.SetErrorReason(ctx, reason)

	if errx.IsBizError(err) {
		var e *errx.Error
		errors.As(err, &e)
		msg := e.Msg()
		if msg == "" {
			msg = rejectMessage
		}
		logx.ReportBizWithLoggerContext(ctx, log, logx.NewBizLog(action, reason, msg))
		return mapBizReasonToClientCode(err, reason), msg
	}

	logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog(action, err))
	return mapTechErrToClientCode(err), busyMessage
}
