package domain

import "BrowserGame/modules/kit/errx"

// Code 表示领域错误码。
type Code = errx.Code

const (
	CodeSettlementNotFound Code = "TRAVEL_SETTLEMENT_NOT_FOUND"
	CodeArmyNotFound       Code = "TRAVEL_ARMY_NOT_FOUND"
	CodeOfferNotFound      Code = "TRAVEL_OFFER_NOT_FOUND"
	CodeUnknownUnit        Code = "TRAVEL_UNKNOWN_UNIT"
	CodeOfferNotOpen       Code = "TRAVEL_OFFER_NOT_OPEN"
	CodeBattleNotFound     Code = "TRAVEL_BATTLE_NOT_FOUND"
	// CodeNegativeBalance 结算后账本出现负数，数据已损坏，重试也不会成功。
	CodeNegativeBalance Code = "TRAVEL_NEGATIVE_BALANCE"
	// CodeClaimLost 认领令牌已被其他结算进程覆盖，本次结算必须放弃。
	CodeClaimLost Code = "TRAVEL_CLAIM_LOST"
	// CodeSystemUnavailable 复用 kit 的统一系统码。
	CodeSystemUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrSettlementNotFound = errx.NewBiz(CodeSettlementNotFound, "")
	ErrArmyNotFound       = errx.NewBiz(CodeArmyNotFound, "")
	ErrOfferNotFound      = errx.NewBiz(CodeOfferNotFound, "")
	ErrBattleNotFound     = errx.NewBiz(CodeBattleNotFound, "")
	ErrOfferNotOpen       = errx.NewBiz(CodeOfferNotOpen, "")
	ErrUnknownUnit        = errx.NewSys(CodeUnknownUnit, "兵种未配置")
	ErrClaimLost          = errx.NewSys(CodeClaimLost, "认领已失效")
	ErrNegativeBalance    = errx.NewSys(CodeNegativeBalance, "账本余额为负")
	ErrSystemUnavailable  = errx.ErrUnavailable
)
