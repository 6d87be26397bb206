package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，由接口层映射为客户端业务码。
	ReasonSettlementNotFound   = NewReason("TRAVEL_SETTLEMENT_NOT_FOUND", "城池不存在")
	ReasonNotOwner             = NewReason("TRAVEL_NOT_OWNER", "不是该城池的主人")
	ReasonSelfTarget           = NewReason("TRAVEL_SELF_TARGET", "不能以自己的城池为目标")
	ReasonEmptyArmy            = NewReason("TRAVEL_EMPTY_ARMY", "未选择任何兵种")
	ReasonNegativeAmount       = NewReason("TRAVEL_NEGATIVE_AMOUNT", "数量不能为负")
	ReasonInsufficientUnits    = NewReason("TRAVEL_INSUFFICIENT_UNITS", "驻军数量不足")
	ReasonEmptyCargo           = NewReason("TRAVEL_EMPTY_CARGO", "未选择任何资源")
	ReasonInsufficientResource = NewReason("TRAVEL_INSUFFICIENT_RESOURCE", "资源不足")
	ReasonOfferNotFound        = NewReason("TRAVEL_OFFER_NOT_FOUND", "挂单不存在")
	ReasonOfferNotOpen         = NewReason("TRAVEL_OFFER_NOT_OPEN", "挂单已成交或已撤销")
	ReasonOwnOffer             = NewReason("TRAVEL_OWN_OFFER", "不能接受自己的挂单")
	ReasonEmptyOffer           = NewReason("TRAVEL_EMPTY_OFFER", "挂单的出售和求购资源都不能为空")
	ReasonArmyNotFound         = NewReason("TRAVEL_ARMY_NOT_FOUND", "行军不存在")
	ReasonInvalidDirection     = NewReason("TRAVEL_INVALID_DIRECTION", "direction 只能是 outgoing 或 incoming")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonDirectoryUnavailable = NewReason("SETTLEMENT_DIRECTORY_UNAVAILABLE", "城池目录不可用")
	ReasonLedgerUnavailable    = NewReason("TRAVEL_LEDGER_UNAVAILABLE", "行军账本不可用")
	ReasonClaimFail            = NewReason("TRAVEL_CLAIM_FAIL", "认领到期条目失败")
	ReasonResolveFail          = NewReason("TRAVEL_RESOLVE_FAIL", "到达结算失败")
	ReasonReleaseFail          = NewReason("TRAVEL_RELEASE_FAIL", "释放认领失败")
	ReasonHistoryWriteFail     = NewReason("TRAVEL_HISTORY_WRITE_FAIL", "结算记录写入失败")
	ReasonHistoryReadFail      = NewReason("TRAVEL_HISTORY_READ_FAIL", "结算记录读取失败")
	ReasonUnitCatalog          = NewReason("TRAVEL_UNIT_CATALOG", "兵种配置缺失")
)
