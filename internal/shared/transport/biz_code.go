package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 通用业务码：0 成功；500~599 系统错误；其余为业务拒绝（与 access 日志级别约定一致）。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	Conflict     = 409
	SystemError  = 500
	Unavailable  = 503
)

// 行军/交易业务拒绝码（1xxx），由 travel 接口层从 reason 映射，access 日志记为 WARN。
const (
	SettlementNotFound   = 1001
	NotSettlementOwner   = 1002
	SelfTarget           = 1003
	EmptyArmy            = 1004
	InsufficientUnits    = 1005
	EmptyCargo           = 1006
	InsufficientResource = 1007
	OfferNotFound        = 1101
	OfferNotOpen         = 1102
	OwnOffer             = 1103
	EmptyOffer           = 1104
)
