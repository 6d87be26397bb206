package errx

// 跨服务共用的系统类错误码，用于告警归类与排障。
// 业务拒绝码（如 TRAVEL_SETTLEMENT_NOT_FOUND）由各业务包自己定义。
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE" // DB、Mongo、下游服务连不上
	CodeTimeout       Code = "TIMEOUT"
	CodeConflict      Code = "CONFLICT" // 乐观写冲突，例如到达认领被其他节点抢走
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 哨兵错误只用于派生，WithData/WithCause 返回新对象，不会改动这里的值。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrConflict    = NewSys(CodeConflict, "并发冲突")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
