package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"strings"

	"BrowserGame/internal/shared/transport"
	shareddto "BrowserGame/internal/shared/transport/dto"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/interfaces/handler"
	"BrowserGame/internal/travel/interfaces/handler/http/dto"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlayerHeader 由上游网关在鉴权后注入；缺省为 0 表示内部调用，不校验城池归属。
const PlayerHeader = "X-Player-Id"

// ArrivalProcessor 由 actors.Runtime 实现。
type ArrivalProcessor interface {
	ProcessArrivals(ctx context.Context) (app.TickReport, error)
}

type HttpHandler struct {
	launch   *app.LaunchService
	market   *app.MarketService
	query    *app.QueryService
	arrivals ArrivalProcessor
	log      logx.Logger
}

func NewHttpHandler(launch *app.LaunchService, market *app.MarketService, query *app.QueryService, arrivals ArrivalProcessor, log logx.Logger) *HttpHandler {
	return &HttpHandler{
		launch:   launch,
		market:   market,
		query:    query,
		arrivals: arrivals,
		log:      log,
	}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	travel := group.Group("/travel")
	travel.POST("/attacks", h.LaunchAttack)
	travel.GET("/attacks/:id/outcome", h.BattleOutcome)
	travel.POST("/trades", h.SendResources)

	settlement := travel.Group("/settlements/:id")
	settlement.GET("/attackable", h.Attackable)
	settlement.GET("/military", h.MilitaryPower)
	settlement.GET("/battles", h.BattleHistory)
	settlement.GET("/trade-history", h.TradeHistory)
	settlement.GET("/armies", h.Armies)
	settlement.GET("/trades", h.Trades)

	market := group.Group("/market")
	market.POST("/offers", h.CreateOffer)
	market.GET("/offers", h.ListOffers)
	market.DELETE("/offers/:id", h.CancelOffer)
	market.POST("/offers/:id/accept", h.AcceptOffer)

	admin := group.Group("/admin/travel")
	admin.GET("/armies", h.AllArmies)
	admin.GET("/trades", h.AllTrades)
	admin.POST("/process-arrivals", h.ProcessArrivals)
}

func (h *HttpHandler) LaunchAttack(c *gin.Context) {
	var req dto.LaunchAttackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	pid, ok := h.playerID(c)
	if !ok {
		return
	}
	army, err := h.launch.LaunchAttack(c.Request.Context(), app.LaunchAttackCmd{
		PlayerID:   pid,
		AttackerID: domain.SettlementID(req.AttackerID),
		DefenderID: domain.SettlementID(req.DefenderID),
		Units:      req.Units,
	})
	if err != nil {
		h.error(c, "launch attack", err)
		return
	}
	transport.AddField(c.Request.Context(), zap.Int64("army_id", int64(army.ID)))
	h.ok(c, army)
}

func (h *HttpHandler) SendResources(c *gin.Context) {
	var req dto.SendResourcesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	pid, ok := h.playerID(c)
	if !ok {
		return
	}
	trade, err := h.launch.SendResources(c.Request.Context(), app.SendResourcesCmd{
		PlayerID:      pid,
		SourceID:      domain.SettlementID(req.SourceID),
		DestinationID: domain.SettlementID(req.DestinationID),
		Cargo:         req.Cargo,
	})
	if err != nil {
		h.error(c, "send resources", err)
		return
	}
	transport.AddField(c.Request.Context(), zap.Int64("trade_id", int64(trade.ID)))
	h.ok(c, trade)
}

func (h *HttpHandler) BattleOutcome(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.query.BattleOutcome(c.Request.Context(), domain.ArmyID(id))
	if err != nil {
		h.error(c, "battle outcome", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) Attackable(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.query.AttackableSettlements(c.Request.Context(), domain.SettlementID(id))
	if err != nil {
		h.error(c, "attackable settlements", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) MilitaryPower(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.query.MilitaryPower(c.Request.Context(), domain.SettlementID(id))
	if err != nil {
		h.error(c, "military power", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) BattleHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.query.BattleHistory(c.Request.Context(), domain.SettlementID(id), queryInt(c, "limit"))
	if err != nil {
		h.error(c, "battle history", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) TradeHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.query.TradeHistory(c.Request.Context(), domain.SettlementID(id), queryInt(c, "limit"))
	if err != nil {
		h.error(c, "trade history", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) Armies(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	dir, err := app.ParseDirection(c.Query("direction"))
	if err != nil {
		h.error(c, "list armies", err)
		return
	}
	out, err := h.query.Armies(c.Request.Context(), domain.SettlementID(id), dir)
	if err != nil {
		h.error(c, "list armies", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) Trades(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	dir, err := app.ParseDirection(c.Query("direction"))
	if err != nil {
		h.error(c, "list trades", err)
		return
	}
	out, err := h.query.Trades(c.Request.Context(), domain.SettlementID(id), dir)
	if err != nil {
		h.error(c, "list trades", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) CreateOffer(c *gin.Context) {
	var req dto.CreateOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	pid, ok := h.playerID(c)
	if !ok {
		return
	}
	offer, err := h.market.CreateOffer(c.Request.Context(), app.CreateOfferCmd{
		PlayerID:  pid,
		OffererID: domain.SettlementID(req.OffererID),
		Offered:   req.Offered,
		Requested: req.Requested,
	})
	if err != nil {
		h.error(c, "create offer", err)
		return
	}
	transport.AddField(c.Request.Context(), zap.Int64("offer_id", int64(offer.ID)))
	h.ok(c, offer)
}

func (h *HttpHandler) ListOffers(c *gin.Context) {
	var q dto.ListOffersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	out, err := h.market.ListOffers(c.Request.Context(), domain.OfferFilter{
		Status:    domain.OfferStatus(q.Status),
		OffererID: domain.SettlementID(q.OffererID),
		Limit:     q.Limit,
	})
	if err != nil {
		h.error(c, "list offers", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) CancelOffer(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	pid, ok := h.playerID(c)
	if !ok {
		return
	}
	offer, err := h.market.CancelOffer(c.Request.Context(), app.CancelOfferCmd{
		PlayerID: pid,
		OfferID:  domain.OfferID(id),
	})
	if err != nil {
		h.error(c, "cancel offer", err)
		return
	}
	h.ok(c, offer)
}

func (h *HttpHandler) AcceptOffer(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.AcceptOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	pid, ok := h.playerID(c)
	if !ok {
		return
	}
	res, err := h.market.AcceptOffer(c.Request.Context(), app.AcceptOfferCmd{
		PlayerID:   pid,
		OfferID:    domain.OfferID(id),
		AcceptorID: domain.SettlementID(req.AcceptorID),
	})
	if err != nil {
		h.error(c, "accept offer", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) AllArmies(c *gin.Context) {
	out, err := h.query.AllArmies(c.Request.Context())
	if err != nil {
		h.error(c, "all armies", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) AllTrades(c *gin.Context) {
	out, err := h.query.AllTrades(c.Request.Context())
	if err != nil {
		h.error(c, "all trades", err)
		return
	}
	h.ok(c, out)
}

func (h *HttpHandler) ProcessArrivals(c *gin.Context) {
	report, err := h.arrivals.ProcessArrivals(c.Request.Context())
	if err != nil {
		h.error(c, "process arrivals", err)
		return
	}
	h.ok(c, report)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, shareddto.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, shareddto.Error(code, msg))
}

func (h *HttpHandler) error(c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(c.Request.Context(), h.log, action, err)
	h.fail(c, code, msg)
}

func (h *HttpHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "id 有误")
		return 0, false
	}
	return id, true
}

// playerID 缺省头视为内部调用；头存在但不是正整数时直接拒绝，不能退化成免校验的 0。
func (h *HttpHandler) playerID(c *gin.Context) (domain.PlayerID, bool) {
	raw := strings.TrimSpace(c.GetHeader(PlayerHeader))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "玩家身份有误")
		return 0, false
	}
	return domain.PlayerID(id), true
}

// queryInt 缺省或非法时返回 0，由服务层套用默认值。
func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
