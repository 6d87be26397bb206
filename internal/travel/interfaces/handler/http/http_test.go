package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BrowserGame/internal/shared/gameconfig/unit"
	"BrowserGame/internal/shared/transport"
	"BrowserGame/internal/shared/utils"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	travelhttp "BrowserGame/internal/travel/interfaces/handler/http"
	"BrowserGame/internal/travel/infra/persistence/memory"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type stubArrivals struct {
	report app.TickReport
	err    error
	calls  int
}

func (s *stubArrivals) ProcessArrivals(ctx context.Context) (app.TickReport, error) {
	s.calls++
	return s.report, s.err
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type server struct {
	engine   *gin.Engine
	store    *memory.Store
	arrivals *stubArrivals
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore(utils.MustSnowflake(1))
	now := func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	stats := app.NewUnitStats(unit.Default())
	metrics := app.NewMetrics(nil)
	log := logx.NewNop()
	speed := app.Speed{SecondsPerBlock: 60, TradeSecondsPerBlock: 5}

	store.PutSettlement(domain.SettlementState{
		Settlement: domain.Settlement{ID: 1, OwnerID: 10, Name: "洛阳", Coord: domain.Coord{X: 0, Y: 0}},
		Garrison:   domain.Units{Soldiers: 20},
		Resources:  domain.Resources{Wood: 100, Gold: 100},
	})
	store.PutSettlement(domain.SettlementState{
		Settlement: domain.Settlement{ID: 2, OwnerID: 20, Name: "许昌", Coord: domain.Coord{X: 2, Y: 2}},
		Resources:  domain.Resources{Stone: 50},
	})

	arrivals := &stubArrivals{}
	h := travelhttp.NewHttpHandler(
		app.NewLaunchService(store, store, stats, speed, now, metrics, log),
		app.NewMarketService(store, store, store, speed, now, metrics, log),
		app.NewQueryService(store, store, store, store, stats),
		arrivals,
		log,
	)
	engine := gin.New()
	h.RegisterRoutes(engine.Group(""))
	return &server{engine: engine, store: store, arrivals: arrivals}
}

func (s *server) do(t *testing.T, method, path string, player int64, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if player != 0 {
		req.Header.Set(travelhttp.PlayerHeader, jsonNumber(player))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("期望 HTTP 200，got=%d body=%s", w.Code, w.Body.String())
	}
	var out envelope
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
	return out
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestLaunchAttack_成功后扣减驻军并可查询在途(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/travel/attacks", 10, map[string]any{
		"attacker_id": 1,
		"defender_id": 2,
		"units":       map[string]int64{"soldiers": 5},
	})
	if resp.Code != transport.OK {
		t.Fatalf("期望 code=0，got=%d msg=%s", resp.Code, resp.Msg)
	}
	var army domain.TravelingArmy
	if err := json.Unmarshal(resp.Data, &army); err != nil {
		t.Fatalf("decode army: %v", err)
	}
	if army.ID == 0 || army.Units.Soldiers != 5 {
		t.Fatalf("期望返回在途部队，got=%+v", army)
	}

	st, err := s.store.GetSettlementState(context.Background(), 1)
	if err != nil {
		t.Fatalf("load settlement: %v", err)
	}
	if st.Garrison.Soldiers != 15 {
		t.Fatalf("期望驻军剩余 15，got=%d", st.Garrison.Soldiers)
	}

	list := s.do(t, nethttp.MethodGet, "/travel/settlements/2/armies?direction=incoming", 0, nil)
	var armies []domain.TravelingArmy
	if err := json.Unmarshal(list.Data, &armies); err != nil {
		t.Fatalf("decode armies: %v", err)
	}
	if len(armies) != 1 || armies[0].ID != army.ID {
		t.Fatalf("期望防守方看到 1 支来袭部队，got=%+v", armies)
	}

	outcome := s.do(t, nethttp.MethodGet, "/travel/attacks/"+jsonNumber(int64(army.ID))+"/outcome", 0, nil)
	if outcome.Code != transport.OK {
		t.Fatalf("期望未结算的战果查询成功，got=%d", outcome.Code)
	}
}

func TestLaunchAttack_非城主返回业务码(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/travel/attacks", 20, map[string]any{
		"attacker_id": 1,
		"defender_id": 2,
		"units":       map[string]int64{"soldiers": 5},
	})
	if resp.Code != transport.NotSettlementOwner {
		t.Fatalf("期望 code=%d，got=%d", transport.NotSettlementOwner, resp.Code)
	}
	if resp.Msg == "" {
		t.Fatalf("期望业务拒绝带提示信息")
	}
}

func TestLaunchAttack_请求体非法(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/travel/attacks", 0, map[string]any{"defender_id": 2})
	if resp.Code != transport.InvalidParam {
		t.Fatalf("期望 code=%d，got=%d", transport.InvalidParam, resp.Code)
	}
}

func TestLaunchAttack_玩家头无法解析时拒绝(t *testing.T) {
	s := newServer(t)
	body := []byte(`{"attacker_id":1,"defender_id":2,"units":{"soldiers":5}}`)

	for _, raw := range []string{"abc", "-3", "0"} {
		req := httptest.NewRequest(nethttp.MethodPost, "/travel/attacks", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(travelhttp.PlayerHeader, raw)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		var resp envelope
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v body=%s", err, w.Body.String())
		}
		if resp.Code != transport.InvalidParam {
			t.Fatalf("期望玩家头 %q 返回 code=%d，got=%d", raw, transport.InvalidParam, resp.Code)
		}
	}
	armies, err := s.store.ListAllArmies(context.Background())
	if err != nil || len(armies) != 0 {
		t.Fatalf("期望不产生在途军队，got=%v err=%v", armies, err)
	}
}

func TestSettlementRoutes_非法参数(t *testing.T) {
	s := newServer(t)

	if resp := s.do(t, nethttp.MethodGet, "/travel/settlements/abc/military", 0, nil); resp.Code != transport.InvalidParam {
		t.Fatalf("期望非法 id 返回 %d，got=%d", transport.InvalidParam, resp.Code)
	}
	if resp := s.do(t, nethttp.MethodGet, "/travel/settlements/1/trades?direction=sideways", 0, nil); resp.Code != transport.InvalidParam {
		t.Fatalf("期望非法 direction 返回 %d，got=%d", transport.InvalidParam, resp.Code)
	}
	if resp := s.do(t, nethttp.MethodGet, "/travel/settlements/99/military", 0, nil); resp.Code != transport.SettlementNotFound {
		t.Fatalf("期望不存在的城池返回 %d，got=%d", transport.SettlementNotFound, resp.Code)
	}
}

func TestSendResources_直接运输(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, nethttp.MethodPost, "/travel/trades", 10, map[string]any{
		"source_id":      1,
		"destination_id": 2,
		"cargo":          map[string]int64{"wood": 40},
	})
	if resp.Code != transport.OK {
		t.Fatalf("期望 code=0，got=%d msg=%s", resp.Code, resp.Msg)
	}

	out := s.do(t, nethttp.MethodGet, "/travel/settlements/1/trades?direction=outgoing", 0, nil)
	var trades []domain.TravelingTrade
	if err := json.Unmarshal(out.Data, &trades); err != nil {
		t.Fatalf("decode trades: %v", err)
	}
	if len(trades) != 1 || trades[0].Cargo.Wood != 40 {
		t.Fatalf("期望 1 支载 40 木材的商队，got=%+v", trades)
	}

	tooMuch := s.do(t, nethttp.MethodPost, "/travel/trades", 10, map[string]any{
		"source_id":      1,
		"destination_id": 2,
		"cargo":          map[string]int64{"wood": 1000},
	})
	if tooMuch.Code != transport.InsufficientResource {
		t.Fatalf("期望资源不足返回 %d，got=%d", transport.InsufficientResource, tooMuch.Code)
	}
}

func TestMarket_挂单接受撤单(t *testing.T) {
	s := newServer(t)

	created := s.do(t, nethttp.MethodPost, "/market/offers", 10, map[string]any{
		"offerer_id": 1,
		"offered":    map[string]int64{"wood": 30},
		"requested":  map[string]int64{"stone": 20},
	})
	if created.Code != transport.OK {
		t.Fatalf("期望挂单成功，got=%d msg=%s", created.Code, created.Msg)
	}
	var offer domain.TradeOffer
	if err := json.Unmarshal(created.Data, &offer); err != nil {
		t.Fatalf("decode offer: %v", err)
	}

	list := s.do(t, nethttp.MethodGet, "/market/offers?status=open", 0, nil)
	var offers []domain.TradeOffer
	if err := json.Unmarshal(list.Data, &offers); err != nil {
		t.Fatalf("decode offers: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != offer.ID {
		t.Fatalf("期望列出 1 个开放挂单，got=%+v", offers)
	}

	own := s.do(t, nethttp.MethodPost, "/market/offers/"+jsonNumber(int64(offer.ID))+"/accept", 10, map[string]any{"acceptor_id": 1})
	if own.Code != transport.OwnOffer {
		t.Fatalf("期望不能接受自己的挂单 %d，got=%d", transport.OwnOffer, own.Code)
	}

	accepted := s.do(t, nethttp.MethodPost, "/market/offers/"+jsonNumber(int64(offer.ID))+"/accept", 20, map[string]any{"acceptor_id": 2})
	if accepted.Code != transport.OK {
		t.Fatalf("期望成交成功，got=%d msg=%s", accepted.Code, accepted.Msg)
	}
	var res app.AcceptResult
	if err := json.Unmarshal(accepted.Data, &res); err != nil {
		t.Fatalf("decode accept result: %v", err)
	}
	if res.Outbound.Cargo.Wood != 30 || res.Return.Cargo.Stone != 20 {
		t.Fatalf("期望双向商队，got=%+v", res)
	}

	cancel := s.do(t, nethttp.MethodDelete, "/market/offers/"+jsonNumber(int64(offer.ID)), 10, nil)
	if cancel.Code != transport.OfferNotOpen {
		t.Fatalf("期望已成交挂单不能撤销 %d，got=%d", transport.OfferNotOpen, cancel.Code)
	}
}

func TestAdmin_列出全部与手动结算(t *testing.T) {
	s := newServer(t)
	s.arrivals.report = app.TickReport{Claimed: 2, Resolved: 2}

	armies := s.do(t, nethttp.MethodGet, "/admin/travel/armies", 0, nil)
	if armies.Code != transport.OK {
		t.Fatalf("期望列出在途部队成功，got=%d", armies.Code)
	}

	resp := s.do(t, nethttp.MethodPost, "/admin/travel/process-arrivals", 0, nil)
	if resp.Code != transport.OK {
		t.Fatalf("期望手动结算成功，got=%d", resp.Code)
	}
	var report app.TickReport
	if err := json.Unmarshal(resp.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Claimed != 2 || s.arrivals.calls != 1 {
		t.Fatalf("期望转发到结算运行时，got=%+v calls=%d", report, s.arrivals.calls)
	}

	s.arrivals.err = errx.ErrUnavailable.WithCause(errors.New("actor stopped"))
	failed := s.do(t, nethttp.MethodPost, "/admin/travel/process-arrivals", 0, nil)
	if failed.Code != transport.Unavailable {
		t.Fatalf("期望依赖不可用返回 %d，got=%d", transport.Unavailable, failed.Code)
	}
}
