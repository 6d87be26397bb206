package app_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"BrowserGame/internal/shared/gameconfig/unit"
	"BrowserGame/internal/shared/utils"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/memory"
	"BrowserGame/modules/kit/logx"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyHistory 可按需让战报写入失败。
type flakyHistory struct {
	app.HistoryRecorder
	fail bool
}

func (h *flakyHistory) RecordBattle(ctx context.Context, r domain.BattleRecord) error {
	if h.fail {
		return errors.New("history down")
	}
	return h.HistoryRecorder.RecordBattle(ctx, r)
}

func (h *flakyHistory) RecordTrade(ctx context.Context, t domain.TradeTransaction) error {
	if h.fail {
		return errors.New("history down")
	}
	return h.HistoryRecorder.RecordTrade(ctx, t)
}

// flakyUoW 涉及指定城池的事务直接失败；failErr 为空时返回裸的死锁错误。
type flakyUoW struct {
	app.UnitOfWork
	mu      sync.Mutex
	failFor domain.SettlementID
	failErr error
	delay   time.Duration
}

func (u *flakyUoW) setFail(id domain.SettlementID) {
	u.setFailWith(id, nil)
}

func (u *flakyUoW) setFailWith(id domain.SettlementID, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failFor, u.failErr = id, err
}

func (u *flakyUoW) setDelay(d time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.delay = d
}

func (u *flakyUoW) WithinSettlements(ctx context.Context, ids []domain.SettlementID, fn func(ctx context.Context, tx app.Tx) error) error {
	u.mu.Lock()
	fail := u.failFor != 0 && slices.Contains(ids, u.failFor)
	failErr, delay := u.failErr, u.delay
	u.mu.Unlock()
	time.Sleep(delay)
	if fail {
		if failErr != nil {
			return failErr
		}
		return errors.New("deadlock detected")
	}
	return u.UnitOfWork.WithinSettlements(ctx, ids, fn)
}

type fixture struct {
	store     *memory.Store
	clock     *fakeClock
	history   *flakyHistory
	uow       *flakyUoW
	launch    *app.LaunchService
	market    *app.MarketService
	scheduler *app.Scheduler
	query     *app.QueryService
	registry  *prometheus.Registry
}

var testSpeed = app.Speed{SecondsPerBlock: 60, TradeSecondsPerBlock: 5}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(utils.MustSnowflake(1))
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	history := &flakyHistory{HistoryRecorder: store}
	uow := &flakyUoW{UnitOfWork: store}
	stats := app.NewUnitStats(unit.Default())
	registry := prometheus.NewRegistry()
	metrics := app.NewMetrics(registry)
	log := logx.NewNop()

	battles := app.NewBattleResolver(uow, history, stats, clock.Now, metrics, log)
	trades := app.NewTradeResolver(uow, history, clock.Now, metrics, log)
	f := &fixture{
		store:     store,
		clock:     clock,
		history:   history,
		uow:       uow,
		launch:    app.NewLaunchService(store, uow, stats, testSpeed, clock.Now, metrics, log),
		market:    app.NewMarketService(store, uow, store, testSpeed, clock.Now, metrics, log),
		scheduler: app.NewScheduler(store, battles, trades, clock.Now, uuid.NewString, time.Minute, metrics, log),
		query:     app.NewQueryService(store, store, store, store, stats),
		registry:  registry,
	}

	// 1、3 属于玩家 10；2 属于玩家 20，与 1 相距 4 格
	store.PutSettlement(domain.SettlementState{
		Settlement: domain.Settlement{ID: 1, OwnerID: 10, Name: "洛阳", Coord: domain.Coord{X: 0, Y: 0}},
		Garrison:   domain.Units{Guards: 5, Soldiers: 20, Archers: 10, Cavalry: 5},
		Resources:  domain.Resources{Wood: 1000, Stone: 1000, Ore: 1000, Gold: 1000},
	})
	store.PutSettlement(domain.SettlementState{
		Settlement: domain.Settlement{ID: 2, OwnerID: 20, Name: "许昌", Coord: domain.Coord{X: 2, Y: 2}},
		Garrison:   domain.Units{Guards: 5},
		Resources:  domain.Resources{Wood: 500, Stone: 20, Ore: 0, Gold: 80},
	})
	store.PutSettlement(domain.SettlementState{
		Settlement: domain.Settlement{ID: 3, OwnerID: 10, Name: "长安", Coord: domain.Coord{X: 5, Y: 0}},
		Resources:  domain.Resources{Wood: 10},
	})
	return f
}

func (f *fixture) state(t *testing.T, id domain.SettlementID) domain.SettlementState {
	t.Helper()
	st, err := f.store.GetSettlementState(context.Background(), id)
	if err != nil {
		t.Fatalf("load settlement %d: %v", id, err)
	}
	return st
}

func (f *fixture) tick(t *testing.T) app.TickReport {
	t.Helper()
	r, err := f.scheduler.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	return r
}

func wantReason(t *testing.T, err error, r app.Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("期望错误 reason=%s，got=nil", r.Code)
	}
	if got := app.GetErrorReasonCode(err); got != r.Code {
		t.Fatalf("期望 reason=%s，got=%s err=%v", r.Code, got, err)
	}
}
