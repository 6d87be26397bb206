package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
)

func TestTick_攻方胜带回幸存部队与掠夺(t *testing.T) {
	f := newFixture(t)
	army, err := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{
		AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10},
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	if r := f.tick(t); r.Claimed != 0 {
		t.Fatalf("期望未到达时 tick 不处理，got=%+v", r)
	}
	f.clock.Advance(240 * time.Second)
	if r := f.tick(t); r.Resolved != 1 || r.Failed != 0 {
		t.Fatalf("期望结算 1 条，got=%+v", r)
	}

	att, def := f.state(t, 1), f.state(t, 2)
	if att.Garrison.Soldiers != 17 {
		t.Fatalf("期望 10 名留守 + 7 名幸存 = 17，got=%d", att.Garrison.Soldiers)
	}
	if att.Resources.Wood != 1070 || att.Resources.Stone != 1020 || att.Resources.Gold != 1070 {
		t.Fatalf("掠夺入账不符合预期: %+v", att.Resources)
	}
	if def.Garrison.Guards != 0 || def.Resources.Wood != 430 || def.Resources.Stone != 0 || def.Resources.Gold != 10 {
		t.Fatalf("守方结算不符合预期: %+v %+v", def.Garrison, def.Resources)
	}

	out, err := f.query.BattleOutcome(context.Background(), army.ID)
	if err != nil || !out.Resolved || out.Record == nil {
		t.Fatalf("期望可查询到战报，got=%+v err=%v", out, err)
	}
	if out.Record.Winner != domain.WinnerAttacker || out.Record.AttackPower != 30 || out.Record.DefensePower != 10 {
		t.Fatalf("战报不符合预期: %+v", out.Record)
	}
	if r := f.tick(t); r.Claimed != 0 {
		t.Fatalf("期望已结算条目不会再被处理，got=%+v", r)
	}
	list, _ := f.query.BattleHistory(context.Background(), 2, 0)
	if len(list) != 1 || list[0].DefenderUnits.Guards != 5 {
		t.Fatalf("期望守方战报记录战前驻军，got=%+v", list)
	}
}

func TestTick_并发两次只结算一次(t *testing.T) {
	f := newFixture(t)
	if _, err := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{
		AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10},
	}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	f.clock.Advance(240 * time.Second)

	var wg sync.WaitGroup
	reports := make([]app.TickReport, 2)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 1 {
				time.Sleep(time.Millisecond)
			}
			reports[i], _ = f.scheduler.Tick(context.Background())
		}(i)
	}
	wg.Wait()

	if total := reports[0].Resolved + reports[1].Resolved; total != 1 {
		t.Fatalf("期望两次 tick 合计结算 1 条，got=%+v", reports)
	}
	if got := f.state(t, 1).Garrison.Soldiers; got != 17 {
		t.Fatalf("期望只结算一次，步兵=%d", got)
	}
	list, _ := f.query.BattleHistory(context.Background(), 1, 10)
	if len(list) != 1 {
		t.Fatalf("期望只有 1 条战报，got=%d", len(list))
	}
}

func TestTick_单条失败不影响其他并释放认领(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.launch.LaunchAttack(ctx, app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 1}}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if _, err := f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 3, DestinationID: 1, Cargo: domain.Resources{Wood: 5}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	f.clock.Advance(time.Hour)

	f.uow.setFail(2)
	r := f.tick(t)
	if r.Claimed != 2 || r.Resolved != 1 || r.Failed != 1 {
		t.Fatalf("期望 1 成功 1 失败，got=%+v", r)
	}
	armies, _ := f.query.AllArmies(ctx)
	if len(armies) != 1 || armies[0].Status != domain.StatusTraveling {
		t.Fatalf("期望失败条目被释放回队列，got=%+v", armies)
	}

	f.uow.setFail(0)
	if r := f.tick(t); r.Resolved != 1 {
		t.Fatalf("期望下一次 tick 重试成功，got=%+v", r)
	}
}

func TestTick_按到达时间顺序结算(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 商队 20s 先到，运来的金币先入账，再被随后到达的军队掠夺
	if _, err := f.launch.LaunchAttack(ctx, app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Cavalry: 5}}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if _, err := f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 1, DestinationID: 2, Cargo: domain.Resources{Gold: 900}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	f.clock.Advance(time.Hour)
	if r := f.tick(t); r.Resolved != 2 {
		t.Fatalf("期望结算 2 条，got=%+v", r)
	}
	// 5 骑兵攻击 25 > 10，损失 5×10/25=2，幸存 3 骑负重 60
	def := f.state(t, 2)
	if def.Resources.Gold != 920 {
		t.Fatalf("期望先入账再被掠夺 60，got=%d", def.Resources.Gold)
	}
}

func TestTick_目标城池消失时战斗作废并返还部队(t *testing.T) {
	f := newFixture(t)
	army, _ := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10}})
	f.store.DeleteSettlement(2)
	f.clock.Advance(time.Hour)

	if r := f.tick(t); r.Resolved != 1 {
		t.Fatalf("期望作废也算处理完成，got=%+v", r)
	}
	if got := f.state(t, 1).Garrison.Soldiers; got != 20 {
		t.Fatalf("期望部队全部返还，got=%d", got)
	}
	out, _ := f.query.BattleOutcome(context.Background(), army.ID)
	if out.Record == nil || out.Record.Winner != domain.WinnerVoid || !out.Record.AttackerLosses.IsZero() {
		t.Fatalf("期望 void 战报且无损失，got=%+v", out.Record)
	}
}

func TestTick_出发城池消失时幸存部队解散(t *testing.T) {
	f := newFixture(t)
	if _, err := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10}}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	f.store.DeleteSettlement(1)
	f.clock.Advance(time.Hour)

	if r := f.tick(t); r.Resolved != 1 {
		t.Fatalf("got=%+v", r)
	}
	def := f.state(t, 2)
	if def.Garrison.Guards != 0 || def.Resources.Wood != 500 {
		t.Fatalf("期望战斗照常但不掠夺，got=%+v %+v", def.Garrison, def.Resources)
	}
}

func TestTick_交易入账退回与作废(t *testing.T) {
	ctx := context.Background()

	t.Run("completed", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 1, DestinationID: 2, Cargo: domain.Resources{Ore: 40}})
		f.clock.Advance(20 * time.Second)
		f.tick(t)
		if f.state(t, 2).Resources.Ore != 40 || f.state(t, 1).Resources.Ore != 960 {
			t.Fatalf("期望目标入账 40")
		}
		hist, _ := f.query.TradeHistory(ctx, 2, 10)
		if len(hist) != 1 || hist[0].Status != domain.TradeCompleted {
			t.Fatalf("期望 completed 记录，got=%+v", hist)
		}
	})
	t.Run("refunded", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 1, DestinationID: 2, Cargo: domain.Resources{Ore: 40}})
		f.store.DeleteSettlement(2)
		f.clock.Advance(time.Minute)
		f.tick(t)
		if f.state(t, 1).Resources.Ore != 1000 {
			t.Fatalf("期望退回出发城池")
		}
		hist, _ := f.query.TradeHistory(ctx, 1, 10)
		if len(hist) != 1 || hist[0].Status != domain.TradeRefunded {
			t.Fatalf("期望 refunded 记录，got=%+v", hist)
		}
	})
	t.Run("voided", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 1, DestinationID: 2, Cargo: domain.Resources{Ore: 40}})
		f.store.DeleteSettlement(1)
		f.store.DeleteSettlement(2)
		f.clock.Advance(time.Minute)
		if r := f.tick(t); r.Resolved != 1 {
			t.Fatalf("got=%+v", r)
		}
		hist, _ := f.query.TradeHistory(ctx, 1, 10)
		if len(hist) != 1 || hist[0].Status != domain.TradeVoided {
			t.Fatalf("期望 voided 记录，got=%+v", hist)
		}
	})
}

func TestTick_记录写入失败不回滚结算(t *testing.T) {
	f := newFixture(t)
	army, _ := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10}})
	f.history.fail = true
	f.clock.Advance(time.Hour)

	if r := f.tick(t); r.Resolved != 1 || r.Failed != 0 {
		t.Fatalf("期望战报失败不影响结算，got=%+v", r)
	}
	if f.state(t, 1).Garrison.Soldiers != 17 {
		t.Fatalf("期望结算已提交")
	}
	out, err := f.query.BattleOutcome(context.Background(), army.ID)
	if err != nil || !out.Resolved || out.Record != nil {
		t.Fatalf("期望已结算但无战报，got=%+v err=%v", out, err)
	}
}

func TestTick_连续失败达到上限后保留认领等租约过期(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.launch.LaunchAttack(ctx, app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 1}}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	f.clock.Advance(time.Hour)
	f.uow.setFail(2)

	for i := 1; i < 5; i++ {
		if r := f.tick(t); r.Failed != 1 || r.Parked != 0 {
			t.Fatalf("第 %d 次期望失败后释放，got=%+v", i, r)
		}
	}
	if r := f.tick(t); r.Failed != 1 || r.Parked != 1 {
		t.Fatalf("期望第 5 次失败后搁置，got=%+v", r)
	}
	if r := f.tick(t); r.Claimed != 0 {
		t.Fatalf("期望租约内不再认领，got=%+v", r)
	}
	armies, _ := f.query.AllArmies(ctx)
	if len(armies) != 1 || armies[0].Status != domain.StatusClaimed {
		t.Fatalf("期望搁置条目保持已认领，got=%+v", armies)
	}

	f.uow.setFail(0)
	f.clock.Advance(2 * time.Minute)
	if r := f.tick(t); r.Claimed != 1 || r.Resolved != 1 {
		t.Fatalf("期望租约过期后重新认领并结算，got=%+v", r)
	}
}

func TestTick_不可重试错误首次失败即搁置(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.launch.SendResources(ctx, app.SendResourcesCmd{SourceID: 3, DestinationID: 1, Cargo: domain.Resources{Wood: 5}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	f.clock.Advance(time.Hour)
	f.uow.setFailWith(1, domain.ErrNegativeBalance.WithData("settlement_id", int64(1)))

	if r := f.tick(t); r.Failed != 1 || r.Parked != 1 {
		t.Fatalf("期望账本损坏时直接搁置，got=%+v", r)
	}
	if r := f.tick(t); r.Claimed != 0 {
		t.Fatalf("期望不会每次 tick 都重新认领，got=%+v", r)
	}
}

func TestTick_耗时指标覆盖整个结算过程(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.launch.LaunchAttack(ctx, app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 1}}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	f.clock.Advance(time.Hour)
	f.uow.setDelay(50 * time.Millisecond)
	f.tick(t)

	families, err := f.registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "travel_tick_duration_seconds" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 1 || h.GetSampleSum() < 0.05 {
			t.Fatalf("期望 1 次观测且耗时包含结算，count=%d sum=%f", h.GetSampleCount(), h.GetSampleSum())
		}
		return
	}
	t.Fatalf("期望注册 travel_tick_duration_seconds")
}
