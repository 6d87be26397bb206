package app_test

import (
	"context"
	"testing"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
)

func TestAttackableSettlements_排除自己名下城池并按距离排序(t *testing.T) {
	f := newFixture(t)
	f.store.PutSettlement(domain.SettlementState{Settlement: domain.Settlement{ID: 4, OwnerID: 30, Coord: domain.Coord{X: 1, Y: 0}}})

	got, err := f.query.AttackableSettlements(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].Settlement.ID != 4 || got[1].Settlement.ID != 2 || got[1].Distance != 4 {
		t.Fatalf("期望 [4(1格), 2(4格)]，got=%+v", got)
	}

	_, err = f.query.AttackableSettlements(context.Background(), 99)
	wantReason(t, err, app.ReasonSettlementNotFound)
}

func TestMilitaryPower_统计驻军与在外兵力(t *testing.T) {
	f := newFixture(t)
	if _, err := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 10}}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	mp, err := f.query.MilitaryPower(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 5 守卫×1 + 10 步兵×3 + 10 弓手远程×4 + 5 骑兵×5
	if mp.AttackPower != 100 {
		t.Fatalf("期望攻击力 100，got=%d", mp.AttackPower)
	}
	// 5×2 + 10×2 + 10×1 + 5×3
	if mp.DefensePower != 55 {
		t.Fatalf("期望防御力 55，got=%d", mp.DefensePower)
	}
	if mp.Marching.Soldiers != 10 {
		t.Fatalf("期望在外 10 名步兵，got=%+v", mp.Marching)
	}
}

func TestBattleOutcome_未结算与不存在(t *testing.T) {
	f := newFixture(t)
	army, _ := f.launch.LaunchAttack(context.Background(), app.LaunchAttackCmd{AttackerID: 1, DefenderID: 2, Units: domain.Units{Soldiers: 1}})

	out, err := f.query.BattleOutcome(context.Background(), army.ID)
	if err != nil || out.Resolved || out.Record != nil {
		t.Fatalf("期望在途未结算，got=%+v err=%v", out, err)
	}
	_, err = f.query.BattleOutcome(context.Background(), 12345)
	wantReason(t, err, app.ReasonArmyNotFound)
}

func TestParseDirection_非法方向被拒绝(t *testing.T) {
	if dir, err := app.ParseDirection(""); err != nil || dir != domain.DirectionOutgoing {
		t.Fatalf("期望空串为 outgoing，got=%v err=%v", dir, err)
	}
	if dir, err := app.ParseDirection("incoming"); err != nil || dir != domain.DirectionIncoming {
		t.Fatalf("期望 incoming，got=%v err=%v", dir, err)
	}
	_, err := app.ParseDirection("sideways")
	wantReason(t, err, app.ReasonInvalidDirection)
}
