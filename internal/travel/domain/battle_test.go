package domain

import (
	"errors"
	"testing"
)

func TestResolveBattle_十步兵打五守卫攻方胜(t *testing.T) {
	out, err := ResolveBattle(BattleInput{
		Attackers:         Units{Soldiers: 10},
		Defenders:         Units{Guards: 5},
		DefenderResources: Resources{Wood: 500, Stone: 20, Ore: 0, Gold: 80},
	}, defaultStats())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.AttackPower != 30 || out.DefensePower != 10 {
		t.Fatalf("期望战力 30 vs 10，got=%d vs %d", out.AttackPower, out.DefensePower)
	}
	if out.Winner != WinnerAttacker {
		t.Fatalf("期望攻方胜，got=%s", out.Winner)
	}
	// 胜方损失 10×10/30 = 3，败方全灭
	if out.AttackerLosses != (Units{Soldiers: 3}) || out.DefenderLosses != (Units{Guards: 5}) {
		t.Fatalf("损失不符合预期 atk=%+v def=%+v", out.AttackerLosses, out.DefenderLosses)
	}
	// 7 名步兵负重 70，每种资源独立取 min
	want := Resources{Wood: 70, Stone: 20, Ore: 0, Gold: 70}
	if out.Plunder != want {
		t.Fatalf("期望掠夺 %+v，got=%+v", want, out.Plunder)
	}
}

func TestResolveBattle_平局判守方胜(t *testing.T) {
	// 5 步兵攻击 15；守方 6 守卫 + 1 骑兵防御 15
	out, err := ResolveBattle(BattleInput{
		Attackers: Units{Soldiers: 5},
		Defenders: Units{Guards: 6, Cavalry: 1},
	}, defaultStats())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.AttackPower != out.DefensePower {
		t.Fatalf("用例前提：战力相等，got=%d vs %d", out.AttackPower, out.DefensePower)
	}
	if out.Winner != WinnerDefender {
		t.Fatalf("期望平局守方胜，got=%s", out.Winner)
	}
	if out.AttackerSurvivors.Total() != 0 {
		t.Fatalf("期望攻方比值 1 全灭，got=%+v", out.AttackerSurvivors)
	}
	if !out.Plunder.IsZero() {
		t.Fatalf("期望守方胜时无掠夺，got=%+v", out.Plunder)
	}
}

func TestResolveBattle_远程用远程攻击力且等级生效(t *testing.T) {
	stats := defaultStats()
	out, err := ResolveBattle(BattleInput{
		Attackers:      Units{Archers: 10},
		AttackerLevels: UnitLevels{Archers: 3},
		Defenders:      Units{Soldiers: 10},
	}, stats)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 3 级弓手远程 4+2=6，10 人 60；守方 10 步兵防御 20
	if out.AttackPower != 60 || out.DefensePower != 20 {
		t.Fatalf("期望 60 vs 20，got=%d vs %d", out.AttackPower, out.DefensePower)
	}
}

func TestResolveBattle_空城无损失(t *testing.T) {
	out, err := ResolveBattle(BattleInput{
		Attackers:         Units{Cavalry: 4},
		DefenderResources: Resources{Gold: 1000},
	}, defaultStats())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Winner != WinnerAttacker || !out.AttackerLosses.IsZero() {
		t.Fatalf("期望无损胜利，got=%+v", out)
	}
	if out.Plunder.Gold != 80 {
		t.Fatalf("期望掠夺 4×20=80 金，got=%d", out.Plunder.Gold)
	}
}

func TestResolveBattle_损失在合法区间且结果确定(t *testing.T) {
	stats := defaultStats()
	for a := int64(0); a <= 30; a += 3 {
		for d := int64(0); d <= 30; d += 5 {
			in := BattleInput{
				Attackers:         Units{Soldiers: a, Archers: a/2 + 1, Cavalry: a / 3},
				Defenders:         Units{Guards: d, Soldiers: d / 2, Archers: d / 4},
				DefenderResources: Resources{Wood: d * 10, Gold: a * 7},
			}
			first, err := ResolveBattle(in, stats)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			second, _ := ResolveBattle(in, stats)
			if first != second {
				t.Fatalf("期望相同输入结果一致 in=%+v", in)
			}
			for _, ut := range UnitTypes {
				if s := first.AttackerSurvivors.Get(ut); s < 0 || s > in.Attackers.Get(ut) {
					t.Fatalf("攻方 %s 存活 %d 越界", ut, s)
				}
				if s := first.DefenderSurvivors.Get(ut); s < 0 || s > in.Defenders.Get(ut) {
					t.Fatalf("守方 %s 存活 %d 越界", ut, s)
				}
			}
			if !in.DefenderResources.Covers(first.Plunder) || first.Plunder.HasNegative() {
				t.Fatalf("掠夺超过守方余额 plunder=%+v", first.Plunder)
			}
		}
	}
}

func TestResolveBattle_未配置兵种报错(t *testing.T) {
	stats := defaultStats()
	delete(stats, Guards)
	_, err := ResolveBattle(BattleInput{Attackers: Units{Soldiers: 1}, Defenders: Units{Guards: 1}}, stats)
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("期望 ErrUnknownUnit，got=%v", err)
	}
}

func TestMulDiv_大数不溢出(t *testing.T) {
	if got := mulDiv(1<<40, 1<<40, 1<<41); got != 1<<39 {
		t.Fatalf("期望 2^39，got=%d", got)
	}
	if got := mulDiv(7, 10, 30); got != 2 {
		t.Fatalf("期望向下取整 2，got=%d", got)
	}
}
