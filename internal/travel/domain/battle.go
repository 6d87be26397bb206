package domain

import "math/bits"

// UnitStats 兵种在某一等级的战斗属性。
type UnitStats struct {
	SpeedPercent int64
	Attack       int64
	Defense      int64
	RangedPower  int64
	LootCapacity int64
	Ranged       bool
}

// StatsLookup 按兵种和等级查询属性。
type StatsLookup interface {
	UnitStats(t UnitType, level int) (UnitStats, bool)
}

type Winner string

const (
	WinnerAttacker Winner = "attacker"
	WinnerDefender Winner = "defender"
	WinnerVoid     Winner = "void"
)

type BattleInput struct {
	Attackers         Units
	AttackerLevels    UnitLevels
	Defenders         Units
	DefenderLevels    UnitLevels
	DefenderResources Resources
}

type BattleOutcome struct {
	Winner            Winner
	AttackPower       int64
	DefensePower      int64
	AttackerLosses    Units
	DefenderLosses    Units
	AttackerSurvivors Units
	DefenderSurvivors Units
	Plunder           Resources
}

// ResolveBattle 纯函数：相同输入与配置必然得到相同结果。
func ResolveBattle(in BattleInput, stats StatsLookup) (BattleOutcome, error) {
	atk, err := AttackPower(in.Attackers, in.AttackerLevels, stats)
	if err != nil {
		return BattleOutcome{}, err
	}
	def, err := DefensePower(in.Defenders, in.DefenderLevels, stats)
	if err != nil {
		return BattleOutcome{}, err
	}

	out := BattleOutcome{AttackPower: atk, DefensePower: def}
	// 平局判守方胜
	if atk > def {
		out.Winner = WinnerAttacker
		out.AttackerLosses = winnerLosses(in.Attackers, atk, def)
		out.DefenderLosses = loserLosses(in.Defenders, atk, def)
	} else {
		out.Winner = WinnerDefender
		out.AttackerLosses = loserLosses(in.Attackers, def, atk)
		out.DefenderLosses = winnerLosses(in.Defenders, def, atk)
	}
	out.AttackerSurvivors = in.Attackers.Sub(out.AttackerLosses)
	out.DefenderSurvivors = in.Defenders.Sub(out.DefenderLosses)

	if out.Winner == WinnerAttacker {
		capacity, err := LootCapacity(out.AttackerSurvivors, in.AttackerLevels, stats)
		if err != nil {
			return BattleOutcome{}, err
		}
		out.Plunder = Plunder(in.DefenderResources, capacity)
	}
	return out, nil
}

// AttackPower 近战按 attack、远程按 ranged_power 累加。
func AttackPower(units Units, levels UnitLevels, stats StatsLookup) (int64, error) {
	return sumStats(units, levels, stats, func(s UnitStats) int64 {
		if s.Ranged {
			return s.RangedPower
		}
		return s.Attack
	})
}

func DefensePower(units Units, levels UnitLevels, stats StatsLookup) (int64, error) {
	return sumStats(units, levels, stats, func(s UnitStats) int64 { return s.Defense })
}

func LootCapacity(units Units, levels UnitLevels, stats StatsLookup) (int64, error) {
	return sumStats(units, levels, stats, func(s UnitStats) int64 { return s.LootCapacity })
}

// Plunder 每种资源独立取 min(守方余额, 总负重)。
func Plunder(balance Resources, capacity int64) Resources {
	var out Resources
	if capacity <= 0 {
		return out
	}
	for _, t := range ResourceTypes {
		v := balance.Get(t)
		if v < 0 {
			v = 0
		}
		if v > capacity {
			v = capacity
		}
		out.Set(t, v)
	}
	return out
}

func sumStats(units Units, levels UnitLevels, stats StatsLookup, pick func(UnitStats) int64) (int64, error) {
	var total int64
	for _, t := range UnitTypes {
		n := units.Get(t)
		if n <= 0 {
			continue
		}
		s, ok := stats.UnitStats(t, levels.Get(t))
		if !ok {
			return 0, ErrUnknownUnit.WithData("unit_type", string(t))
		}
		total += n * pick(s)
	}
	return total, nil
}

// loserLosses 败方每个兵种损失 count × min(1, Pw/Pl)；败方战力为 0 时全灭。
func loserLosses(units Units, pw, pl int64) Units {
	var out Units
	for _, t := range UnitTypes {
		n := units.Get(t)
		if n <= 0 {
			continue
		}
		if pl <= 0 {
			out.Set(t, n)
			continue
		}
		out.Set(t, clampLoss(mulDiv(n, pw, pl), n))
	}
	return out
}

// winnerLosses 胜方每个兵种损失 count × min(1, Pl/Pw)；胜方战力为 0 时无损失。
func winnerLosses(units Units, pw, pl int64) Units {
	var out Units
	if pw <= 0 {
		return out
	}
	for _, t := range UnitTypes {
		n := units.Get(t)
		if n <= 0 {
			continue
		}
		out.Set(t, clampLoss(mulDiv(n, pl, pw), n))
	}
	return out
}

func clampLoss(loss, count int64) int64 {
	if loss < 0 {
		return 0
	}
	if loss > count {
		return count
	}
	return loss
}

// mulDiv 计算 floor(a*b/c)，中间结果用 128 位避免溢出；商溢出时返回 MaxInt64。
func mulDiv(a, b, c int64) int64 {
	if a <= 0 || b <= 0 || c <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi >= uint64(c) {
		return 1<<63 - 1
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	if q > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(q)
}
