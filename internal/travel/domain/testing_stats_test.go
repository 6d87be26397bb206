package domain

// fixedStats 测试用兵种表，数值与内置配置的 1 级属性一致。
type fixedStats map[UnitType]UnitStats

func (f fixedStats) UnitStats(t UnitType, level int) (UnitStats, bool) {
	s, ok := f[t]
	if !ok {
		return UnitStats{}, false
	}
	// 每升一级攻防 +1，便于验证等级生效
	bonus := int64(level - 1)
	s.Attack += bonus
	s.Defense += bonus
	if s.Ranged {
		s.RangedPower += bonus
	}
	return s, true
}

func defaultStats() fixedStats {
	return fixedStats{
		Guards:   {SpeedPercent: 150, Attack: 1, Defense: 2, LootCapacity: 5},
		Soldiers: {SpeedPercent: 100, Attack: 3, Defense: 2, LootCapacity: 10},
		Archers:  {SpeedPercent: 110, Attack: 1, Defense: 1, RangedPower: 4, LootCapacity: 5, Ranged: true},
		Cavalry:  {SpeedPercent: 60, Attack: 5, Defense: 3, LootCapacity: 20},
	}
}
