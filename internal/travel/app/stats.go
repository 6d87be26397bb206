package app

import (
	"BrowserGame/internal/shared/gameconfig/unit"
	"BrowserGame/internal/travel/domain"
)

type catalogStats struct {
	c *unit.Catalog
}

// NewUnitStats 把兵种配置表适配为领域层的属性查询。
func NewUnitStats(c *unit.Catalog) domain.StatsLookup {
	return catalogStats{c: c}
}

func (s catalogStats) UnitStats(t domain.UnitType, level int) (domain.UnitStats, bool) {
	st, ok := s.c.Stats(string(t), level)
	if !ok {
		return domain.UnitStats{}, false
	}
	return domain.UnitStats{
		SpeedPercent: st.SpeedPercent,
		Attack:       st.Attack,
		Defense:      st.Defense,
		RangedPower:  st.RangedPower,
		LootCapacity: st.LootCapacity,
		Ranged:       st.Ranged,
	}, true
}
