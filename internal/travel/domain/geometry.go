package domain

import "time"

// Distance 曼哈顿距离（格）；同一格返回 1，保证行军耗时不为 0。
func Distance(a, b Coord) int64 {
	d := abs(a.X-b.X) + abs(a.Y-b.Y)
	if d < 1 {
		return 1
	}
	return d
}

// ArmyDuration = ceil(distance × secondsPerBlock × slowestPercent / 100)，最少 1 秒。
func ArmyDuration(distance int64, secondsPerBlock int, slowestPercent int64) time.Duration {
	if distance < 1 {
		distance = 1
	}
	if slowestPercent < 1 {
		slowestPercent = 100
	}
	raw := distance * int64(secondsPerBlock) * slowestPercent
	secs := (raw + 99) / 100
	return clampSeconds(secs)
}

// TradeDuration = distance × tradeSecondsPerBlock，最少 1 秒。
func TradeDuration(distance int64, tradeSecondsPerBlock int) time.Duration {
	if distance < 1 {
		distance = 1
	}
	return clampSeconds(distance * int64(tradeSecondsPerBlock))
}

// SlowestSpeedPercent 取出征兵种（数量 > 0）中耗时百分比最大的一个。
func SlowestSpeedPercent(units Units, levels UnitLevels, stats StatsLookup) (int64, error) {
	var slowest int64
	for _, t := range UnitTypes {
		if units.Get(t) <= 0 {
			continue
		}
		s, ok := stats.UnitStats(t, levels.Get(t))
		if !ok {
			return 0, ErrUnknownUnit.WithData("unit_type", string(t))
		}
		if s.SpeedPercent > slowest {
			slowest = s.SpeedPercent
		}
	}
	return slowest, nil
}

func clampSeconds(secs int64) time.Duration {
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
