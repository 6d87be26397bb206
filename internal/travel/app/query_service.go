package app

import (
	"context"
	"errors"
	"sort"

	"BrowserGame/internal/travel/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AttackTarget 可攻击城池及距离。
type AttackTarget struct {
	Settlement domain.Settlement `json:"settlement"`
	Distance   int64             `json:"distance"`
}

// MilitaryPower 城池当前驻军战力，以及在外行军中的兵力。
type MilitaryPower struct {
	SettlementID domain.SettlementID `json:"settlement_id"`
	Garrison     domain.Units        `json:"garrison"`
	Levels       domain.UnitLevels   `json:"levels"`
	AttackPower  int64               `json:"attack_power"`
	DefensePower int64               `json:"defense_power"`
	LootCapacity int64               `json:"loot_capacity"`
	Marching     domain.Units        `json:"marching"`
}

// BattleOutcome 行军的结算结果；Resolved=false 表示仍在途。
type BattleOutcome struct {
	Army     domain.TravelingArmy `json:"army"`
	Resolved bool                 `json:"resolved"`
	Record   *domain.BattleRecord `json:"record,omitempty"`
}

type QueryService struct {
	dir     SettlementDirectory
	states  SettlementReader
	ledger  TravelLedger
	history HistoryReader
	stats   domain.StatsLookup
}

func NewQueryService(dir SettlementDirectory, states SettlementReader, ledger TravelLedger, history HistoryReader, stats domain.StatsLookup) *QueryService {
	return &QueryService{
		dir:     dir,
		states:  states,
		ledger:  ledger,
		history: history,
		stats:   stats,
	}
}

// AttackableSettlements 其他玩家的城池，按距离升序。
func (q *QueryService) AttackableSettlements(ctx context.Context, id domain.SettlementID) ([]AttackTarget, error) {
	origin, err := lookupSettlement(ctx, q.dir, id)
	if err != nil {
		return nil, err
	}
	all, err := q.dir.ListSettlements(ctx)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonDirectoryUnavailable).WithCause(err)
	}
	out := make([]AttackTarget, 0, len(all))
	for _, s := range all {
		if s.ID == origin.ID || s.OwnerID == origin.OwnerID {
			continue
		}
		out = append(out, AttackTarget{Settlement: s, Distance: domain.Distance(origin.Coord, s.Coord)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Settlement.ID < out[j].Settlement.ID
	})
	return out, nil
}

func (q *QueryService) MilitaryPower(ctx context.Context, id domain.SettlementID) (MilitaryPower, error) {
	st, err := q.states.GetSettlementState(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSettlementNotFound) {
			return MilitaryPower{}, reject(ErrNotFound, ReasonSettlementNotFound)
		}
		return MilitaryPower{}, unavailable(ReasonLedgerUnavailable, err)
	}
	levels := st.Levels.Normalize()
	mp := MilitaryPower{SettlementID: id, Garrison: st.Garrison, Levels: levels}
	if mp.AttackPower, err = domain.AttackPower(st.Garrison, levels, q.stats); err != nil {
		return MilitaryPower{}, ErrInternalServer.WithReason(ReasonUnitCatalog).WithCause(err)
	}
	if mp.DefensePower, err = domain.DefensePower(st.Garrison, levels, q.stats); err != nil {
		return MilitaryPower{}, ErrInternalServer.WithReason(ReasonUnitCatalog).WithCause(err)
	}
	if mp.LootCapacity, err = domain.LootCapacity(st.Garrison, levels, q.stats); err != nil {
		return MilitaryPower{}, ErrInternalServer.WithReason(ReasonUnitCatalog).WithCause(err)
	}
	armies, err := q.ledger.ListArmies(ctx, id, domain.DirectionOutgoing)
	if err != nil {
		return MilitaryPower{}, unavailable(ReasonLedgerUnavailable, err)
	}
	for _, a := range armies {
		mp.Marching = mp.Marching.Add(a.Units)
	}
	return mp, nil
}

func (q *QueryService) BattleHistory(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error) {
	out, err := q.history.BattlesBySettlement(ctx, id, clampLimit(limit))
	if err != nil {
		return nil, unavailable(ReasonHistoryReadFail, err)
	}
	return out, nil
}

func (q *QueryService) TradeHistory(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error) {
	out, err := q.history.TradesBySettlement(ctx, id, clampLimit(limit))
	if err != nil {
		return nil, unavailable(ReasonHistoryReadFail, err)
	}
	return out, nil
}

// BattleOutcome 已结算但战报缺失（记录写入失败）时 Record 为空。
func (q *QueryService) BattleOutcome(ctx context.Context, armyID domain.ArmyID) (BattleOutcome, error) {
	army, err := q.ledger.GetArmy(ctx, armyID)
	if err != nil {
		if errors.Is(err, domain.ErrArmyNotFound) {
			return BattleOutcome{}, reject(ErrNotFound, ReasonArmyNotFound)
		}
		return BattleOutcome{}, unavailable(ReasonLedgerUnavailable, err)
	}
	out := BattleOutcome{Army: army, Resolved: army.Status == domain.StatusResolved}
	if !out.Resolved {
		return out, nil
	}
	rec, err := q.history.BattleByArmy(ctx, armyID)
	switch {
	case err == nil:
		out.Record = &rec
	case errors.Is(err, domain.ErrBattleNotFound):
	default:
		return BattleOutcome{}, unavailable(ReasonHistoryReadFail, err)
	}
	return out, nil
}

func (q *QueryService) Armies(ctx context.Context, id domain.SettlementID, dir domain.Direction) ([]domain.TravelingArmy, error) {
	out, err := q.ledger.ListArmies(ctx, id, dir)
	if err != nil {
		return nil, unavailable(ReasonLedgerUnavailable, err)
	}
	return out, nil
}

func (q *QueryService) Trades(ctx context.Context, id domain.SettlementID, dir domain.Direction) ([]domain.TravelingTrade, error) {
	out, err := q.ledger.ListTrades(ctx, id, dir)
	if err != nil {
		return nil, unavailable(ReasonLedgerUnavailable, err)
	}
	return out, nil
}

func (q *QueryService) AllArmies(ctx context.Context) ([]domain.TravelingArmy, error) {
	out, err := q.ledger.ListAllArmies(ctx)
	if err != nil {
		return nil, unavailable(ReasonLedgerUnavailable, err)
	}
	return out, nil
}

func (q *QueryService) AllTrades(ctx context.Context) ([]domain.TravelingTrade, error) {
	out, err := q.ledger.ListAllTrades(ctx)
	if err != nil {
		return nil, unavailable(ReasonLedgerUnavailable, err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

// ParseDirection 空串按 outgoing 处理。
func ParseDirection(s string) (domain.Direction, error) {
	dir, ok := domain.ParseDirection(s)
	if !ok {
		return "", reject(ErrInvalidRequest, ReasonInvalidDirection)
	}
	return dir, nil
}
