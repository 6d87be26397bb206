package app

import (
	"context"
	"errors"
	"time"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/logx"

	"go.uber.org/zap"
)

// Speed 行军/运输的每格基础耗时（秒）。
type Speed struct {
	SecondsPerBlock      int
	TradeSecondsPerBlock int
}

type LaunchAttackCmd struct {
	// PlayerID 为 0 时跳过归属校验（管理后台/内部调用）。
	PlayerID   domain.PlayerID
	AttackerID domain.SettlementID
	DefenderID domain.SettlementID
	Units      domain.Units
}

type SendResourcesCmd struct {
	PlayerID      domain.PlayerID
	SourceID      domain.SettlementID
	DestinationID domain.SettlementID
	Cargo         domain.Resources
}

// LaunchService 出兵与直接运输：在同一事务内扣除出发城池的兵力/资源并写入在途条目。
type LaunchService struct {
	dir     SettlementDirectory
	uow     UnitOfWork
	stats   domain.StatsLookup
	speed   Speed
	now     Clock
	metrics *Metrics
	log     logx.Logger
}

func NewLaunchService(dir SettlementDirectory, uow UnitOfWork, stats domain.StatsLookup, speed Speed, now Clock, metrics *Metrics, log logx.Logger) *LaunchService {
	return &LaunchService{
		dir:     dir,
		uow:     uow,
		stats:   stats,
		speed:   speed,
		now:     now,
		metrics: metrics,
		log:     log,
	}
}

func (s *LaunchService) LaunchAttack(ctx context.Context, cmd LaunchAttackCmd) (domain.TravelingArmy, error) {
	if cmd.Units.HasNegative() {
		return domain.TravelingArmy{}, reject(ErrInvalidRequest, ReasonNegativeAmount)
	}
	if cmd.Units.IsZero() {
		return domain.TravelingArmy{}, reject(ErrInvalidRequest, ReasonEmptyArmy)
	}
	if cmd.AttackerID == cmd.DefenderID {
		return domain.TravelingArmy{}, reject(ErrInvalidRequest, ReasonSelfTarget)
	}
	attacker, defender, err := s.pair(ctx, cmd.AttackerID, cmd.DefenderID)
	if err != nil {
		return domain.TravelingArmy{}, err
	}
	if cmd.PlayerID != 0 && attacker.OwnerID != cmd.PlayerID {
		return domain.TravelingArmy{}, reject(ErrForbidden, ReasonNotOwner)
	}
	if attacker.OwnerID == defender.OwnerID {
		return domain.TravelingArmy{}, reject(ErrInvalidRequest, ReasonSelfTarget)
	}
	distance := domain.Distance(attacker.Coord, defender.Coord)

	var army domain.TravelingArmy
	err = s.uow.WithinSettlements(ctx, []domain.SettlementID{attacker.ID}, func(ctx context.Context, tx Tx) error {
		st, ok, err := tx.LoadSettlement(ctx, attacker.ID)
		if err != nil {
			return err
		}
		if !ok {
			return reject(ErrNotFound, ReasonSettlementNotFound)
		}
		if !st.Garrison.Covers(cmd.Units) {
			return reject(ErrInsufficient, ReasonInsufficientUnits)
		}
		levels := st.Levels.Normalize()
		slowest, err := domain.SlowestSpeedPercent(cmd.Units, levels, s.stats)
		if err != nil {
			return ErrInternalServer.WithReason(ReasonUnitCatalog).WithCause(err)
		}
		start := s.now()
		st.Garrison = st.Garrison.Sub(cmd.Units)
		if err := tx.SaveSettlement(ctx, st); err != nil {
			return err
		}
		army, err = tx.InsertArmy(ctx, domain.TravelingArmy{
			AttackerID: attacker.ID,
			DefenderID: defender.ID,
			Units:      cmd.Units,
			Levels:     levels,
			StartAt:    start,
			EndAt:      start.Add(domain.ArmyDuration(distance, s.speed.SecondsPerBlock, slowest)),
			Status:     domain.StatusTraveling,
		})
		return err
	})
	if err != nil {
		return domain.TravelingArmy{}, unavailable(ReasonLedgerUnavailable, err)
	}
	s.metrics.incLaunched(domain.KindArmy.String())
	s.log.WithContext(ctx).Info("army launched",
		zap.Int64("army_id", int64(army.ID)),
		zap.Int64("attacker_id", int64(army.AttackerID)),
		zap.Int64("defender_id", int64(army.DefenderID)),
		zap.Int64("distance", distance),
		zap.Time("end_at", army.EndAt),
	)
	return army, nil
}

// SendResources 直接向另一城池运送资源，允许运往自己名下的其他城池。
func (s *LaunchService) SendResources(ctx context.Context, cmd SendResourcesCmd) (domain.TravelingTrade, error) {
	if cmd.Cargo.HasNegative() {
		return domain.TravelingTrade{}, reject(ErrInvalidRequest, ReasonNegativeAmount)
	}
	if cmd.Cargo.IsZero() {
		return domain.TravelingTrade{}, reject(ErrInvalidRequest, ReasonEmptyCargo)
	}
	if cmd.SourceID == cmd.DestinationID {
		return domain.TravelingTrade{}, reject(ErrInvalidRequest, ReasonSelfTarget)
	}
	source, dest, err := s.pair(ctx, cmd.SourceID, cmd.DestinationID)
	if err != nil {
		return domain.TravelingTrade{}, err
	}
	if cmd.PlayerID != 0 && source.OwnerID != cmd.PlayerID {
		return domain.TravelingTrade{}, reject(ErrForbidden, ReasonNotOwner)
	}

	var trade domain.TravelingTrade
	err = s.uow.WithinSettlements(ctx, []domain.SettlementID{source.ID}, func(ctx context.Context, tx Tx) error {
		st, ok, err := tx.LoadSettlement(ctx, source.ID)
		if err != nil {
			return err
		}
		if !ok {
			return reject(ErrNotFound, ReasonSettlementNotFound)
		}
		if !st.Resources.Covers(cmd.Cargo) {
			return reject(ErrInsufficient, ReasonInsufficientResource)
		}
		st.Resources = st.Resources.Sub(cmd.Cargo)
		if err := tx.SaveSettlement(ctx, st); err != nil {
			return err
		}
		trade, err = tx.InsertTrade(ctx, newTrade(source, dest, cmd.Cargo, 0, s.now(), s.speed))
		return err
	})
	if err != nil {
		return domain.TravelingTrade{}, unavailable(ReasonLedgerUnavailable, err)
	}
	s.metrics.incLaunched(domain.KindTrade.String())
	s.log.WithContext(ctx).Info("caravan sent",
		zap.Int64("trade_id", int64(trade.ID)),
		zap.Int64("source_id", int64(trade.SourceID)),
		zap.Int64("destination_id", int64(trade.DestinationID)),
		zap.Time("end_at", trade.EndAt),
	)
	return trade, nil
}

func (s *LaunchService) pair(ctx context.Context, from, to domain.SettlementID) (domain.Settlement, domain.Settlement, error) {
	a, err := lookupSettlement(ctx, s.dir, from)
	if err != nil {
		return domain.Settlement{}, domain.Settlement{}, err
	}
	b, err := lookupSettlement(ctx, s.dir, to)
	if err != nil {
		return domain.Settlement{}, domain.Settlement{}, err
	}
	return a, b, nil
}

func lookupSettlement(ctx context.Context, dir SettlementDirectory, id domain.SettlementID) (domain.Settlement, error) {
	st, err := dir.GetSettlement(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSettlementNotFound) {
			return domain.Settlement{}, reject(ErrNotFound, ReasonSettlementNotFound).WithData("settlement_id", int64(id))
		}
		return domain.Settlement{}, ErrUnavailable.WithReason(ReasonDirectoryUnavailable).WithCause(err)
	}
	return st, nil
}

func newTrade(source, dest domain.Settlement, cargo domain.Resources, offer domain.OfferID, start time.Time, speed Speed) domain.TravelingTrade {
	distance := domain.Distance(source.Coord, dest.Coord)
	return domain.TravelingTrade{
		SourceID:      source.ID,
		DestinationID: dest.ID,
		Cargo:         cargo,
		OfferID:       offer,
		StartAt:       start,
		EndAt:         start.Add(domain.TradeDuration(distance, speed.TradeSecondsPerBlock)),
		Status:        domain.StatusTraveling,
	}
}
