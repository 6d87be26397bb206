package app

import (
	"context"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/logx"

	"go.uber.org/zap"
)

// BattleResolver 结算到达的军队：读取守方实时驻军，在攻守双方城池的事务内应用损失与掠夺。
type BattleResolver struct {
	uow     UnitOfWork
	history HistoryRecorder
	stats   domain.StatsLookup
	now     Clock
	metrics *Metrics
	log     logx.Logger
}

func NewBattleResolver(uow UnitOfWork, history HistoryRecorder, stats domain.StatsLookup, now Clock, metrics *Metrics, log logx.Logger) *BattleResolver {
	return &BattleResolver{
		uow:     uow,
		history: history,
		stats:   stats,
		now:     now,
		metrics: metrics,
		log:     log,
	}
}

// Resolve 要求 army 已被 army.ClaimToken 认领。事务提交后才写战报，战报失败只记日志。
func (r *BattleResolver) Resolve(ctx context.Context, army domain.TravelingArmy) (domain.BattleRecord, error) {
	rec := domain.BattleRecord{
		ArmyID:        army.ID,
		AttackerID:    army.AttackerID,
		DefenderID:    army.DefenderID,
		OccurredAt:    r.now(),
		AttackerUnits: army.Units,
	}

	ids := SortedIDs(army.AttackerID, army.DefenderID)
	err := r.uow.WithinSettlements(ctx, ids, func(ctx context.Context, tx Tx) error {
		attacker, attackerOK, err := tx.LoadSettlement(ctx, army.AttackerID)
		if err != nil {
			return err
		}
		defender, defenderOK, err := tx.LoadSettlement(ctx, army.DefenderID)
		if err != nil {
			return err
		}

		if !defenderOK {
			// 目标已不存在：战斗作废，出征部队原样返回
			rec.Winner = domain.WinnerVoid
			if attackerOK {
				attacker.Garrison = attacker.Garrison.Add(army.Units)
				if err := tx.SaveSettlement(ctx, attacker); err != nil {
					return err
				}
			}
			return tx.FinalizeArmy(ctx, army.ID, army.ClaimToken)
		}

		out, err := domain.ResolveBattle(domain.BattleInput{
			Attackers:         army.Units,
			AttackerLevels:    army.Levels,
			Defenders:         defender.Garrison,
			DefenderLevels:    defender.Levels,
			DefenderResources: defender.Resources,
		}, r.stats)
		if err != nil {
			return ErrInternalServer.WithReason(ReasonUnitCatalog).WithCause(err)
		}
		if !attackerOK {
			// 出发城池已不存在：幸存部队解散，不掠夺
			out.Plunder = domain.Resources{}
		}

		rec.DefenderUnits = defender.Garrison
		rec.Winner = out.Winner
		rec.AttackerLosses = out.AttackerLosses
		rec.DefenderLosses = out.DefenderLosses
		rec.Plunder = out.Plunder
		rec.AttackPower = out.AttackPower
		rec.DefensePower = out.DefensePower

		defender.Garrison = out.DefenderSurvivors
		defender.Resources = defender.Resources.Sub(out.Plunder)
		if err := tx.SaveSettlement(ctx, defender); err != nil {
			return err
		}
		if attackerOK {
			attacker.Garrison = attacker.Garrison.Add(out.AttackerSurvivors)
			attacker.Resources = attacker.Resources.Add(out.Plunder)
			if err := tx.SaveSettlement(ctx, attacker); err != nil {
				return err
			}
		}
		return tx.FinalizeArmy(ctx, army.ID, army.ClaimToken)
	})
	if err != nil {
		return domain.BattleRecord{}, unavailable(ReasonResolveFail, err)
	}

	r.metrics.incResolved(domain.KindArmy.String(), string(rec.Winner))
	if err := r.history.RecordBattle(ctx, rec); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, r.log,
			logx.NewSysLog("battle record write", ErrUnavailable.WithReason(ReasonHistoryWriteFail).WithCause(err)),
			zap.Int64("army_id", int64(army.ID)))
	}
	r.log.WithContext(ctx).Info("battle resolved",
		zap.Int64("army_id", int64(army.ID)),
		zap.String("winner", string(rec.Winner)),
		zap.Int64("attack_power", rec.AttackPower),
		zap.Int64("defense_power", rec.DefensePower),
	)
	return rec, nil
}
