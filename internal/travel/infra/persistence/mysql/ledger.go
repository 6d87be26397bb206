package mysql

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"
	"BrowserGame/modules/kit/errx"

	"gorm.io/gorm"
)

const claimWhere = "(status = ? AND end_at <= ?) OR (status = ? AND claimed_at <= ?)"

const OpClaimDue = "repo.travel.ClaimDue"

// ClaimDue 每张表一条条件 UPDATE；并发的 UPDATE 会在行锁上排队并按最新版本重新判定条件。
func (s *Store) ClaimDue(ctx context.Context, req domain.ClaimRequest) (domain.ClaimBatch, error) {
	batch := domain.ClaimBatch{Token: req.Token}
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for _, table := range []any{&model.Army{}, &model.Trade{}} {
			if err := claimEntries(db, table, req).Error; err != nil {
				return err
			}
		}
		var armies []model.Army
		if err := claimedBy(db, req.Token).Find(&armies).Error; err != nil {
			return err
		}
		var trades []model.Trade
		if err := claimedBy(db, req.Token).Find(&trades).Error; err != nil {
			return err
		}
		for i := range armies {
			batch.Armies = append(batch.Armies, mapper.ArmyModelToDomain(&armies[i]))
		}
		for i := range trades {
			batch.Trades = append(batch.Trades, mapper.TradeModelToDomain(&trades[i]))
		}
		return nil
	})
	if err != nil {
		return domain.ClaimBatch{Token: req.Token}, storeErr(OpClaimDue, err)
	}
	return batch, nil
}

// claimEntries 把已到期的在途条目与租约过期的已认领条目改到 req.Token 名下。
func claimEntries(db *gorm.DB, table any, req domain.ClaimRequest) *gorm.DB {
	now := req.Now.UnixMilli()
	return db.Model(table).
		Where(claimWhere, domain.StatusTraveling, now, domain.StatusClaimed, req.StaleBefore.UnixMilli()).
		Updates(map[string]any{
			"status":      domain.StatusClaimed,
			"claim_token": req.Token,
			"claimed_at":  now,
		})
}

func claimedBy(db *gorm.DB, token string) *gorm.DB {
	return db.Where("status = ? AND claim_token = ?", domain.StatusClaimed, token).Order("id")
}

// holdingClaim 定位仍由 token 持有认领的单行，finalize 与 release 共用。
func holdingClaim(db *gorm.DB, table any, id int64, token string) *gorm.DB {
	return db.Model(table).Where("id = ? AND status = ? AND claim_token = ?", id, domain.StatusClaimed, token)
}

const OpRelease = "repo.travel.Release"

func (s *Store) ReleaseArmy(ctx context.Context, id domain.ArmyID, token string) error {
	return s.release(ctx, &model.Army{}, int64(id), token)
}

func (s *Store) ReleaseTrade(ctx context.Context, id domain.TradeID, token string) error {
	return s.release(ctx, &model.Trade{}, int64(id), token)
}

func (s *Store) release(ctx context.Context, table any, id int64, token string) error {
	if err := releaseEntry(s.db.WithContext(ctx), table, id, token).Error; err != nil {
		return storeErr(OpRelease, err).WithData("entry_id", id)
	}
	return nil
}

func releaseEntry(db *gorm.DB, table any, id int64, token string) *gorm.DB {
	return holdingClaim(db, table, id, token).
		Updates(map[string]any{"status": domain.StatusTraveling, "claim_token": ""})
}

const OpGetArmy = "repo.travel.GetArmy"

func (s *Store) GetArmy(ctx context.Context, id domain.ArmyID) (domain.TravelingArmy, error) {
	var m model.Army
	err := s.db.WithContext(ctx).Where("id = ?", int64(id)).Take(&m).Error
	switch {
	case err == nil:
		return mapper.ArmyModelToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.TravelingArmy{}, domain.ErrArmyNotFound.WithData("army_id", int64(id))
	default:
		return domain.TravelingArmy{}, storeErr(OpGetArmy, err).WithData("army_id", int64(id))
	}
}

const OpListArmies = "repo.travel.ListArmies"

func (s *Store) ListArmies(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingArmy, error) {
	col := "attacker_id"
	if dir == domain.DirectionIncoming {
		col = "defender_id"
	}
	return s.findArmies(s.db.WithContext(ctx).Where(col+" = ?", int64(settlementID)))
}

func (s *Store) ListAllArmies(ctx context.Context) ([]domain.TravelingArmy, error) {
	return s.findArmies(s.db.WithContext(ctx))
}

func (s *Store) findArmies(q *gorm.DB) ([]domain.TravelingArmy, error) {
	var rows []model.Army
	if err := unresolved(q).Find(&rows).Error; err != nil {
		return nil, storeErr(OpListArmies, err)
	}
	out := make([]domain.TravelingArmy, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.ArmyModelToDomain(&rows[i]))
	}
	return out, nil
}

const OpListTrades = "repo.travel.ListTrades"

func (s *Store) ListTrades(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingTrade, error) {
	col := "source_id"
	if dir == domain.DirectionIncoming {
		col = "destination_id"
	}
	return s.findTrades(s.db.WithContext(ctx).Where(col+" = ?", int64(settlementID)))
}

func (s *Store) ListAllTrades(ctx context.Context) ([]domain.TravelingTrade, error) {
	return s.findTrades(s.db.WithContext(ctx))
}

func (s *Store) findTrades(q *gorm.DB) ([]domain.TravelingTrade, error) {
	var rows []model.Trade
	if err := unresolved(q).Find(&rows).Error; err != nil {
		return nil, storeErr(OpListTrades, err)
	}
	out := make([]domain.TravelingTrade, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.TradeModelToDomain(&rows[i]))
	}
	return out, nil
}

// unresolved 未结算条目，按到达时间升序。
func unresolved(q *gorm.DB) *gorm.DB {
	return q.Where("status <> ?", domain.StatusResolved).Order("end_at").Order("id")
}

func storeErr(op string, err error) *errx.Error {
	return domain.ErrSystemUnavailable.WithCause(err).WithData("op", op).WithData("store", "mysql")
}
