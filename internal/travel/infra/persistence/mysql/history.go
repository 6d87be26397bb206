package mysql

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"

	"gorm.io/gorm"
)

const OpRecordBattle = "repo.travel.RecordBattle"

func (s *Store) RecordBattle(ctx context.Context, r domain.BattleRecord) error {
	m, err := mapper.BattleDomainToModel(r)
	if err != nil {
		return storeErr(OpRecordBattle, err)
	}
	m.Id = 0
	if err = s.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeErr(OpRecordBattle, err).WithData("army_id", int64(r.ArmyID))
	}
	return nil
}

const OpRecordTrade = "repo.travel.RecordTrade"

func (s *Store) RecordTrade(ctx context.Context, t domain.TradeTransaction) error {
	m := mapper.TradeTxnDomainToModel(t)
	m.Id = 0
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeErr(OpRecordTrade, err).WithData("trade_id", int64(t.TradeID))
	}
	return nil
}

const OpBattlesBySettlement = "repo.travel.BattlesBySettlement"

func (s *Store) BattlesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error) {
	var rows []model.BattleRecord
	q := s.db.WithContext(ctx).Where("attacker_id = ? OR defender_id = ?", int64(id), int64(id)).Order("id DESC")
	if err := withLimit(q, limit).Find(&rows).Error; err != nil {
		return nil, storeErr(OpBattlesBySettlement, err)
	}
	out := make([]domain.BattleRecord, 0, len(rows))
	for i := range rows {
		r, err := mapper.BattleModelToDomain(&rows[i])
		if err != nil {
			return nil, storeErr(OpBattlesBySettlement, err)
		}
		out = append(out, r)
	}
	return out, nil
}

const OpBattleByArmy = "repo.travel.BattleByArmy"

func (s *Store) BattleByArmy(ctx context.Context, armyID domain.ArmyID) (domain.BattleRecord, error) {
	var m model.BattleRecord
	err := s.db.WithContext(ctx).Where("army_id = ?", int64(armyID)).Order("id DESC").Take(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.BattleRecord{}, domain.ErrBattleNotFound.WithData("army_id", int64(armyID))
	case err != nil:
		return domain.BattleRecord{}, storeErr(OpBattleByArmy, err)
	}
	r, err := mapper.BattleModelToDomain(&m)
	if err != nil {
		return domain.BattleRecord{}, storeErr(OpBattleByArmy, err)
	}
	return r, nil
}

const OpTradesBySettlement = "repo.travel.TradesBySettlement"

func (s *Store) TradesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error) {
	var rows []model.TradeTransaction
	q := s.db.WithContext(ctx).Where("source_id = ? OR destination_id = ?", int64(id), int64(id)).Order("id DESC")
	if err := withLimit(q, limit).Find(&rows).Error; err != nil {
		return nil, storeErr(OpTradesBySettlement, err)
	}
	out := make([]domain.TradeTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.TradeTxnModelToDomain(&rows[i]))
	}
	return out, nil
}

func (s *Store) GetOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	return getOffer(ctx, s.db, id)
}

const OpListOffers = "repo.travel.ListOffers"

func (s *Store) ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.TradeOffer, error) {
	var rows []model.TradeOffer
	if err := offerQuery(s.db.WithContext(ctx), f).Find(&rows).Error; err != nil {
		return nil, storeErr(OpListOffers, err)
	}
	out := make([]domain.TradeOffer, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.OfferModelToDomain(&rows[i]))
	}
	return out, nil
}

func offerQuery(q *gorm.DB, f domain.OfferFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.OffererID != 0 {
		q = q.Where("offerer_id = ?", int64(f.OffererID))
	}
	return withLimit(q.Order("id DESC"), f.Limit)
}

const OpGetOffer = "repo.travel.GetOffer"

func getOffer(ctx context.Context, db *gorm.DB, id domain.OfferID) (domain.TradeOffer, error) {
	var m model.TradeOffer
	err := db.WithContext(ctx).Where("id = ?", int64(id)).Take(&m).Error
	switch {
	case err == nil:
		return mapper.OfferModelToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.TradeOffer{}, domain.ErrOfferNotFound.WithData("offer_id", int64(id))
	default:
		return domain.TradeOffer{}, storeErr(OpGetOffer, err).WithData("offer_id", int64(id))
	}
}

func withLimit(q *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return q.Limit(limit)
	}
	return q
}
