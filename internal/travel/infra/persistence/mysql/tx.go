package mysql

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"

	"gorm.io/gorm"
)

type tx struct {
	db *gorm.DB
}

const OpLoadSettlement = "repo.travel.LoadSettlement"

func (t *tx) LoadSettlement(ctx context.Context, id domain.SettlementID) (domain.SettlementState, bool, error) {
	var m model.Settlement
	err := t.db.WithContext(ctx).Where("id = ?", int64(id)).Take(&m).Error
	switch {
	case err == nil:
		return mapper.SettlementModelToDomain(&m), true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.SettlementState{}, false, nil
	default:
		return domain.SettlementState{}, false, storeErr(OpLoadSettlement, err).WithData("settlement_id", int64(id))
	}
}

const OpSaveSettlement = "repo.travel.SaveSettlement"

// SaveSettlement 只写资源与驻军列。
func (t *tx) SaveSettlement(ctx context.Context, st domain.SettlementState) error {
	if st.Garrison.HasNegative() || st.Resources.HasNegative() {
		return domain.ErrNegativeBalance.WithData("settlement_id", int64(st.ID)).WithData("op", "save_settlement")
	}
	err := t.db.WithContext(ctx).Model(&model.Settlement{}).Where("id = ?", int64(st.ID)).Updates(ledgerColumns(st)).Error
	if err != nil {
		return storeErr(OpSaveSettlement, err).WithData("settlement_id", int64(st.ID))
	}
	return nil
}

const OpInsertArmy = "repo.travel.InsertArmy"

func (t *tx) InsertArmy(ctx context.Context, a domain.TravelingArmy) (domain.TravelingArmy, error) {
	m := mapper.ArmyDomainToModel(a)
	m.Id = 0
	if err := t.db.WithContext(ctx).Create(m).Error; err != nil {
		return domain.TravelingArmy{}, storeErr(OpInsertArmy, err)
	}
	a.ID = domain.ArmyID(m.Id)
	return a, nil
}

const OpInsertTrade = "repo.travel.InsertTrade"

func (t *tx) InsertTrade(ctx context.Context, tr domain.TravelingTrade) (domain.TravelingTrade, error) {
	m := mapper.TradeDomainToModel(tr)
	m.Id = 0
	if err := t.db.WithContext(ctx).Create(m).Error; err != nil {
		return domain.TravelingTrade{}, storeErr(OpInsertTrade, err)
	}
	tr.ID = domain.TradeID(m.Id)
	return tr, nil
}

const OpFinalize = "repo.travel.Finalize"

func (t *tx) FinalizeArmy(ctx context.Context, id domain.ArmyID, token string) error {
	return t.finalize(ctx, &model.Army{}, int64(id), token)
}

func (t *tx) FinalizeTrade(ctx context.Context, id domain.TradeID, token string) error {
	return t.finalize(ctx, &model.Trade{}, int64(id), token)
}

func (t *tx) finalize(ctx context.Context, table any, id int64, token string) error {
	res := finalizeEntry(t.db.WithContext(ctx), table, id, token)
	if res.Error != nil {
		return storeErr(OpFinalize, res.Error).WithData("entry_id", id)
	}
	if res.RowsAffected == 0 {
		return domain.ErrClaimLost.WithData("entry_id", id)
	}
	return nil
}

func finalizeEntry(db *gorm.DB, table any, id int64, token string) *gorm.DB {
	return holdingClaim(db, table, id, token).Update("status", domain.StatusResolved)
}

const OpInsertOffer = "repo.travel.InsertOffer"

func (t *tx) InsertOffer(ctx context.Context, o domain.TradeOffer) (domain.TradeOffer, error) {
	m := mapper.OfferDomainToModel(o)
	m.Id = 0
	if err := t.db.WithContext(ctx).Create(m).Error; err != nil {
		return domain.TradeOffer{}, storeErr(OpInsertOffer, err)
	}
	o.ID = domain.OfferID(m.Id)
	return o, nil
}

func (t *tx) LoadOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	return getOffer(ctx, t.db, id)
}

const OpSaveOffer = "repo.travel.SaveOffer"

func (t *tx) SaveOffer(ctx context.Context, o domain.TradeOffer) error {
	err := t.db.WithContext(ctx).Model(&model.TradeOffer{}).Where("id = ?", int64(o.ID)).Updates(map[string]any{
		"status":      string(o.Status),
		"accepted_by": int64(o.AcceptedBy),
		"updated_at":  mapper.ToMillis(o.UpdatedAt),
	}).Error
	if err != nil {
		return storeErr(OpSaveOffer, err).WithData("offer_id", int64(o.ID))
	}
	return nil
}

// ledgerColumns 用 map 让零值也能写入。
func ledgerColumns(st domain.SettlementState) map[string]any {
	return map[string]any{
		"wood":     st.Resources.Wood,
		"stone":    st.Resources.Stone,
		"ore":      st.Resources.Ore,
		"gold":     st.Resources.Gold,
		"guards":   st.Garrison.Guards,
		"soldiers": st.Garrison.Soldiers,
		"archers":  st.Garrison.Archers,
		"cavalry":  st.Garrison.Cavalry,
	}
}
