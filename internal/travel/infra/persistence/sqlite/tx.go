package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"

	"github.com/jmoiron/sqlx"
)

type tx struct {
	tx *sqlx.Tx
}

func (t *tx) LoadSettlement(ctx context.Context, id domain.SettlementID) (domain.SettlementState, bool, error) {
	var m model.Settlement
	err := t.tx.GetContext(ctx, &m, `SELECT * FROM settlements WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SettlementState{}, false, nil
	}
	if err != nil {
		return domain.SettlementState{}, false, storeErr("load_settlement", err)
	}
	return mapper.SettlementModelToDomain(&m), true, nil
}

func (t *tx) SaveSettlement(ctx context.Context, st domain.SettlementState) error {
	if st.Garrison.HasNegative() || st.Resources.HasNegative() {
		return domain.ErrNegativeBalance.WithData("settlement_id", int64(st.ID)).WithData("op", "save_settlement")
	}
	if _, err := t.tx.NamedExecContext(ctx, updateLedgerSQL, mapper.SettlementDomainToModel(st)); err != nil {
		return storeErr("save_settlement", err)
	}
	return nil
}

func (t *tx) InsertArmy(ctx context.Context, a domain.TravelingArmy) (domain.TravelingArmy, error) {
	id, err := t.insert(ctx, "insert_army", insertArmySQL, mapper.ArmyDomainToModel(a))
	if err != nil {
		return domain.TravelingArmy{}, err
	}
	a.ID = domain.ArmyID(id)
	return a, nil
}

func (t *tx) InsertTrade(ctx context.Context, tr domain.TravelingTrade) (domain.TravelingTrade, error) {
	id, err := t.insert(ctx, "insert_trade", insertTradeSQL, mapper.TradeDomainToModel(tr))
	if err != nil {
		return domain.TravelingTrade{}, err
	}
	tr.ID = domain.TradeID(id)
	return tr, nil
}

func (t *tx) FinalizeArmy(ctx context.Context, id domain.ArmyID, token string) error {
	return t.finalize(ctx, "traveling_armies", int64(id), token)
}

func (t *tx) FinalizeTrade(ctx context.Context, id domain.TradeID, token string) error {
	return t.finalize(ctx, "traveling_trades", int64(id), token)
}

// finalize 令牌不匹配（已被别的 tick 重新认领）时影响 0 行。
func (t *tx) finalize(ctx context.Context, table string, id int64, token string) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE `+table+` SET status = ? WHERE id = ? AND status = ? AND claim_token = ?`,
		domain.StatusResolved, id, domain.StatusClaimed, token)
	if err != nil {
		return storeErr("finalize "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("finalize "+table, err)
	}
	if n == 0 {
		return domain.ErrClaimLost.WithData("entry_id", id).WithData("table", table)
	}
	return nil
}

func (t *tx) InsertOffer(ctx context.Context, o domain.TradeOffer) (domain.TradeOffer, error) {
	id, err := t.insert(ctx, "insert_offer", insertOfferSQL, mapper.OfferDomainToModel(o))
	if err != nil {
		return domain.TradeOffer{}, err
	}
	o.ID = domain.OfferID(id)
	return o, nil
}

func (t *tx) LoadOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	return getOffer(ctx, t.tx, id)
}

func (t *tx) SaveOffer(ctx context.Context, o domain.TradeOffer) error {
	if _, err := t.tx.NamedExecContext(ctx, updateOfferSQL, mapper.OfferDomainToModel(o)); err != nil {
		return storeErr("save_offer", err)
	}
	return nil
}

func (t *tx) insert(ctx context.Context, op, query string, arg any) (int64, error) {
	res, err := t.tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, storeErr(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(op, err)
	}
	return id, nil
}

func getOffer(ctx context.Context, q sqlx.QueryerContext, id domain.OfferID) (domain.TradeOffer, error) {
	var m model.TradeOffer
	err := sqlx.GetContext(ctx, q, &m, `SELECT * FROM trade_offers WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TradeOffer{}, domain.ErrOfferNotFound.WithData("offer_id", int64(id))
	}
	if err != nil {
		return domain.TradeOffer{}, storeErr("get_offer", err)
	}
	return mapper.OfferModelToDomain(&m), nil
}
