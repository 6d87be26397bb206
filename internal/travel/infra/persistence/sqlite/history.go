package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"
)

func (s *Store) RecordBattle(ctx context.Context, r domain.BattleRecord) error {
	m, err := mapper.BattleDomainToModel(r)
	if err != nil {
		return storeErr("record_battle encode", err)
	}
	if _, err = s.db.NamedExecContext(ctx, insertBattleSQL, m); err != nil {
		return storeErr("record_battle", err)
	}
	return nil
}

func (s *Store) RecordTrade(ctx context.Context, t domain.TradeTransaction) error {
	if _, err := s.db.NamedExecContext(ctx, insertTradeTxnSQL, mapper.TradeTxnDomainToModel(t)); err != nil {
		return storeErr("record_trade", err)
	}
	return nil
}

// BattlesBySettlement limit<=0 不限条数（sqlite 的 LIMIT -1）。
func (s *Store) BattlesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error) {
	var rows []model.BattleRecord
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM battle_records WHERE attacker_id = ? OR defender_id = ? ORDER BY id DESC LIMIT ?`,
		int64(id), int64(id), sqlLimit(limit))
	if err != nil {
		return nil, storeErr("battles_by_settlement", err)
	}
	out := make([]domain.BattleRecord, 0, len(rows))
	for i := range rows {
		r, err := mapper.BattleModelToDomain(&rows[i])
		if err != nil {
			return nil, storeErr("battles_by_settlement decode", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) BattleByArmy(ctx context.Context, armyID domain.ArmyID) (domain.BattleRecord, error) {
	var m model.BattleRecord
	err := s.db.GetContext(ctx, &m, `SELECT * FROM battle_records WHERE army_id = ? ORDER BY id DESC LIMIT 1`, int64(armyID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BattleRecord{}, domain.ErrBattleNotFound.WithData("army_id", int64(armyID))
	}
	if err != nil {
		return domain.BattleRecord{}, storeErr("battle_by_army", err)
	}
	r, err := mapper.BattleModelToDomain(&m)
	if err != nil {
		return domain.BattleRecord{}, storeErr("battle_by_army decode", err)
	}
	return r, nil
}

func (s *Store) TradesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error) {
	var rows []model.TradeTransaction
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM trade_transactions WHERE source_id = ? OR destination_id = ? ORDER BY id DESC LIMIT ?`,
		int64(id), int64(id), sqlLimit(limit))
	if err != nil {
		return nil, storeErr("trades_by_settlement", err)
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

// ListOffers 按 id 倒序（即创建时间倒序）。
func (s *Store) ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.TradeOffer, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.OffererID != 0 {
		conds = append(conds, "offerer_id = ?")
		args = append(args, int64(f.OffererID))
	}
	q := `SELECT * FROM trade_offers`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, sqlLimit(f.Limit))

	var rows []model.TradeOffer
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, storeErr("list_offers", err)
	}
	out := make([]domain.TradeOffer, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.OfferModelToDomain(&rows[i]))
	}
	return out, nil
}

func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
