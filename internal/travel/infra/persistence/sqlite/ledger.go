package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"

	"github.com/jmoiron/sqlx"
)

// claimSQL 到期的在途条目与租约过期的认领一起改写为本次令牌。
const claimSQL = `UPDATE %s SET status = ?, claim_token = ?, claimed_at = ?
	WHERE (status = ? AND end_at <= ?) OR (status = ? AND claimed_at <= ?)`

func (s *Store) ClaimDue(ctx context.Context, req domain.ClaimRequest) (domain.ClaimBatch, error) {
	batch := domain.ClaimBatch{Token: req.Token}
	now := req.Now.UnixMilli()
	stale := req.StaleBefore.UnixMilli()
	args := []any{domain.StatusClaimed, req.Token, now, domain.StatusTraveling, now, domain.StatusClaimed, stale}

	err := s.inTx(ctx, "claim_due", func(t *sqlx.Tx) error {
		if _, err := t.ExecContext(ctx, fmt.Sprintf(claimSQL, "traveling_armies"), args...); err != nil {
			return storeErr("claim armies", err)
		}
		if _, err := t.ExecContext(ctx, fmt.Sprintf(claimSQL, "traveling_trades"), args...); err != nil {
			return storeErr("claim trades", err)
		}

		var armies []model.Army
		if err := t.SelectContext(ctx, &armies,
			`SELECT * FROM traveling_armies WHERE status = ? AND claim_token = ? ORDER BY id`,
			domain.StatusClaimed, req.Token); err != nil {
			return storeErr("select claimed armies", err)
		}
		var trades []model.Trade
		if err := t.SelectContext(ctx, &trades,
			`SELECT * FROM traveling_trades WHERE status = ? AND claim_token = ? ORDER BY id`,
			domain.StatusClaimed, req.Token); err != nil {
			return storeErr("select claimed trades", err)
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
		return domain.ClaimBatch{Token: req.Token}, err
	}
	return batch, nil
}

func (s *Store) ReleaseArmy(ctx context.Context, id domain.ArmyID, token string) error {
	return s.release(ctx, "traveling_armies", int64(id), token)
}

func (s *Store) ReleaseTrade(ctx context.Context, id domain.TradeID, token string) error {
	return s.release(ctx, "traveling_trades", int64(id), token)
}

// release 只释放仍由 token 持有的条目，已被别人重新认领的不受影响。
func (s *Store) release(ctx context.Context, table string, id int64, token string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET status = ?, claim_token = '' WHERE id = ? AND status = ? AND claim_token = ?`,
		domain.StatusTraveling, id, domain.StatusClaimed, token)
	if err != nil {
		return storeErr("release "+table, err)
	}
	return nil
}

func (s *Store) GetArmy(ctx context.Context, id domain.ArmyID) (domain.TravelingArmy, error) {
	var m model.Army
	err := s.db.GetContext(ctx, &m, `SELECT * FROM traveling_armies WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelingArmy{}, domain.ErrArmyNotFound.WithData("army_id", int64(id))
	}
	if err != nil {
		return domain.TravelingArmy{}, storeErr("get_army", err)
	}
	return mapper.ArmyModelToDomain(&m), nil
}

func (s *Store) ListArmies(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingArmy, error) {
	col := "attacker_id"
	if dir == domain.DirectionIncoming {
		col = "defender_id"
	}
	return s.selectArmies(ctx, `WHERE status <> ? AND `+col+` = ?`, domain.StatusResolved, int64(settlementID))
}

func (s *Store) ListTrades(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingTrade, error) {
	col := "source_id"
	if dir == domain.DirectionIncoming {
		col = "destination_id"
	}
	return s.selectTrades(ctx, `WHERE status <> ? AND `+col+` = ?`, domain.StatusResolved, int64(settlementID))
}

func (s *Store) ListAllArmies(ctx context.Context) ([]domain.TravelingArmy, error) {
	return s.selectArmies(ctx, `WHERE status <> ?`, domain.StatusResolved)
}

func (s *Store) ListAllTrades(ctx context.Context) ([]domain.TravelingTrade, error) {
	return s.selectTrades(ctx, `WHERE status <> ?`, domain.StatusResolved)
}

func (s *Store) selectArmies(ctx context.Context, where string, args ...any) ([]domain.TravelingArmy, error) {
	var rows []model.Army
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM traveling_armies `+where+` ORDER BY end_at, id`, args...); err != nil {
		return nil, storeErr("list_armies", err)
	}
	out := make([]domain.TravelingArmy, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.ArmyModelToDomain(&rows[i]))
	}
	return out, nil
}

func (s *Store) selectTrades(ctx context.Context, where string, args ...any) ([]domain.TravelingTrade, error) {
	var rows []model.Trade
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM traveling_trades `+where+` ORDER BY end_at, id`, args...); err != nil {
		return nil, storeErr("list_trades", err)
	}
	out := make([]domain.TravelingTrade, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.TradeModelToDomain(&rows[i]))
	}
	return out, nil
}
