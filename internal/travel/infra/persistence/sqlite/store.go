package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"

	"github.com/jmoiron/sqlx"
)

// Store 基于 sqlite 的单机存储，实现全部端口。
// sqlite 只有库级写锁（连接以 _txlock=immediate 打开），城池事务天然串行。
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate 建表，可重复执行。
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storeErr("migrate", err)
	}
	return nil
}

// PutSettlement 由外部城建系统写入城池；ID 为 0 时自增分配。
func (s *Store) PutSettlement(ctx context.Context, st domain.SettlementState) (domain.SettlementState, error) {
	m := mapper.SettlementDomainToModel(st)
	if m.Id == 0 {
		res, err := s.db.NamedExecContext(ctx, insertSettlementSQL, m)
		if err != nil {
			return domain.SettlementState{}, storeErr("put_settlement", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.SettlementState{}, storeErr("put_settlement", err)
		}
		m.Id = id
	} else if _, err := s.db.NamedExecContext(ctx, upsertSettlementSQL, m); err != nil {
		return domain.SettlementState{}, storeErr("put_settlement", err)
	}
	return mapper.SettlementModelToDomain(m), nil
}

func (s *Store) DeleteSettlement(ctx context.Context, id domain.SettlementID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = ?`, int64(id)); err != nil {
		return storeErr("delete_settlement", err)
	}
	return nil
}

func (s *Store) GetSettlement(ctx context.Context, id domain.SettlementID) (domain.Settlement, error) {
	st, err := s.GetSettlementState(ctx, id)
	if err != nil {
		return domain.Settlement{}, err
	}
	return st.Settlement, nil
}

func (s *Store) ListSettlements(ctx context.Context) ([]domain.Settlement, error) {
	var rows []model.Settlement
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM settlements ORDER BY id`); err != nil {
		return nil, storeErr("list_settlements", err)
	}
	out := make([]domain.Settlement, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.SettlementModelToDomain(&rows[i]).Settlement)
	}
	return out, nil
}

func (s *Store) GetSettlementState(ctx context.Context, id domain.SettlementID) (domain.SettlementState, error) {
	var m model.Settlement
	err := s.db.GetContext(ctx, &m, `SELECT * FROM settlements WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SettlementState{}, domain.ErrSettlementNotFound.WithData("settlement_id", int64(id))
	}
	if err != nil {
		return domain.SettlementState{}, storeErr("get_settlement", err)
	}
	return mapper.SettlementModelToDomain(&m), nil
}

func (s *Store) WithinSettlements(ctx context.Context, ids []domain.SettlementID, fn func(ctx context.Context, tx app.Tx) error) error {
	return s.inTx(ctx, "within_settlements", func(t *sqlx.Tx) error {
		return fn(ctx, &tx{tx: t})
	})
}

// inTx fn 的错误原样返回，只有开启/提交失败才包装为存储错误。
func (s *Store) inTx(ctx context.Context, op string, fn func(t *sqlx.Tx) error) error {
	t, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(op+" begin", err)
	}
	if err = fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	if err = t.Commit(); err != nil {
		return storeErr(op+" commit", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return domain.ErrSystemUnavailable.WithCause(err).WithData("op", op).WithData("store", "sqlite")
}

var (
	_ app.SettlementDirectory = (*Store)(nil)
	_ app.SettlementReader    = (*Store)(nil)
	_ app.UnitOfWork          = (*Store)(nil)
	_ app.TravelLedger        = (*Store)(nil)
	_ app.OfferReader         = (*Store)(nil)
	_ app.HistoryRecorder     = (*Store)(nil)
	_ app.HistoryReader       = (*Store)(nil)
)
