package mysql

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
	"BrowserGame/internal/travel/infra/persistence/model"
	"BrowserGame/modules/kit/errx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 基于 gorm + mysql，实现全部端口。城池事务用 SELECT ... FOR UPDATE 按 id 升序锁行。
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

const OpAutoMigrate = "repo.travel.AutoMigrate"

// AutoMigrate 只用于开发环境建表。
func (s *Store) AutoMigrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&model.Settlement{},
		&model.Army{},
		&model.Trade{},
		&model.BattleRecord{},
		&model.TradeTransaction{},
		&model.TradeOffer{},
	)
	if err != nil {
		return storeErr(OpAutoMigrate, err)
	}
	return nil
}

const OpPutSettlement = "repo.travel.PutSettlement"

// PutSettlement 由外部城建系统写入城池；ID 为 0 时自增分配。
func (s *Store) PutSettlement(ctx context.Context, st domain.SettlementState) (domain.SettlementState, error) {
	m := mapper.SettlementDomainToModel(st)
	var err error
	if m.Id == 0 {
		err = s.db.WithContext(ctx).Create(m).Error
	} else {
		err = s.db.WithContext(ctx).Save(m).Error
	}
	if err != nil {
		return domain.SettlementState{}, storeErr(OpPutSettlement, err)
	}
	return mapper.SettlementModelToDomain(m), nil
}

const OpDeleteSettlement = "repo.travel.DeleteSettlement"

func (s *Store) DeleteSettlement(ctx context.Context, id domain.SettlementID) error {
	if err := s.db.WithContext(ctx).Delete(&model.Settlement{}, int64(id)).Error; err != nil {
		return storeErr(OpDeleteSettlement, err)
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

const OpListSettlements = "repo.travel.ListSettlements"

func (s *Store) ListSettlements(ctx context.Context) ([]domain.Settlement, error) {
	var rows []model.Settlement
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, storeErr(OpListSettlements, err)
	}
	out := make([]domain.Settlement, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.SettlementModelToDomain(&rows[i]).Settlement)
	}
	return out, nil
}

const OpGetSettlementState = "repo.travel.GetSettlementState"

func (s *Store) GetSettlementState(ctx context.Context, id domain.SettlementID) (domain.SettlementState, error) {
	var m model.Settlement
	err := s.db.WithContext(ctx).Where("id = ?", int64(id)).Take(&m).Error
	switch {
	case err == nil:
		return mapper.SettlementModelToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.SettlementState{}, domain.ErrSettlementNotFound.WithData("settlement_id", int64(id))
	default:
		return domain.SettlementState{}, storeErr(OpGetSettlementState, err).WithData("settlement_id", int64(id))
	}
}

const OpWithinSettlements = "repo.travel.WithinSettlements"

func (s *Store) WithinSettlements(ctx context.Context, ids []domain.SettlementID, fn func(ctx context.Context, tx app.Tx) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var locked []model.Settlement
		if err := lockSettlements(db, app.SortedIDs(ids...)).Find(&locked).Error; err != nil {
			return storeErr(OpWithinSettlements, err)
		}
		fnErr = fn(ctx, &tx{db: db})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		if errx.CodeOf(err) != "" {
			return err
		}
		return storeErr(OpWithinSettlements+" commit", err)
	}
	return nil
}

// lockSettlements 按 id 升序加行锁，已删除的城池不会出现在结果里。
func lockSettlements(db *gorm.DB, ids []domain.SettlementID) *gorm.DB {
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", raw).
		Order("id")
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
