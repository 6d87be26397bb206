package memory

import (
	"context"
	"sort"
	"sync"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
)

// IDGenerator 由雪花 id 生成器实现。
type IDGenerator interface {
	NextID() int64
}

// Store 进程内存储，实现城池目录、行军账本、战报与挂单全部端口。
// 城池事务按 id 升序持有每个城池的互斥锁，提交时在全局锁下一次性应用。
type Store struct {
	ids IDGenerator

	mu          sync.RWMutex
	settlements map[domain.SettlementID]domain.SettlementState
	armies      map[domain.ArmyID]domain.TravelingArmy
	trades      map[domain.TradeID]domain.TravelingTrade
	offers      map[domain.OfferID]domain.TradeOffer
	battles     []domain.BattleRecord
	txns        []domain.TradeTransaction

	locksMu sync.Mutex
	locks   map[domain.SettlementID]*sync.Mutex
}

func NewStore(ids IDGenerator) *Store {
	return &Store{
		ids:         ids,
		settlements: make(map[domain.SettlementID]domain.SettlementState),
		armies:      make(map[domain.ArmyID]domain.TravelingArmy),
		trades:      make(map[domain.TradeID]domain.TravelingTrade),
		offers:      make(map[domain.OfferID]domain.TradeOffer),
		locks:       make(map[domain.SettlementID]*sync.Mutex),
	}
}

// PutSettlement 由外部城建系统（或测试）写入城池。
func (s *Store) PutSettlement(st domain.SettlementState) {
	unlock := s.lock([]domain.SettlementID{st.ID})
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlements[st.ID] = st
}

// DeleteSettlement 模拟城池被外部系统删除。
func (s *Store) DeleteSettlement(id domain.SettlementID) {
	unlock := s.lock([]domain.SettlementID{id})
	defer unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settlements, id)
}

func (s *Store) GetSettlement(ctx context.Context, id domain.SettlementID) (domain.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settlements[id]
	if !ok {
		return domain.Settlement{}, domain.ErrSettlementNotFound.WithData("settlement_id", int64(id))
	}
	return st.Settlement, nil
}

func (s *Store) ListSettlements(ctx context.Context) ([]domain.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Settlement, 0, len(s.settlements))
	for _, st := range s.settlements {
		out = append(out, st.Settlement)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSettlementState(ctx context.Context, id domain.SettlementID) (domain.SettlementState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settlements[id]
	if !ok {
		return domain.SettlementState{}, domain.ErrSettlementNotFound.WithData("settlement_id", int64(id))
	}
	return st, nil
}

func (s *Store) WithinSettlements(ctx context.Context, ids []domain.SettlementID, fn func(ctx context.Context, tx app.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.lock(app.SortedIDs(ids...))
	defer unlock()

	tx := newTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

// lock 按升序获取城池锁，返回的函数逆序释放。
func (s *Store) lock(ids []domain.SettlementID) func() {
	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		m := s.mutexFor(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (s *Store) mutexFor(id domain.SettlementID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func (s *Store) nextID() int64 {
	return s.ids.NextID()
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
