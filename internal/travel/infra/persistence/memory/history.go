package memory

import (
	"context"
	"sort"

	"BrowserGame/internal/travel/domain"
)

func (s *Store) RecordBattle(ctx context.Context, r domain.BattleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID()
	s.battles = append(s.battles, r)
	return nil
}

func (s *Store) RecordTrade(ctx context.Context, t domain.TradeTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID()
	s.txns = append(s.txns, t)
	return nil
}

func (s *Store) BattlesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BattleRecord, 0)
	for i := len(s.battles) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		r := s.battles[i]
		if r.AttackerID == id || r.DefenderID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) BattleByArmy(ctx context.Context, armyID domain.ArmyID) (domain.BattleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.battles) - 1; i >= 0; i-- {
		if s.battles[i].ArmyID == armyID {
			return s.battles[i], nil
		}
	}
	return domain.BattleRecord{}, domain.ErrBattleNotFound.WithData("army_id", int64(armyID))
}

func (s *Store) TradesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TradeTransaction, 0)
	for i := len(s.txns) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		t := s.txns[i]
		if t.SourceID == id || t.DestinationID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return domain.TradeOffer{}, domain.ErrOfferNotFound.WithData("offer_id", int64(id))
	}
	return o, nil
}

// ListOffers 按创建时间倒序。
func (s *Store) ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.TradeOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TradeOffer, 0)
	for _, o := range s.offers {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OffererID != 0 && o.OffererID != f.OffererID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
