package memory

import (
	"context"

	"BrowserGame/internal/travel/domain"
)

type finalizeCheck struct {
	kind  domain.EntryKind
	id    int64
	token string
}

// tx 暂存所有写入，commit 时先复核认领令牌再整体应用。
type tx struct {
	s *Store

	settlements map[domain.SettlementID]domain.SettlementState
	armies      []domain.TravelingArmy
	trades      []domain.TravelingTrade
	offers      map[domain.OfferID]domain.TradeOffer
	finalize    []finalizeCheck
}

func newTx(s *Store) *tx {
	return &tx{
		s:           s,
		settlements: make(map[domain.SettlementID]domain.SettlementState),
		offers:      make(map[domain.OfferID]domain.TradeOffer),
	}
}

func (t *tx) LoadSettlement(ctx context.Context, id domain.SettlementID) (domain.SettlementState, bool, error) {
	if st, ok := t.settlements[id]; ok {
		return st, true, nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	st, ok := t.s.settlements[id]
	return st, ok, nil
}

func (t *tx) SaveSettlement(ctx context.Context, st domain.SettlementState) error {
	if st.Garrison.HasNegative() || st.Resources.HasNegative() {
		return domain.ErrNegativeBalance.WithData("settlement_id", int64(st.ID)).WithData("op", "save_settlement")
	}
	t.settlements[st.ID] = st
	return nil
}

func (t *tx) InsertArmy(ctx context.Context, a domain.TravelingArmy) (domain.TravelingArmy, error) {
	a.ID = domain.ArmyID(t.s.nextID())
	t.armies = append(t.armies, a)
	return a, nil
}

func (t *tx) InsertTrade(ctx context.Context, tr domain.TravelingTrade) (domain.TravelingTrade, error) {
	tr.ID = domain.TradeID(t.s.nextID())
	t.trades = append(t.trades, tr)
	return tr, nil
}

func (t *tx) FinalizeArmy(ctx context.Context, id domain.ArmyID, token string) error {
	t.s.mu.RLock()
	a, ok := t.s.armies[id]
	t.s.mu.RUnlock()
	if !ok || a.Status != domain.StatusClaimed || a.ClaimToken != token {
		return domain.ErrClaimLost.WithData("army_id", int64(id))
	}
	t.finalize = append(t.finalize, finalizeCheck{kind: domain.KindArmy, id: int64(id), token: token})
	return nil
}

func (t *tx) FinalizeTrade(ctx context.Context, id domain.TradeID, token string) error {
	t.s.mu.RLock()
	tr, ok := t.s.trades[id]
	t.s.mu.RUnlock()
	if !ok || tr.Status != domain.StatusClaimed || tr.ClaimToken != token {
		return domain.ErrClaimLost.WithData("trade_id", int64(id))
	}
	t.finalize = append(t.finalize, finalizeCheck{kind: domain.KindTrade, id: int64(id), token: token})
	return nil
}

func (t *tx) InsertOffer(ctx context.Context, o domain.TradeOffer) (domain.TradeOffer, error) {
	o.ID = domain.OfferID(t.s.nextID())
	t.offers[o.ID] = o
	return o, nil
}

func (t *tx) LoadOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	if o, ok := t.offers[id]; ok {
		return o, nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	o, ok := t.s.offers[id]
	if !ok {
		return domain.TradeOffer{}, domain.ErrOfferNotFound.WithData("offer_id", int64(id))
	}
	return o, nil
}

func (t *tx) SaveOffer(ctx context.Context, o domain.TradeOffer) error {
	t.offers[o.ID] = o
	return nil
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range t.finalize {
		if !s.stillClaimed(f) {
			return domain.ErrClaimLost.WithData("entry_id", f.id)
		}
	}
	for id, st := range t.settlements {
		// 事务期间被外部删除的城池不再写回
		if _, ok := s.settlements[id]; ok {
			s.settlements[id] = st
		}
	}
	for _, a := range t.armies {
		s.armies[a.ID] = a
	}
	for _, tr := range t.trades {
		s.trades[tr.ID] = tr
	}
	for id, o := range t.offers {
		s.offers[id] = o
	}
	for _, f := range t.finalize {
		switch f.kind {
		case domain.KindArmy:
			a := s.armies[domain.ArmyID(f.id)]
			a.Status = domain.StatusResolved
			s.armies[a.ID] = a
		case domain.KindTrade:
			tr := s.trades[domain.TradeID(f.id)]
			tr.Status = domain.StatusResolved
			s.trades[tr.ID] = tr
		}
	}
	return nil
}

func (s *Store) stillClaimed(f finalizeCheck) bool {
	switch f.kind {
	case domain.KindArmy:
		a, ok := s.armies[domain.ArmyID(f.id)]
		return ok && a.Status == domain.StatusClaimed && a.ClaimToken == f.token
	case domain.KindTrade:
		tr, ok := s.trades[domain.TradeID(f.id)]
		return ok && tr.Status == domain.StatusClaimed && tr.ClaimToken == f.token
	}
	return false
}
