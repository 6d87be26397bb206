package memory

import (
	"context"
	"sort"

	"BrowserGame/internal/travel/domain"
)

// ClaimDue 在全局写锁下完成挑选与标记，等价于 SQL 的单条条件 UPDATE。
func (s *Store) ClaimDue(ctx context.Context, req domain.ClaimRequest) (domain.ClaimBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := domain.ClaimBatch{Token: req.Token}
	for id, a := range s.armies {
		if !claimable(a.Status, a.EndAt.UnixMilli(), a.ClaimedAt.UnixMilli(), req) {
			continue
		}
		a.Status = domain.StatusClaimed
		a.ClaimToken = req.Token
		a.ClaimedAt = req.Now
		s.armies[id] = a
		batch.Armies = append(batch.Armies, a)
	}
	for id, t := range s.trades {
		if !claimable(t.Status, t.EndAt.UnixMilli(), t.ClaimedAt.UnixMilli(), req) {
			continue
		}
		t.Status = domain.StatusClaimed
		t.ClaimToken = req.Token
		t.ClaimedAt = req.Now
		s.trades[id] = t
		batch.Trades = append(batch.Trades, t)
	}
	sort.Slice(batch.Armies, func(i, j int) bool { return batch.Armies[i].ID < batch.Armies[j].ID })
	sort.Slice(batch.Trades, func(i, j int) bool { return batch.Trades[i].ID < batch.Trades[j].ID })
	return batch, nil
}

func claimable(status domain.EntryStatus, endAt, claimedAt int64, req domain.ClaimRequest) bool {
	switch status {
	case domain.StatusTraveling:
		return endAt <= req.Now.UnixMilli()
	case domain.StatusClaimed:
		return claimedAt <= req.StaleBefore.UnixMilli()
	}
	return false
}

func (s *Store) ReleaseArmy(ctx context.Context, id domain.ArmyID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.armies[id]
	if !ok || a.Status != domain.StatusClaimed || a.ClaimToken != token {
		return nil
	}
	a.Status = domain.StatusTraveling
	a.ClaimToken = ""
	s.armies[id] = a
	return nil
}

func (s *Store) ReleaseTrade(ctx context.Context, id domain.TradeID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trades[id]
	if !ok || t.Status != domain.StatusClaimed || t.ClaimToken != token {
		return nil
	}
	t.Status = domain.StatusTraveling
	t.ClaimToken = ""
	s.trades[id] = t
	return nil
}

func (s *Store) GetArmy(ctx context.Context, id domain.ArmyID) (domain.TravelingArmy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.armies[id]
	if !ok {
		return domain.TravelingArmy{}, domain.ErrArmyNotFound.WithData("army_id", int64(id))
	}
	return a, nil
}

func (s *Store) ListArmies(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingArmy, error) {
	return s.filterArmies(func(a domain.TravelingArmy) bool {
		if dir == domain.DirectionIncoming {
			return a.DefenderID == settlementID
		}
		return a.AttackerID == settlementID
	}), nil
}

func (s *Store) ListTrades(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingTrade, error) {
	return s.filterTrades(func(t domain.TravelingTrade) bool {
		if dir == domain.DirectionIncoming {
			return t.DestinationID == settlementID
		}
		return t.SourceID == settlementID
	}), nil
}

func (s *Store) ListAllArmies(ctx context.Context) ([]domain.TravelingArmy, error) {
	return s.filterArmies(func(domain.TravelingArmy) bool { return true }), nil
}

func (s *Store) ListAllTrades(ctx context.Context) ([]domain.TravelingTrade, error) {
	return s.filterTrades(func(domain.TravelingTrade) bool { return true }), nil
}

// filterArmies 只返回未结算条目，按到达时间升序。
func (s *Store) filterArmies(keep func(domain.TravelingArmy) bool) []domain.TravelingArmy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TravelingArmy, 0)
	for _, a := range s.armies {
		if a.Status != domain.StatusResolved && keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndAt.Equal(out[j].EndAt) {
			return out[i].EndAt.Before(out[j].EndAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) filterTrades(keep func(domain.TravelingTrade) bool) []domain.TravelingTrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TravelingTrade, 0)
	for _, t := range s.trades {
		if t.Status != domain.StatusResolved && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndAt.Equal(out[j].EndAt) {
			return out[i].EndAt.Before(out[j].EndAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
