package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/model"
)

func SettlementModelToDomain(m *model.Settlement) domain.SettlementState {
	return domain.SettlementState{
		Settlement: domain.Settlement{
			ID:      domain.SettlementID(m.Id),
			OwnerID: domain.PlayerID(m.OwnerId),
			Name:    m.Name,
			Coord:   domain.Coord{X: m.X, Y: m.Y},
		},
		Resources: domain.Resources{Wood: m.Wood, Stone: m.Stone, Ore: m.Ore, Gold: m.Gold},
		Garrison:  domain.Units{Guards: m.Guards, Soldiers: m.Soldiers, Archers: m.Archers, Cavalry: m.Cavalry},
		Levels: domain.UnitLevels{
			Guards: m.GuardsLevel, Soldiers: m.SoldiersLevel, Archers: m.ArchersLevel, Cavalry: m.CavalryLevel,
		}.Normalize(),
	}
}

func SettlementDomainToModel(s domain.SettlementState) *model.Settlement {
	lv := s.Levels.Normalize()
	return &model.Settlement{
		Id:            int64(s.ID),
		OwnerId:       int64(s.OwnerID),
		Name:          s.Name,
		X:             s.Coord.X,
		Y:             s.Coord.Y,
		Wood:          s.Resources.Wood,
		Stone:         s.Resources.Stone,
		Ore:           s.Resources.Ore,
		Gold:          s.Resources.Gold,
		Guards:        s.Garrison.Guards,
		Soldiers:      s.Garrison.Soldiers,
		Archers:       s.Garrison.Archers,
		Cavalry:       s.Garrison.Cavalry,
		GuardsLevel:   lv.Guards,
		SoldiersLevel: lv.Soldiers,
		ArchersLevel:  lv.Archers,
		CavalryLevel:  lv.Cavalry,
	}
}

func ArmyModelToDomain(m *model.Army) domain.TravelingArmy {
	return domain.TravelingArmy{
		ID:         domain.ArmyID(m.Id),
		AttackerID: domain.SettlementID(m.AttackerId),
		DefenderID: domain.SettlementID(m.DefenderId),
		Units:      domain.Units{Guards: m.Guards, Soldiers: m.Soldiers, Archers: m.Archers, Cavalry: m.Cavalry},
		Levels: domain.UnitLevels{
			Guards: m.GuardsLevel, Soldiers: m.SoldiersLevel, Archers: m.ArchersLevel, Cavalry: m.CavalryLevel,
		},
		StartAt:    FromMillis(m.StartAt),
		EndAt:      FromMillis(m.EndAt),
		Status:     domain.EntryStatus(m.Status),
		ClaimToken: m.ClaimToken,
		ClaimedAt:  FromMillis(m.ClaimedAt),
	}
}

func ArmyDomainToModel(a domain.TravelingArmy) *model.Army {
	return &model.Army{
		Id:            int64(a.ID),
		AttackerId:    int64(a.AttackerID),
		DefenderId:    int64(a.DefenderID),
		Guards:        a.Units.Guards,
		Soldiers:      a.Units.Soldiers,
		Archers:       a.Units.Archers,
		Cavalry:       a.Units.Cavalry,
		GuardsLevel:   a.Levels.Guards,
		SoldiersLevel: a.Levels.Soldiers,
		ArchersLevel:  a.Levels.Archers,
		CavalryLevel:  a.Levels.Cavalry,
		StartAt:       ToMillis(a.StartAt),
		EndAt:         ToMillis(a.EndAt),
		Status:        int8(a.Status),
		ClaimToken:    a.ClaimToken,
		ClaimedAt:     ToMillis(a.ClaimedAt),
	}
}

func TradeModelToDomain(m *model.Trade) domain.TravelingTrade {
	return domain.TravelingTrade{
		ID:            domain.TradeID(m.Id),
		SourceID:      domain.SettlementID(m.SourceId),
		DestinationID: domain.SettlementID(m.DestinationId),
		Cargo:         domain.Resources{Wood: m.Wood, Stone: m.Stone, Ore: m.Ore, Gold: m.Gold},
		OfferID:       domain.OfferID(m.OfferId),
		StartAt:       FromMillis(m.StartAt),
		EndAt:         FromMillis(m.EndAt),
		Status:        domain.EntryStatus(m.Status),
		ClaimToken:    m.ClaimToken,
		ClaimedAt:     FromMillis(m.ClaimedAt),
	}
}

func TradeDomainToModel(t domain.TravelingTrade) *model.Trade {
	return &model.Trade{
		Id:            int64(t.ID),
		SourceId:      int64(t.SourceID),
		DestinationId: int64(t.DestinationID),
		Wood:          t.Cargo.Wood,
		Stone:         t.Cargo.Stone,
		Ore:           t.Cargo.Ore,
		Gold:          t.Cargo.Gold,
		OfferId:       int64(t.OfferID),
		StartAt:       ToMillis(t.StartAt),
		EndAt:         ToMillis(t.EndAt),
		Status:        int8(t.Status),
		ClaimToken:    t.ClaimToken,
		ClaimedAt:     ToMillis(t.ClaimedAt),
	}
}

func BattleDomainToModel(r domain.BattleRecord) (*model.BattleRecord, error) {
	m := &model.BattleRecord{
		Id:           r.ID,
		ArmyId:       int64(r.ArmyID),
		AttackerId:   int64(r.AttackerID),
		DefenderId:   int64(r.DefenderID),
		OccurredAt:   ToMillis(r.OccurredAt),
		Winner:       string(r.Winner),
		AttackPower:  r.AttackPower,
		DefensePower: r.DefensePower,
	}
	var err error
	if m.AttackerUnits, err = encode(r.AttackerUnits); err != nil {
		return nil, err
	}
	if m.DefenderUnits, err = encode(r.DefenderUnits); err != nil {
		return nil, err
	}
	if m.AttackerLosses, err = encode(r.AttackerLosses); err != nil {
		return nil, err
	}
	if m.DefenderLosses, err = encode(r.DefenderLosses); err != nil {
		return nil, err
	}
	if m.Plunder, err = encode(r.Plunder); err != nil {
		return nil, err
	}
	return m, nil
}

func BattleModelToDomain(m *model.BattleRecord) (domain.BattleRecord, error) {
	r := domain.BattleRecord{
		ID:           m.Id,
		ArmyID:       domain.ArmyID(m.ArmyId),
		AttackerID:   domain.SettlementID(m.AttackerId),
		DefenderID:   domain.SettlementID(m.DefenderId),
		OccurredAt:   FromMillis(m.OccurredAt),
		Winner:       domain.Winner(m.Winner),
		AttackPower:  m.AttackPower,
		DefensePower: m.DefensePower,
	}
	for _, f := range []struct {
		raw string
		dst any
	}{
		{m.AttackerUnits, &r.AttackerUnits},
		{m.DefenderUnits, &r.DefenderUnits},
		{m.AttackerLosses, &r.AttackerLosses},
		{m.DefenderLosses, &r.DefenderLosses},
		{m.Plunder, &r.Plunder},
	} {
		if f.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return domain.BattleRecord{}, fmt.Errorf("decode battle record %d: %w", m.Id, err)
		}
	}
	return r, nil
}

func TradeTxnDomainToModel(t domain.TradeTransaction) *model.TradeTransaction {
	return &model.TradeTransaction{
		Id:            t.ID,
		TradeId:       int64(t.TradeID),
		OfferId:       int64(t.OfferID),
		SourceId:      int64(t.SourceID),
		DestinationId: int64(t.DestinationID),
		Wood:          t.Cargo.Wood,
		Stone:         t.Cargo.Stone,
		Ore:           t.Cargo.Ore,
		Gold:          t.Cargo.Gold,
		Status:        string(t.Status),
		CompletedAt:   ToMillis(t.CompletedAt),
	}
}

func TradeTxnModelToDomain(m *model.TradeTransaction) domain.TradeTransaction {
	return domain.TradeTransaction{
		ID:            m.Id,
		TradeID:       domain.TradeID(m.TradeId),
		OfferID:       domain.OfferID(m.OfferId),
		SourceID:      domain.SettlementID(m.SourceId),
		DestinationID: domain.SettlementID(m.DestinationId),
		Cargo:         domain.Resources{Wood: m.Wood, Stone: m.Stone, Ore: m.Ore, Gold: m.Gold},
		Status:        domain.TradeStatus(m.Status),
		CompletedAt:   FromMillis(m.CompletedAt),
	}
}

func OfferDomainToModel(o domain.TradeOffer) *model.TradeOffer {
	return &model.TradeOffer{
		Id:             int64(o.ID),
		OffererId:      int64(o.OffererID),
		OfferedWood:    o.Offered.Wood,
		OfferedStone:   o.Offered.Stone,
		OfferedOre:     o.Offered.Ore,
		OfferedGold:    o.Offered.Gold,
		RequestedWood:  o.Requested.Wood,
		RequestedStone: o.Requested.Stone,
		RequestedOre:   o.Requested.Ore,
		RequestedGold:  o.Requested.Gold,
		Status:         string(o.Status),
		AcceptedBy:     int64(o.AcceptedBy),
		CreatedAt:      ToMillis(o.CreatedAt),
		UpdatedAt:      ToMillis(o.UpdatedAt),
	}
}

func OfferModelToDomain(m *model.TradeOffer) domain.TradeOffer {
	return domain.TradeOffer{
		ID:         domain.OfferID(m.Id),
		OffererID:  domain.SettlementID(m.OffererId),
		Offered:    domain.Resources{Wood: m.OfferedWood, Stone: m.OfferedStone, Ore: m.OfferedOre, Gold: m.OfferedGold},
		Requested:  domain.Resources{Wood: m.RequestedWood, Stone: m.RequestedStone, Ore: m.RequestedOre, Gold: m.RequestedGold},
		Status:     domain.OfferStatus(m.Status),
		AcceptedBy: domain.SettlementID(m.AcceptedBy),
		CreatedAt:  FromMillis(m.CreatedAt),
		UpdatedAt:  FromMillis(m.UpdatedAt),
	}
}

// ToMillis 零值时间存 0。
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
