package mongodb

import (
	"BrowserGame/internal/travel/domain"
	"BrowserGame/internal/travel/infra/persistence/mapper"
)

type unitsDoc struct {
	Guards   int64 `bson:"guards"`
	Soldiers int64 `bson:"soldiers"`
	Archers  int64 `bson:"archers"`
	Cavalry  int64 `bson:"cavalry"`
}

type resourcesDoc struct {
	Wood  int64 `bson:"wood"`
	Stone int64 `bson:"stone"`
	Ore   int64 `bson:"ore"`
	Gold  int64 `bson:"gold"`
}

type battleDoc struct {
	ID             int64        `bson:"_id"`
	ArmyID         int64        `bson:"army_id"`
	AttackerID     int64        `bson:"attacker_id"`
	DefenderID     int64        `bson:"defender_id"`
	OccurredAt     int64        `bson:"occurred_at"`
	Winner         string       `bson:"winner"`
	AttackerUnits  unitsDoc     `bson:"attacker_units"`
	DefenderUnits  unitsDoc     `bson:"defender_units"`
	AttackerLosses unitsDoc     `bson:"attacker_losses"`
	DefenderLosses unitsDoc     `bson:"defender_losses"`
	Plunder        resourcesDoc `bson:"plunder"`
	AttackPower    int64        `bson:"attack_power"`
	DefensePower   int64        `bson:"defense_power"`
}

type tradeDoc struct {
	ID            int64        `bson:"_id"`
	TradeID       int64        `bson:"trade_id"`
	OfferID       int64        `bson:"offer_id"`
	SourceID      int64        `bson:"source_id"`
	DestinationID int64        `bson:"destination_id"`
	Cargo         resourcesDoc `bson:"cargo"`
	Status        string       `bson:"status"`
	CompletedAt   int64        `bson:"completed_at"`
}

func toUnitsDoc(u domain.Units) unitsDoc {
	return unitsDoc{Guards: u.Guards, Soldiers: u.Soldiers, Archers: u.Archers, Cavalry: u.Cavalry}
}

func (d unitsDoc) units() domain.Units {
	return domain.Units{Guards: d.Guards, Soldiers: d.Soldiers, Archers: d.Archers, Cavalry: d.Cavalry}
}

func toResourcesDoc(r domain.Resources) resourcesDoc {
	return resourcesDoc{Wood: r.Wood, Stone: r.Stone, Ore: r.Ore, Gold: r.Gold}
}

func (d resourcesDoc) resources() domain.Resources {
	return domain.Resources{Wood: d.Wood, Stone: d.Stone, Ore: d.Ore, Gold: d.Gold}
}

func battleToDoc(r domain.BattleRecord) battleDoc {
	return battleDoc{
		ID:             r.ID,
		ArmyID:         int64(r.ArmyID),
		AttackerID:     int64(r.AttackerID),
		DefenderID:     int64(r.DefenderID),
		OccurredAt:     mapper.ToMillis(r.OccurredAt),
		Winner:         string(r.Winner),
		AttackerUnits:  toUnitsDoc(r.AttackerUnits),
		DefenderUnits:  toUnitsDoc(r.DefenderUnits),
		AttackerLosses: toUnitsDoc(r.AttackerLosses),
		DefenderLosses: toUnitsDoc(r.DefenderLosses),
		Plunder:        toResourcesDoc(r.Plunder),
		AttackPower:    r.AttackPower,
		DefensePower:   r.DefensePower,
	}
}

func (d battleDoc) record() domain.BattleRecord {
	return domain.BattleRecord{
		ID:             d.ID,
		ArmyID:         domain.ArmyID(d.ArmyID),
		AttackerID:     domain.SettlementID(d.AttackerID),
		DefenderID:     domain.SettlementID(d.DefenderID),
		OccurredAt:     mapper.FromMillis(d.OccurredAt),
		Winner:         domain.Winner(d.Winner),
		AttackerUnits:  d.AttackerUnits.units(),
		DefenderUnits:  d.DefenderUnits.units(),
		AttackerLosses: d.AttackerLosses.units(),
		DefenderLosses: d.DefenderLosses.units(),
		Plunder:        d.Plunder.resources(),
		AttackPower:    d.AttackPower,
		DefensePower:   d.DefensePower,
	}
}

func tradeToDoc(t domain.TradeTransaction) tradeDoc {
	return tradeDoc{
		ID:            t.ID,
		TradeID:       int64(t.TradeID),
		OfferID:       int64(t.OfferID),
		SourceID:      int64(t.SourceID),
		DestinationID: int64(t.DestinationID),
		Cargo:         toResourcesDoc(t.Cargo),
		Status:        string(t.Status),
		CompletedAt:   mapper.ToMillis(t.CompletedAt),
	}
}

func (d tradeDoc) transaction() domain.TradeTransaction {
	return domain.TradeTransaction{
		ID:            d.ID,
		TradeID:       domain.TradeID(d.TradeID),
		OfferID:       domain.OfferID(d.OfferID),
		SourceID:      domain.SettlementID(d.SourceID),
		DestinationID: domain.SettlementID(d.DestinationID),
		Cargo:         d.Cargo.resources(),
		Status:        domain.TradeStatus(d.Status),
		CompletedAt:   mapper.FromMillis(d.CompletedAt),
	}
}
