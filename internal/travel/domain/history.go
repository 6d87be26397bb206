package domain

import "time"

// BattleRecord 战报，只追加不修改。
type BattleRecord struct {
	ID             int64        `json:"id"`
	ArmyID         ArmyID       `json:"army_id"`
	AttackerID     SettlementID `json:"attacker_id"`
	DefenderID     SettlementID `json:"defender_id"`
	OccurredAt     time.Time    `json:"occurred_at"`
	Winner         Winner       `json:"winner"`
	AttackerUnits  Units        `json:"attacker_units"`
	DefenderUnits  Units        `json:"defender_units"`
	AttackerLosses Units        `json:"attacker_losses"`
	DefenderLosses Units        `json:"defender_losses"`
	Plunder        Resources    `json:"plunder"`
	AttackPower    int64        `json:"attack_power"`
	DefensePower   int64        `json:"defense_power"`
}

type TradeStatus string

const (
	TradeCompleted TradeStatus = "completed"
	TradeRefunded  TradeStatus = "refunded"
	TradeVoided    TradeStatus = "voided"
)

// TradeTransaction 商队结算记录，只追加不修改。
type TradeTransaction struct {
	ID            int64        `json:"id"`
	TradeID       TradeID      `json:"trade_id"`
	OfferID       OfferID      `json:"offer_id,omitempty"`
	SourceID      SettlementID `json:"source_id"`
	DestinationID SettlementID `json:"destination_id"`
	Cargo         Resources    `json:"cargo"`
	Status        TradeStatus  `json:"status"`
	CompletedAt   time.Time    `json:"completed_at"`
}
