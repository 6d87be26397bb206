package model

// 同一组模型同时服务 sqlx（db 标签）与 gorm（gorm 标签）；时间列统一存 unix 毫秒。

type Settlement struct {
	Id            int64  `gorm:"column:id;primaryKey;autoIncrement;comment:城池id" db:"id"`
	OwnerId       int64  `gorm:"column:owner_id;not null;index;comment:玩家id" db:"owner_id"`
	Name          string `gorm:"column:name;type:varchar(64);not null;default:'';comment:名称" db:"name"`
	X             int64  `gorm:"column:x;not null;comment:坐标x" db:"x"`
	Y             int64  `gorm:"column:y;not null;comment:坐标y" db:"y"`
	Wood          int64  `gorm:"column:wood;not null;default:0;comment:木" db:"wood"`
	Stone         int64  `gorm:"column:stone;not null;default:0;comment:石" db:"stone"`
	Ore           int64  `gorm:"column:ore;not null;default:0;comment:矿" db:"ore"`
	Gold          int64  `gorm:"column:gold;not null;default:0;comment:金" db:"gold"`
	Guards        int64  `gorm:"column:guards;not null;default:0;comment:守卫" db:"guards"`
	Soldiers      int64  `gorm:"column:soldiers;not null;default:0;comment:步兵" db:"soldiers"`
	Archers       int64  `gorm:"column:archers;not null;default:0;comment:弓手" db:"archers"`
	Cavalry       int64  `gorm:"column:cavalry;not null;default:0;comment:骑兵" db:"cavalry"`
	GuardsLevel   int    `gorm:"column:guards_level;not null;default:1" db:"guards_level"`
	SoldiersLevel int    `gorm:"column:soldiers_level;not null;default:1" db:"soldiers_level"`
	ArchersLevel  int    `gorm:"column:archers_level;not null;default:1" db:"archers_level"`
	CavalryLevel  int    `gorm:"column:cavalry_level;not null;default:1" db:"cavalry_level"`
}

func (*Settlement) TableName() string {
	return "settlements"
}

type Army struct {
	Id            int64  `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	AttackerId    int64  `gorm:"column:attacker_id;not null;index" db:"attacker_id"`
	DefenderId    int64  `gorm:"column:defender_id;not null;index" db:"defender_id"`
	Guards        int64  `gorm:"column:guards;not null" db:"guards"`
	Soldiers      int64  `gorm:"column:soldiers;not null" db:"soldiers"`
	Archers       int64  `gorm:"column:archers;not null" db:"archers"`
	Cavalry       int64  `gorm:"column:cavalry;not null" db:"cavalry"`
	GuardsLevel   int    `gorm:"column:guards_level;not null" db:"guards_level"`
	SoldiersLevel int    `gorm:"column:soldiers_level;not null" db:"soldiers_level"`
	ArchersLevel  int    `gorm:"column:archers_level;not null" db:"archers_level"`
	CavalryLevel  int    `gorm:"column:cavalry_level;not null" db:"cavalry_level"`
	StartAt       int64  `gorm:"column:start_at;not null" db:"start_at"`
	EndAt         int64  `gorm:"column:end_at;not null;index:idx_army_due,priority:2" db:"end_at"`
	Status        int8   `gorm:"column:status;not null;default:0;index:idx_army_due,priority:1;comment:0在途 1已认领 2已结算" db:"status"`
	ClaimToken    string `gorm:"column:claim_token;type:varchar(64);not null;default:'';index" db:"claim_token"`
	ClaimedAt     int64  `gorm:"column:claimed_at;not null;default:0" db:"claimed_at"`
}

func (*Army) TableName() string {
	return "traveling_armies"
}

type Trade struct {
	Id            int64  `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	SourceId      int64  `gorm:"column:source_id;not null;index" db:"source_id"`
	DestinationId int64  `gorm:"column:destination_id;not null;index" db:"destination_id"`
	Wood          int64  `gorm:"column:wood;not null" db:"wood"`
	Stone         int64  `gorm:"column:stone;not null" db:"stone"`
	Ore           int64  `gorm:"column:ore;not null" db:"ore"`
	Gold          int64  `gorm:"column:gold;not null" db:"gold"`
	OfferId       int64  `gorm:"column:offer_id;not null;default:0" db:"offer_id"`
	StartAt       int64  `gorm:"column:start_at;not null" db:"start_at"`
	EndAt         int64  `gorm:"column:end_at;not null;index:idx_trade_due,priority:2" db:"end_at"`
	Status        int8   `gorm:"column:status;not null;default:0;index:idx_trade_due,priority:1" db:"status"`
	ClaimToken    string `gorm:"column:claim_token;type:varchar(64);not null;default:'';index" db:"claim_token"`
	ClaimedAt     int64  `gorm:"column:claimed_at;not null;default:0" db:"claimed_at"`
}

func (*Trade) TableName() string {
	return "traveling_trades"
}

// BattleRecord 兵种与资源明细以 JSON 文本存储。
type BattleRecord struct {
	Id             int64  `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	ArmyId         int64  `gorm:"column:army_id;not null;index" db:"army_id"`
	AttackerId     int64  `gorm:"column:attacker_id;not null;index" db:"attacker_id"`
	DefenderId     int64  `gorm:"column:defender_id;not null;index" db:"defender_id"`
	OccurredAt     int64  `gorm:"column:occurred_at;not null" db:"occurred_at"`
	Winner         string `gorm:"column:winner;type:varchar(16);not null" db:"winner"`
	AttackerUnits  string `gorm:"column:attacker_units;type:text;not null" db:"attacker_units"`
	DefenderUnits  string `gorm:"column:defender_units;type:text;not null" db:"defender_units"`
	AttackerLosses string `gorm:"column:attacker_losses;type:text;not null" db:"attacker_losses"`
	DefenderLosses string `gorm:"column:defender_losses;type:text;not null" db:"defender_losses"`
	Plunder        string `gorm:"column:plunder;type:text;not null" db:"plunder"`
	AttackPower    int64  `gorm:"column:attack_power;not null" db:"attack_power"`
	DefensePower   int64  `gorm:"column:defense_power;not null" db:"defense_power"`
}

func (*BattleRecord) TableName() string {
	return "battle_records"
}

type TradeTransaction struct {
	Id            int64  `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	TradeId       int64  `gorm:"column:trade_id;not null;index" db:"trade_id"`
	OfferId       int64  `gorm:"column:offer_id;not null;default:0" db:"offer_id"`
	SourceId      int64  `gorm:"column:source_id;not null;index" db:"source_id"`
	DestinationId int64  `gorm:"column:destination_id;not null;index" db:"destination_id"`
	Wood          int64  `gorm:"column:wood;not null" db:"wood"`
	Stone         int64  `gorm:"column:stone;not null" db:"stone"`
	Ore           int64  `gorm:"column:ore;not null" db:"ore"`
	Gold          int64  `gorm:"column:gold;not null" db:"gold"`
	Status        string `gorm:"column:status;type:varchar(16);not null" db:"status"`
	CompletedAt   int64  `gorm:"column:completed_at;not null" db:"completed_at"`
}

func (*TradeTransaction) TableName() string {
	return "trade_transactions"
}

type TradeOffer struct {
	Id             int64  `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	OffererId      int64  `gorm:"column:offerer_id;not null;index" db:"offerer_id"`
	OfferedWood    int64  `gorm:"column:offered_wood;not null" db:"offered_wood"`
	OfferedStone   int64  `gorm:"column:offered_stone;not null" db:"offered_stone"`
	OfferedOre     int64  `gorm:"column:offered_ore;not null" db:"offered_ore"`
	OfferedGold    int64  `gorm:"column:offered_gold;not null" db:"offered_gold"`
	RequestedWood  int64  `gorm:"column:requested_wood;not null" db:"requested_wood"`
	RequestedStone int64  `gorm:"column:requested_stone;not null" db:"requested_stone"`
	RequestedOre   int64  `gorm:"column:requested_ore;not null" db:"requested_ore"`
	RequestedGold  int64  `gorm:"column:requested_gold;not null" db:"requested_gold"`
	Status         string `gorm:"column:status;type:varchar(16);not null;index" db:"status"`
	AcceptedBy     int64  `gorm:"column:accepted_by;not null;default:0" db:"accepted_by"`
	CreatedAt      int64  `gorm:"column:created_at;not null;autoCreateTime:false" db:"created_at"`
	UpdatedAt      int64  `gorm:"column:updated_at;not null;autoUpdateTime:false" db:"updated_at"`
}

func (*TradeOffer) TableName() string {
	return "trade_offers"
}
