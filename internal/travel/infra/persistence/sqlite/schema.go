package sqlite

// schema 与 model 包的 db 标签一一对应；状态 0 在途 1 已认领 2 已结算。
const schema = `
CREATE TABLE IF NOT EXISTS settlements (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id       INTEGER NOT NULL,
	name           TEXT    NOT NULL DEFAULT '',
	x              INTEGER NOT NULL,
	y              INTEGER NOT NULL,
	wood           INTEGER NOT NULL DEFAULT 0,
	stone          INTEGER NOT NULL DEFAULT 0,
	ore            INTEGER NOT NULL DEFAULT 0,
	gold           INTEGER NOT NULL DEFAULT 0,
	guards         INTEGER NOT NULL DEFAULT 0,
	soldiers       INTEGER NOT NULL DEFAULT 0,
	archers        INTEGER NOT NULL DEFAULT 0,
	cavalry        INTEGER NOT NULL DEFAULT 0,
	guards_level   INTEGER NOT NULL DEFAULT 1,
	soldiers_level INTEGER NOT NULL DEFAULT 1,
	archers_level  INTEGER NOT NULL DEFAULT 1,
	cavalry_level  INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_settlements_owner ON settlements(owner_id);

CREATE TABLE IF NOT EXISTS traveling_armies (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	attacker_id    INTEGER NOT NULL,
	defender_id    INTEGER NOT NULL,
	guards         INTEGER NOT NULL,
	soldiers       INTEGER NOT NULL,
	archers        INTEGER NOT NULL,
	cavalry        INTEGER NOT NULL,
	guards_level   INTEGER NOT NULL,
	soldiers_level INTEGER NOT NULL,
	archers_level  INTEGER NOT NULL,
	cavalry_level  INTEGER NOT NULL,
	start_at       INTEGER NOT NULL,
	end_at         INTEGER NOT NULL,
	status         INTEGER NOT NULL DEFAULT 0,
	claim_token    TEXT    NOT NULL DEFAULT '',
	claimed_at     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_army_due ON traveling_armies(status, end_at);
CREATE INDEX IF NOT EXISTS idx_army_token ON traveling_armies(claim_token);
CREATE INDEX IF NOT EXISTS idx_army_attacker ON traveling_armies(attacker_id);
CREATE INDEX IF NOT EXISTS idx_army_defender ON traveling_armies(defender_id);

CREATE TABLE IF NOT EXISTS traveling_trades (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id      INTEGER NOT NULL,
	destination_id INTEGER NOT NULL,
	wood           INTEGER NOT NULL,
	stone          INTEGER NOT NULL,
	ore            INTEGER NOT NULL,
	gold           INTEGER NOT NULL,
	offer_id       INTEGER NOT NULL DEFAULT 0,
	start_at       INTEGER NOT NULL,
	end_at         INTEGER NOT NULL,
	status         INTEGER NOT NULL DEFAULT 0,
	claim_token    TEXT    NOT NULL DEFAULT '',
	claimed_at     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_trade_due ON traveling_trades(status, end_at);
CREATE INDEX IF NOT EXISTS idx_trade_token ON traveling_trades(claim_token);
CREATE INDEX IF NOT EXISTS idx_trade_source ON traveling_trades(source_id);
CREATE INDEX IF NOT EXISTS idx_trade_destination ON traveling_trades(destination_id);

CREATE TABLE IF NOT EXISTS battle_records (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	army_id         INTEGER NOT NULL,
	attacker_id     INTEGER NOT NULL,
	defender_id     INTEGER NOT NULL,
	occurred_at     INTEGER NOT NULL,
	winner          TEXT    NOT NULL,
	attacker_units  TEXT    NOT NULL,
	defender_units  TEXT    NOT NULL,
	attacker_losses TEXT    NOT NULL,
	defender_losses TEXT    NOT NULL,
	plunder         TEXT    NOT NULL,
	attack_power    INTEGER NOT NULL,
	defense_power   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_battle_army ON battle_records(army_id);
CREATE INDEX IF NOT EXISTS idx_battle_attacker ON battle_records(attacker_id);
CREATE INDEX IF NOT EXISTS idx_battle_defender ON battle_records(defender_id);

CREATE TABLE IF NOT EXISTS trade_transactions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id       INTEGER NOT NULL,
	offer_id       INTEGER NOT NULL DEFAULT 0,
	source_id      INTEGER NOT NULL,
	destination_id INTEGER NOT NULL,
	wood           INTEGER NOT NULL,
	stone          INTEGER NOT NULL,
	ore            INTEGER NOT NULL,
	gold           INTEGER NOT NULL,
	status         TEXT    NOT NULL,
	completed_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_txn_source ON trade_transactions(source_id);
CREATE INDEX IF NOT EXISTS idx_txn_destination ON trade_transactions(destination_id);

CREATE TABLE IF NOT EXISTS trade_offers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	offerer_id      INTEGER NOT NULL,
	offered_wood    INTEGER NOT NULL,
	offered_stone   INTEGER NOT NULL,
	offered_ore     INTEGER NOT NULL,
	offered_gold    INTEGER NOT NULL,
	requested_wood  INTEGER NOT NULL,
	requested_stone INTEGER NOT NULL,
	requested_ore   INTEGER NOT NULL,
	requested_gold  INTEGER NOT NULL,
	status          TEXT    NOT NULL,
	accepted_by     INTEGER NOT NULL DEFAULT 0,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offer_status ON trade_offers(status);
CREATE INDEX IF NOT EXISTS idx_offer_offerer ON trade_offers(offerer_id);
`

const (
	insertSettlementSQL = `INSERT INTO settlements
	(owner_id, name, x, y, wood, stone, ore, gold, guards, soldiers, archers, cavalry,
	 guards_level, soldiers_level, archers_level, cavalry_level)
	VALUES (:owner_id, :name, :x, :y, :wood, :stone, :ore, :gold, :guards, :soldiers, :archers, :cavalry,
	 :guards_level, :soldiers_level, :archers_level, :cavalry_level)`

	upsertSettlementSQL = `INSERT INTO settlements
	(id, owner_id, name, x, y, wood, stone, ore, gold, guards, soldiers, archers, cavalry,
	 guards_level, soldiers_level, archers_level, cavalry_level)
	VALUES (:id, :owner_id, :name, :x, :y, :wood, :stone, :ore, :gold, :guards, :soldiers, :archers, :cavalry,
	 :guards_level, :soldiers_level, :archers_level, :cavalry_level)
	ON CONFLICT(id) DO UPDATE SET
	 owner_id=excluded.owner_id, name=excluded.name, x=excluded.x, y=excluded.y,
	 wood=excluded.wood, stone=excluded.stone, ore=excluded.ore, gold=excluded.gold,
	 guards=excluded.guards, soldiers=excluded.soldiers, archers=excluded.archers, cavalry=excluded.cavalry,
	 guards_level=excluded.guards_level, soldiers_level=excluded.soldiers_level,
	 archers_level=excluded.archers_level, cavalry_level=excluded.cavalry_level`

	// 结算只改账本列，坐标与归属由外部系统维护
	updateLedgerSQL = `UPDATE settlements SET
	 wood=:wood, stone=:stone, ore=:ore, gold=:gold,
	 guards=:guards, soldiers=:soldiers, archers=:archers, cavalry=:cavalry
	 WHERE id=:id`

	insertArmySQL = `INSERT INTO traveling_armies
	(attacker_id, defender_id, guards, soldiers, archers, cavalry,
	 guards_level, soldiers_level, archers_level, cavalry_level,
	 start_at, end_at, status, claim_token, claimed_at)
	VALUES (:attacker_id, :defender_id, :guards, :soldiers, :archers, :cavalry,
	 :guards_level, :soldiers_level, :archers_level, :cavalry_level,
	 :start_at, :end_at, :status, :claim_token, :claimed_at)`

	insertTradeSQL = `INSERT INTO traveling_trades
	(source_id, destination_id, wood, stone, ore, gold, offer_id,
	 start_at, end_at, status, claim_token, claimed_at)
	VALUES (:source_id, :destination_id, :wood, :stone, :ore, :gold, :offer_id,
	 :start_at, :end_at, :status, :claim_token, :claimed_at)`

	insertBattleSQL = `INSERT INTO battle_records
	(army_id, attacker_id, defender_id, occurred_at, winner,
	 attacker_units, defender_units, attacker_losses, defender_losses, plunder,
	 attack_power, defense_power)
	VALUES (:army_id, :attacker_id, :defender_id, :occurred_at, :winner,
	 :attacker_units, :defender_units, :attacker_losses, :defender_losses, :plunder,
	 :attack_power, :defense_power)`

	insertTradeTxnSQL = `INSERT INTO trade_transactions
	(trade_id, offer_id, source_id, destination_id, wood, stone, ore, gold, status, completed_at)
	VALUES (:trade_id, :offer_id, :source_id, :destination_id, :wood, :stone, :ore, :gold, :status, :completed_at)`

	insertOfferSQL = `INSERT INTO trade_offers
	(offerer_id, offered_wood, offered_stone, offered_ore, offered_gold,
	 requested_wood, requested_stone, requested_ore, requested_gold,
	 status, accepted_by, created_at, updated_at)
	VALUES (:offerer_id, :offered_wood, :offered_stone, :offered_ore, :offered_gold,
	 :requested_wood, :requested_stone, :requested_ore, :requested_gold,
	 :status, :accepted_by, :created_at, :updated_at)`

	updateOfferSQL = `UPDATE trade_offers SET status=:status, accepted_by=:accepted_by, updated_at=:updated_at WHERE id=:id`
)
