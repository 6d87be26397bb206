package app

import (
	"context"
	"slices"
	"time"

	"BrowserGame/internal/travel/domain"
)

// SettlementDirectory 城池目录（外部系统维护），找不到时返回 domain.ErrSettlementNotFound。
type SettlementDirectory interface {
	GetSettlement(ctx context.Context, id domain.SettlementID) (domain.Settlement, error)
	ListSettlements(ctx context.Context) ([]domain.Settlement, error)
}

// SettlementReader 只读查询城池账本（资源、驻军、等级）。
type SettlementReader interface {
	GetSettlementState(ctx context.Context, id domain.SettlementID) (domain.SettlementState, error)
}

// Tx 是限定在若干城池上的事务视图，所有写操作在 fn 返回 nil 时一起提交。
type Tx interface {
	// LoadSettlement 城池已被删除时 ok=false 且 err=nil。
	LoadSettlement(ctx context.Context, id domain.SettlementID) (s domain.SettlementState, ok bool, err error)
	SaveSettlement(ctx context.Context, s domain.SettlementState) error

	InsertArmy(ctx context.Context, a domain.TravelingArmy) (domain.TravelingArmy, error)
	InsertTrade(ctx context.Context, t domain.TravelingTrade) (domain.TravelingTrade, error)
	// FinalizeArmy/FinalizeTrade 仅当条目仍持有 token 时标记为已结算，否则返回 domain.ErrClaimLost。
	FinalizeArmy(ctx context.Context, id domain.ArmyID, token string) error
	FinalizeTrade(ctx context.Context, id domain.TradeID, token string) error

	InsertOffer(ctx context.Context, o domain.TradeOffer) (domain.TradeOffer, error)
	LoadOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error)
	SaveOffer(ctx context.Context, o domain.TradeOffer) error
}

// UnitOfWork 按城池 id 升序加锁后执行 fn；fn 返回错误则整体回滚。
type UnitOfWork interface {
	WithinSettlements(ctx context.Context, ids []domain.SettlementID, fn func(ctx context.Context, tx Tx) error) error
}

// TravelLedger 在途条目的认领与查询。
type TravelLedger interface {
	// ClaimDue 原子地把到期条目（以及过期认领）标记为 req.Token 所有并返回；并发调用结果互不相交。
	ClaimDue(ctx context.Context, req domain.ClaimRequest) (domain.ClaimBatch, error)
	ReleaseArmy(ctx context.Context, id domain.ArmyID, token string) error
	ReleaseTrade(ctx context.Context, id domain.TradeID, token string) error

	GetArmy(ctx context.Context, id domain.ArmyID) (domain.TravelingArmy, error)
	ListArmies(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingArmy, error)
	ListTrades(ctx context.Context, settlementID domain.SettlementID, dir domain.Direction) ([]domain.TravelingTrade, error)
	ListAllArmies(ctx context.Context) ([]domain.TravelingArmy, error)
	ListAllTrades(ctx context.Context) ([]domain.TravelingTrade, error)
}

// HistoryRecorder 只追加写战报和交易记录。
type HistoryRecorder interface {
	RecordBattle(ctx context.Context, r domain.BattleRecord) error
	RecordTrade(ctx context.Context, t domain.TradeTransaction) error
}

// HistoryReader 结果按时间倒序。
type HistoryReader interface {
	BattlesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error)
	BattleByArmy(ctx context.Context, armyID domain.ArmyID) (domain.BattleRecord, error)
	TradesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error)
}

type OfferReader interface {
	GetOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error)
	ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.TradeOffer, error)
}

// Clock 返回服务器时间，测试可注入固定时钟。
type Clock func() time.Time

// TokenSource 生成认领令牌。
type TokenSource func() string

// SortedIDs 去重并升序，作为加锁顺序。
func SortedIDs(ids ...domain.SettlementID) []domain.SettlementID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
