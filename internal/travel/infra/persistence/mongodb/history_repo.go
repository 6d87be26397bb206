package mongodb

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	battleCollection = "battle_records"
	tradeCollection  = "trade_transactions"
)

// IDGenerator 由雪花 id 生成器实现，_id 单调递增即可按 _id 倒序取最新记录。
type IDGenerator interface {
	NextID() int64
}

// HistoryRepository 战报与交易记录写 MongoDB，与行军账本分库时使用。
type HistoryRepository struct {
	battles *mongo.Collection
	trades  *mongo.Collection
	ids     IDGenerator
}

func NewHistoryRepository(db *mongo.Database, ids IDGenerator) *HistoryRepository {
	return &HistoryRepository{
		battles: db.Collection(battleCollection),
		trades:  db.Collection(tradeCollection),
		ids:     ids,
	}
}

// EnsureIndexes 建查询用索引，可重复执行。
func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.battles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "army_id", Value: 1}}},
		{Keys: bson.D{{Key: "attacker_id", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "defender_id", Value: 1}, {Key: "_id", Value: -1}}},
	}); err != nil {
		return storeErr("ensure battle indexes", err)
	}
	if _, err := r.trades.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "source_id", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "destination_id", Value: 1}, {Key: "_id", Value: -1}}},
	}); err != nil {
		return storeErr("ensure trade indexes", err)
	}
	return nil
}

func (r *HistoryRepository) RecordBattle(ctx context.Context, rec domain.BattleRecord) error {
	rec.ID = r.ids.NextID()
	if _, err := r.battles.InsertOne(ctx, battleToDoc(rec)); err != nil {
		return storeErr("record battle", err).WithData("army_id", int64(rec.ArmyID))
	}
	return nil
}

func (r *HistoryRepository) RecordTrade(ctx context.Context, t domain.TradeTransaction) error {
	t.ID = r.ids.NextID()
	if _, err := r.trades.InsertOne(ctx, tradeToDoc(t)); err != nil {
		return storeErr("record trade", err).WithData("trade_id", int64(t.TradeID))
	}
	return nil
}

func (r *HistoryRepository) BattlesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.BattleRecord, error) {
	cur, err := r.battles.Find(ctx, eitherSide("attacker_id", "defender_id", id), newestFirst(limit))
	if err != nil {
		return nil, storeErr("find battles", err)
	}
	var docs []battleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode battles", err)
	}
	out := make([]domain.BattleRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (r *HistoryRepository) BattleByArmy(ctx context.Context, armyID domain.ArmyID) (domain.BattleRecord, error) {
	var doc battleDoc
	err := r.battles.FindOne(ctx, bson.M{"army_id": int64(armyID)},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.BattleRecord{}, domain.ErrBattleNotFound.WithData("army_id", int64(armyID))
	}
	if err != nil {
		return domain.BattleRecord{}, storeErr("find battle by army", err)
	}
	return doc.record(), nil
}

func (r *HistoryRepository) TradesBySettlement(ctx context.Context, id domain.SettlementID, limit int) ([]domain.TradeTransaction, error) {
	cur, err := r.trades.Find(ctx, eitherSide("source_id", "destination_id", id), newestFirst(limit))
	if err != nil {
		return nil, storeErr("find trades", err)
	}
	var docs []tradeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("decode trades", err)
	}
	out := make([]domain.TradeTransaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.transaction())
	}
	return out, nil
}

func eitherSide(a, b string, id domain.SettlementID) bson.M {
	return bson.M{"$or": bson.A{bson.M{a: int64(id)}, bson.M{b: int64(id)}}}
}

func newestFirst(limit int) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func storeErr(op string, err error) *errx.Error {
	return domain.ErrSystemUnavailable.WithCause(err).WithData("op", op).WithData("store", "mongodb")
}

var (
	_ app.HistoryRecorder = (*HistoryRepository)(nil)
	_ app.HistoryReader   = (*HistoryRepository)(nil)
)
