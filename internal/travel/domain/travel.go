package domain

import (
	"sort"
	"time"
)

// EntryStatus 是行军/商队条目的状态，取值与存储列一致。
type EntryStatus int8

const (
	StatusTraveling EntryStatus = 0
	StatusClaimed   EntryStatus = 1
	StatusResolved  EntryStatus = 2
)

func (s EntryStatus) String() string {
	switch s {
	case StatusTraveling:
		return "traveling"
	case StatusClaimed:
		return "claimed"
	case StatusResolved:
		return "resolved"
	}
	return "unknown"
}

// Direction 在途查询视角：outgoing 为出发方，incoming 为目标方。
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionOutgoing, "":
		return DirectionOutgoing, true
	case DirectionIncoming:
		return DirectionIncoming, true
	}
	return "", false
}

// EntryKind 决定同一到达时间下的处理顺序：军队先于商队。
type EntryKind int8

const (
	KindArmy EntryKind = iota
	KindTrade
)

func (k EntryKind) String() string {
	if k == KindArmy {
		return "army"
	}
	return "trade"
}

type TravelingArmy struct {
	ID         ArmyID       `json:"id"`
	AttackerID SettlementID `json:"attacker_id"`
	DefenderID SettlementID `json:"defender_id"`
	Units      Units        `json:"units"`
	// Levels 出发时锁定的兵种等级，结算按此计算攻击力。
	Levels     UnitLevels  `json:"levels"`
	StartAt    time.Time   `json:"start_at"`
	EndAt      time.Time   `json:"end_at"`
	Status     EntryStatus `json:"status"`
	ClaimToken string      `json:"-"`
	ClaimedAt  time.Time   `json:"-"`
}

type TravelingTrade struct {
	ID            TradeID      `json:"id"`
	SourceID      SettlementID `json:"source_id"`
	DestinationID SettlementID `json:"destination_id"`
	Cargo         Resources    `json:"cargo"`
	// OfferID 为 0 表示直接运输，非 0 表示由集市挂单成交产生。
	OfferID    OfferID     `json:"offer_id,omitempty"`
	StartAt    time.Time   `json:"start_at"`
	EndAt      time.Time   `json:"end_at"`
	Status     EntryStatus `json:"status"`
	ClaimToken string      `json:"-"`
	ClaimedAt  time.Time   `json:"-"`
}

// ClaimRequest 一次认领：到期（end_at <= Now）的在途条目，以及认领时间早于 StaleBefore 的过期认领。
type ClaimRequest struct {
	Now         time.Time
	StaleBefore time.Time
	Token       string
}

// ClaimBatch 是一次认领拿到的全部条目，条目上的 ClaimToken 均为本次令牌。
type ClaimBatch struct {
	Token  string
	Armies []TravelingArmy
	Trades []TravelingTrade
}

func (b ClaimBatch) Len() int { return len(b.Armies) + len(b.Trades) }

// DueEntry 把军队和商队放到同一队列里排序。
type DueEntry struct {
	Kind  EntryKind
	EndAt time.Time
	ID    int64
	Army  *TravelingArmy
	Trade *TravelingTrade
}

// Ordered 按到达时间升序，同时间按 kind、id 排序。
func (b ClaimBatch) Ordered() []DueEntry {
	out := make([]DueEntry, 0, b.Len())
	for i := range b.Armies {
		a := &b.Armies[i]
		out = append(out, DueEntry{Kind: KindArmy, EndAt: a.EndAt, ID: int64(a.ID), Army: a})
	}
	for i := range b.Trades {
		t := &b.Trades[i]
		out = append(out, DueEntry{Kind: KindTrade, EndAt: t.EndAt, ID: int64(t.ID), Trade: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndAt.Equal(out[j].EndAt) {
			return out[i].EndAt.Before(out[j].EndAt)
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}
