package domain

type (
	SettlementID int64
	PlayerID     int64
	ArmyID       int64
	TradeID      int64
	OfferID      int64
)

// Coord 是地图格子坐标。
type Coord struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Settlement 是由外部地图/城建系统维护的城池，本模块只读。
type Settlement struct {
	ID      SettlementID `json:"id"`
	OwnerID PlayerID     `json:"owner_id"`
	Name    string       `json:"name"`
	Coord   Coord        `json:"coord"`
}

// SettlementState 是结算需要读写的城池账本：资源、驻军和兵种等级。
type SettlementState struct {
	Settlement
	Resources Resources  `json:"resources"`
	Garrison  Units      `json:"garrison"`
	Levels    UnitLevels `json:"levels"`
}

type UnitType string

const (
	Guards   UnitType = "guards"
	Soldiers UnitType = "soldiers"
	Archers  UnitType = "archers"
	Cavalry  UnitType = "cavalry"
)

// UnitTypes 固定遍历顺序，保证计算结果可复现。
var UnitTypes = [...]UnitType{Guards, Soldiers, Archers, Cavalry}

// Units 各兵种数量。
type Units struct {
	Guards   int64 `json:"guards"`
	Soldiers int64 `json:"soldiers"`
	Archers  int64 `json:"archers"`
	Cavalry  int64 `json:"cavalry"`
}

func (u Units) Get(t UnitType) int64 {
	switch t {
	case Guards:
		return u.Guards
	case Soldiers:
		return u.Soldiers
	case Archers:
		return u.Archers
	case Cavalry:
		return u.Cavalry
	}
	return 0
}

func (u *Units) Set(t UnitType, n int64) {
	switch t {
	case Guards:
		u.Guards = n
	case Soldiers:
		u.Soldiers = n
	case Archers:
		u.Archers = n
	case Cavalry:
		u.Cavalry = n
	}
}

func (u Units) Add(o Units) Units {
	return Units{
		Guards:   u.Guards + o.Guards,
		Soldiers: u.Soldiers + o.Soldiers,
		Archers:  u.Archers + o.Archers,
		Cavalry:  u.Cavalry + o.Cavalry,
	}
}

// Sub 调用方需先用 Covers 校验，否则可能得到负数。
func (u Units) Sub(o Units) Units {
	return Units{
		Guards:   u.Guards - o.Guards,
		Soldiers: u.Soldiers - o.Soldiers,
		Archers:  u.Archers - o.Archers,
		Cavalry:  u.Cavalry - o.Cavalry,
	}
}

// Covers 判断 u 的每个兵种都不少于 need。
func (u Units) Covers(need Units) bool {
	for _, t := range UnitTypes {
		if u.Get(t) < need.Get(t) {
			return false
		}
	}
	return true
}

func (u Units) Total() int64 {
	return u.Guards + u.Soldiers + u.Archers + u.Cavalry
}

func (u Units) IsZero() bool { return u == Units{} }

func (u Units) HasNegative() bool {
	return u.Guards < 0 || u.Soldiers < 0 || u.Archers < 0 || u.Cavalry < 0
}

// UnitLevels 各兵种等级，0 视为 1 级。
type UnitLevels struct {
	Guards   int `json:"guards"`
	Soldiers int `json:"soldiers"`
	Archers  int `json:"archers"`
	Cavalry  int `json:"cavalry"`
}

func (l UnitLevels) Get(t UnitType) int {
	var v int
	switch t {
	case Guards:
		v = l.Guards
	case Soldiers:
		v = l.Soldiers
	case Archers:
		v = l.Archers
	case Cavalry:
		v = l.Cavalry
	}
	if v < 1 {
		return 1
	}
	return v
}

// Normalize 把未设置的等级补成 1。
func (l UnitLevels) Normalize() UnitLevels {
	return UnitLevels{
		Guards:   l.Get(Guards),
		Soldiers: l.Get(Soldiers),
		Archers:  l.Get(Archers),
		Cavalry:  l.Get(Cavalry),
	}
}

type ResourceType string

const (
	Wood  ResourceType = "wood"
	Stone ResourceType = "stone"
	Ore   ResourceType = "ore"
	Gold  ResourceType = "gold"
)

var ResourceTypes = [...]ResourceType{Wood, Stone, Ore, Gold}

// Resources 四种资源数量。
type Resources struct {
	Wood  int64 `json:"wood"`
	Stone int64 `json:"stone"`
	Ore   int64 `json:"ore"`
	Gold  int64 `json:"gold"`
}

func (r Resources) Get(t ResourceType) int64 {
	switch t {
	case Wood:
		return r.Wood
	case Stone:
		return r.Stone
	case Ore:
		return r.Ore
	case Gold:
		return r.Gold
	}
	return 0
}

func (r *Resources) Set(t ResourceType, n int64) {
	switch t {
	case Wood:
		r.Wood = n
	case Stone:
		r.Stone = n
	case Ore:
		r.Ore = n
	case Gold:
		r.Gold = n
	}
}

func (r Resources) Add(o Resources) Resources {
	return Resources{Wood: r.Wood + o.Wood, Stone: r.Stone + o.Stone, Ore: r.Ore + o.Ore, Gold: r.Gold + o.Gold}
}

func (r Resources) Sub(o Resources) Resources {
	return Resources{Wood: r.Wood - o.Wood, Stone: r.Stone - o.Stone, Ore: r.Ore - o.Ore, Gold: r.Gold - o.Gold}
}

func (r Resources) Covers(need Resources) bool {
	return r.Wood >= need.Wood && r.Stone >= need.Stone && r.Ore >= need.Ore && r.Gold >= need.Gold
}

func (r Resources) Total() int64 { return r.Wood + r.Stone + r.Ore + r.Gold }

func (r Resources) IsZero() bool { return r == Resources{} }

func (r Resources) HasNegative() bool {
	return r.Wood < 0 || r.Stone < 0 || r.Ore < 0 || r.Gold < 0
}
