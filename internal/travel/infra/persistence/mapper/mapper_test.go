package mapper

import (
	"testing"
	"time"

	"BrowserGame/internal/travel/domain"
)

func TestBattleMapping_JSON列往返(t *testing.T) {
	rec := domain.BattleRecord{
		ArmyID:         7,
		AttackerID:     1,
		DefenderID:     2,
		OccurredAt:     time.UnixMilli(1_767_000_000_123).UTC(),
		Winner:         domain.WinnerAttacker,
		AttackerUnits:  domain.Units{Soldiers: 10},
		DefenderUnits:  domain.Units{Guards: 5},
		AttackerLosses: domain.Units{Soldiers: 3},
		DefenderLosses: domain.Units{Guards: 5},
		Plunder:        domain.Resources{Wood: 70},
		AttackPower:    30,
		DefensePower:   10,
	}
	m, err := BattleDomainToModel(rec)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Plunder != `{"wood":70,"stone":0,"ore":0,"gold":0}` {
		t.Fatalf("期望掠夺以 JSON 文本存储，got=%s", m.Plunder)
	}
	back, err := BattleModelToDomain(m)
	if err != nil || back != rec {
		t.Fatalf("期望往返一致，got=%+v err=%v", back, err)
	}

	m.AttackerUnits = "{broken"
	if _, err := BattleModelToDomain(m); err == nil {
		t.Fatalf("期望损坏的 JSON 列报错")
	}
}

func TestMillis_零值时间存0(t *testing.T) {
	if ToMillis(time.Time{}) != 0 || !FromMillis(0).IsZero() {
		t.Fatalf("期望零值时间与 0 互转")
	}
	if got := SettlementModelToDomain(SettlementDomainToModel(domain.SettlementState{})).Levels.Cavalry; got != 1 {
		t.Fatalf("期望等级默认补 1，got=%d", got)
	}
}
