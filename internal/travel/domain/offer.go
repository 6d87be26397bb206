package domain

import "time"

type OfferStatus string

const (
	OfferOpen      OfferStatus = "open"
	OfferAccepted  OfferStatus = "accepted"
	OfferCancelled OfferStatus = "cancelled"
)

// TradeOffer 集市挂单：Offered 在挂单时已从挂单方扣除。
type TradeOffer struct {
	ID         OfferID      `json:"id"`
	OffererID  SettlementID `json:"offerer_id"`
	Offered    Resources    `json:"offered"`
	Requested  Resources    `json:"requested"`
	Status     OfferStatus  `json:"status"`
	AcceptedBy SettlementID `json:"accepted_by,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (o *TradeOffer) Accept(by SettlementID, now time.Time) error {
	if o.Status != OfferOpen {
		return ErrOfferNotOpen.WithData("offer_id", int64(o.ID)).WithData("status", string(o.Status))
	}
	o.Status = OfferAccepted
	o.AcceptedBy = by
	o.UpdatedAt = now
	return nil
}

func (o *TradeOffer) Cancel(now time.Time) error {
	if o.Status != OfferOpen {
		return ErrOfferNotOpen.WithData("offer_id", int64(o.ID)).WithData("status", string(o.Status))
	}
	o.Status = OfferCancelled
	o.UpdatedAt = now
	return nil
}

// OfferFilter 挂单列表查询条件，零值表示不过滤。
type OfferFilter struct {
	Status    OfferStatus
	OffererID SettlementID
	Limit     int
}
