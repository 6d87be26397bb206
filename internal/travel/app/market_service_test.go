package app_test

import (
	"context"
	"testing"
	"time"

	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/domain"
)

func TestMarket_挂单冻结资源撤单退回(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	offer, err := f.market.CreateOffer(ctx, app.CreateOfferCmd{
		PlayerID: 10, OffererID: 1,
		Offered:   domain.Resources{Wood: 200},
		Requested: domain.Resources{Gold: 50},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if offer.Status != domain.OfferOpen || f.state(t, 1).Resources.Wood != 800 {
		t.Fatalf("期望挂单冻结 200 木材")
	}

	_, err = f.market.CancelOffer(ctx, app.CancelOfferCmd{PlayerID: 20, OfferID: offer.ID})
	wantReason(t, err, app.ReasonNotOwner)

	cancelled, err := f.market.CancelOffer(ctx, app.CancelOfferCmd{PlayerID: 10, OfferID: offer.ID})
	if err != nil || cancelled.Status != domain.OfferCancelled {
		t.Fatalf("期望撤单成功，got=%+v err=%v", cancelled, err)
	}
	if f.state(t, 1).Resources.Wood != 1000 {
		t.Fatalf("期望撤单退回木材")
	}
	_, err = f.market.CancelOffer(ctx, app.CancelOfferCmd{OfferID: offer.ID})
	wantReason(t, err, app.ReasonOfferNotOpen)
}

func TestMarket_成交产生双向商队并结算(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	offer, _ := f.market.CreateOffer(ctx, app.CreateOfferCmd{
		OffererID: 1, Offered: domain.Resources{Wood: 200}, Requested: domain.Resources{Gold: 50},
	})
	res, err := f.market.AcceptOffer(ctx, app.AcceptOfferCmd{PlayerID: 20, OfferID: offer.ID, AcceptorID: 2})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.Offer.Status != domain.OfferAccepted || res.Offer.AcceptedBy != 2 {
		t.Fatalf("挂单状态不符合预期: %+v", res.Offer)
	}
	if res.Outbound.OfferID != offer.ID || res.Return.OfferID != offer.ID {
		t.Fatalf("期望两支商队都关联挂单")
	}
	if f.state(t, 2).Resources.Gold != 30 {
		t.Fatalf("期望接受方扣除 50 金")
	}

	_, err = f.market.AcceptOffer(ctx, app.AcceptOfferCmd{OfferID: offer.ID, AcceptorID: 3})
	wantReason(t, err, app.ReasonOfferNotOpen)

	f.clock.Advance(20 * time.Second)
	if r := f.tick(t); r.Resolved != 2 {
		t.Fatalf("期望两支商队都结算，got=%+v", r)
	}
	if f.state(t, 1).Resources.Gold != 1050 || f.state(t, 2).Resources.Wood != 700 {
		t.Fatalf("期望双方资源互换")
	}
	hist, _ := f.query.TradeHistory(ctx, 1, 10)
	if len(hist) != 2 || hist[0].OfferID != offer.ID {
		t.Fatalf("期望记录关联挂单 id，got=%+v", hist)
	}
}

func TestMarket_校验(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.market.CreateOffer(ctx, app.CreateOfferCmd{OffererID: 1, Offered: domain.Resources{Wood: 1}})
	wantReason(t, err, app.ReasonEmptyOffer)
	_, err = f.market.CreateOffer(ctx, app.CreateOfferCmd{OffererID: 3, Offered: domain.Resources{Wood: 11}, Requested: domain.Resources{Gold: 1}})
	wantReason(t, err, app.ReasonInsufficientResource)

	offer, _ := f.market.CreateOffer(ctx, app.CreateOfferCmd{OffererID: 1, Offered: domain.Resources{Wood: 1}, Requested: domain.Resources{Gold: 100}})
	_, err = f.market.AcceptOffer(ctx, app.AcceptOfferCmd{OfferID: offer.ID, AcceptorID: 1})
	wantReason(t, err, app.ReasonOwnOffer)
	_, err = f.market.AcceptOffer(ctx, app.AcceptOfferCmd{OfferID: offer.ID, AcceptorID: 2})
	wantReason(t, err, app.ReasonInsufficientResource)
	_, err = f.market.AcceptOffer(ctx, app.AcceptOfferCmd{OfferID: 404, AcceptorID: 2})
	wantReason(t, err, app.ReasonOfferNotFound)

	open, _ := f.market.ListOffers(ctx, domain.OfferFilter{Status: domain.OfferOpen})
	if len(open) != 1 || open[0].ID != offer.ID {
		t.Fatalf("期望失败的成交不改变挂单，got=%+v", open)
	}
}
