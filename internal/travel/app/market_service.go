package app

import (
	"context"
	"errors"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/logx"

	"go.uber.org/zap"
)

type CreateOfferCmd struct {
	PlayerID  domain.PlayerID
	OffererID domain.SettlementID
	Offered   domain.Resources
	Requested domain.Resources
}

type CancelOfferCmd struct {
	PlayerID domain.PlayerID
	OfferID  domain.OfferID
}

type AcceptOfferCmd struct {
	PlayerID   domain.PlayerID
	OfferID    domain.OfferID
	AcceptorID domain.SettlementID
}

// AcceptResult 成交后产生两支商队：挂单方送出 Offered，接受方送回 Requested。
type AcceptResult struct {
	Offer    domain.TradeOffer     `json:"offer"`
	Outbound domain.TravelingTrade `json:"outbound"`
	Return   domain.TravelingTrade `json:"return"`
}

// MarketService 集市挂单。挂单时冻结出售资源，撤单退回，成交时双方各发一支商队。
type MarketService struct {
	dir     SettlementDirectory
	uow     UnitOfWork
	offers  OfferReader
	speed   Speed
	now     Clock
	metrics *Metrics
	log     logx.Logger
}

func NewMarketService(dir SettlementDirectory, uow UnitOfWork, offers OfferReader, speed Speed, now Clock, metrics *Metrics, log logx.Logger) *MarketService {
	return &MarketService{
		dir:     dir,
		uow:     uow,
		offers:  offers,
		speed:   speed,
		now:     now,
		metrics: metrics,
		log:     log,
	}
}

func (s *MarketService) CreateOffer(ctx context.Context, cmd CreateOfferCmd) (domain.TradeOffer, error) {
	if cmd.Offered.HasNegative() || cmd.Requested.HasNegative() {
		return domain.TradeOffer{}, reject(ErrInvalidRequest, ReasonNegativeAmount)
	}
	if cmd.Offered.IsZero() || cmd.Requested.IsZero() {
		return domain.TradeOffer{}, reject(ErrInvalidRequest, ReasonEmptyOffer)
	}
	offerer, err := lookupSettlement(ctx, s.dir, cmd.OffererID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	if cmd.PlayerID != 0 && offerer.OwnerID != cmd.PlayerID {
		return domain.TradeOffer{}, reject(ErrForbidden, ReasonNotOwner)
	}

	var offer domain.TradeOffer
	err = s.uow.WithinSettlements(ctx, []domain.SettlementID{offerer.ID}, func(ctx context.Context, tx Tx) error {
		st, ok, err := tx.LoadSettlement(ctx, offerer.ID)
		if err != nil {
			return err
		}
		if !ok {
			return reject(ErrNotFound, ReasonSettlementNotFound)
		}
		if !st.Resources.Covers(cmd.Offered) {
			return reject(ErrInsufficient, ReasonInsufficientResource)
		}
		st.Resources = st.Resources.Sub(cmd.Offered)
		if err := tx.SaveSettlement(ctx, st); err != nil {
			return err
		}
		now := s.now()
		offer, err = tx.InsertOffer(ctx, domain.TradeOffer{
			OffererID: offerer.ID,
			Offered:   cmd.Offered,
			Requested: cmd.Requested,
			Status:    domain.OfferOpen,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return domain.TradeOffer{}, unavailable(ReasonLedgerUnavailable, err)
	}
	s.log.WithContext(ctx).Info("trade offer created",
		zap.Int64("offer_id", int64(offer.ID)),
		zap.Int64("offerer_id", int64(offer.OffererID)),
	)
	return offer, nil
}

// CancelOffer 撤单并退回冻结的资源。
func (s *MarketService) CancelOffer(ctx context.Context, cmd CancelOfferCmd) (domain.TradeOffer, error) {
	offer, err := s.getOffer(ctx, cmd.OfferID)
	if err != nil {
		return domain.TradeOffer{}, err
	}
	if cmd.PlayerID != 0 {
		offerer, err := lookupSettlement(ctx, s.dir, offer.OffererID)
		if err != nil {
			return domain.TradeOffer{}, err
		}
		if offerer.OwnerID != cmd.PlayerID {
			return domain.TradeOffer{}, reject(ErrForbidden, ReasonNotOwner)
		}
	}

	err = s.uow.WithinSettlements(ctx, []domain.SettlementID{offer.OffererID}, func(ctx context.Context, tx Tx) error {
		cur, err := tx.LoadOffer(ctx, offer.ID)
		if err != nil {
			return err
		}
		if err := cur.Cancel(s.now()); err != nil {
			return reject(ErrStateConflict, ReasonOfferNotOpen)
		}
		st, ok, err := tx.LoadSettlement(ctx, cur.OffererID)
		if err != nil {
			return err
		}
		if ok {
			st.Resources = st.Resources.Add(cur.Offered)
			if err := tx.SaveSettlement(ctx, st); err != nil {
				return err
			}
		}
		offer = cur
		return tx.SaveOffer(ctx, cur)
	})
	if err != nil {
		return domain.TradeOffer{}, unavailable(ReasonLedgerUnavailable, err)
	}
	s.log.WithContext(ctx).Info("trade offer cancelled", zap.Int64("offer_id", int64(offer.ID)))
	return offer, nil
}

// AcceptOffer 在挂单方与接受方两个城池上加锁成交。
func (s *MarketService) AcceptOffer(ctx context.Context, cmd AcceptOfferCmd) (AcceptResult, error) {
	offer, err := s.getOffer(ctx, cmd.OfferID)
	if err != nil {
		return AcceptResult{}, err
	}
	if offer.OffererID == cmd.AcceptorID {
		return AcceptResult{}, reject(ErrInvalidRequest, ReasonOwnOffer)
	}
	acceptor, err := lookupSettlement(ctx, s.dir, cmd.AcceptorID)
	if err != nil {
		return AcceptResult{}, err
	}
	if cmd.PlayerID != 0 && acceptor.OwnerID != cmd.PlayerID {
		return AcceptResult{}, reject(ErrForbidden, ReasonNotOwner)
	}
	offerer, err := lookupSettlement(ctx, s.dir, offer.OffererID)
	if err != nil {
		return AcceptResult{}, err
	}

	var res AcceptResult
	ids := SortedIDs(offerer.ID, acceptor.ID)
	err = s.uow.WithinSettlements(ctx, ids, func(ctx context.Context, tx Tx) error {
		cur, err := tx.LoadOffer(ctx, offer.ID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := cur.Accept(acceptor.ID, now); err != nil {
			return reject(ErrStateConflict, ReasonOfferNotOpen)
		}
		st, ok, err := tx.LoadSettlement(ctx, acceptor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return reject(ErrNotFound, ReasonSettlementNotFound)
		}
		if !st.Resources.Covers(cur.Requested) {
			return reject(ErrInsufficient, ReasonInsufficientResource)
		}
		st.Resources = st.Resources.Sub(cur.Requested)
		if err := tx.SaveSettlement(ctx, st); err != nil {
			return err
		}
		if res.Outbound, err = tx.InsertTrade(ctx, newTrade(offerer, acceptor, cur.Offered, cur.ID, now, s.speed)); err != nil {
			return err
		}
		if res.Return, err = tx.InsertTrade(ctx, newTrade(acceptor, offerer, cur.Requested, cur.ID, now, s.speed)); err != nil {
			return err
		}
		res.Offer = cur
		return tx.SaveOffer(ctx, cur)
	})
	if err != nil {
		return AcceptResult{}, unavailable(ReasonLedgerUnavailable, err)
	}
	s.metrics.incLaunched("offer")
	s.log.WithContext(ctx).Info("trade offer accepted",
		zap.Int64("offer_id", int64(res.Offer.ID)),
		zap.Int64("acceptor_id", int64(acceptor.ID)),
		zap.Int64("outbound_trade_id", int64(res.Outbound.ID)),
		zap.Int64("return_trade_id", int64(res.Return.ID)),
	)
	return res, nil
}

func (s *MarketService) ListOffers(ctx context.Context, f domain.OfferFilter) ([]domain.TradeOffer, error) {
	f.Limit = clampLimit(f.Limit)
	out, err := s.offers.ListOffers(ctx, f)
	if err != nil {
		return nil, unavailable(ReasonLedgerUnavailable, err)
	}
	return out, nil
}

func (s *MarketService) getOffer(ctx context.Context, id domain.OfferID) (domain.TradeOffer, error) {
	o, err := s.offers.GetOffer(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOfferNotFound) {
			return domain.TradeOffer{}, reject(ErrNotFound, ReasonOfferNotFound).WithData("offer_id", int64(id))
		}
		return domain.TradeOffer{}, unavailable(ReasonLedgerUnavailable, err)
	}
	return o, nil
}
