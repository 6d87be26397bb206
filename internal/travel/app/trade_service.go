package app

import (
	"context"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/logx"

	"go.uber.org/zap"
)

// TradeResolver 结算到达的商队。资源在出发时已扣除，这里只做入账或退回。
type TradeResolver struct {
	uow     UnitOfWork
	history HistoryRecorder
	now     Clock
	metrics *Metrics
	log     logx.Logger
}

func NewTradeResolver(uow UnitOfWork, history HistoryRecorder, now Clock, metrics *Metrics, log logx.Logger) *TradeResolver {
	return &TradeResolver{
		uow:     uow,
		history: history,
		now:     now,
		metrics: metrics,
		log:     log,
	}
}

func (r *TradeResolver) Resolve(ctx context.Context, trade domain.TravelingTrade) (domain.TradeTransaction, error) {
	txn := domain.TradeTransaction{
		TradeID:       trade.ID,
		OfferID:       trade.OfferID,
		SourceID:      trade.SourceID,
		DestinationID: trade.DestinationID,
		Cargo:         trade.Cargo,
		CompletedAt:   r.now(),
	}

	ids := SortedIDs(trade.SourceID, trade.DestinationID)
	err := r.uow.WithinSettlements(ctx, ids, func(ctx context.Context, tx Tx) error {
		dest, ok, err := tx.LoadSettlement(ctx, trade.DestinationID)
		if err != nil {
			return err
		}
		if ok {
			dest.Resources = dest.Resources.Add(trade.Cargo)
			if err := tx.SaveSettlement(ctx, dest); err != nil {
				return err
			}
			txn.Status = domain.TradeCompleted
			return tx.FinalizeTrade(ctx, trade.ID, trade.ClaimToken)
		}

		source, ok, err := tx.LoadSettlement(ctx, trade.SourceID)
		if err != nil {
			return err
		}
		if !ok {
			txn.Status = domain.TradeVoided
			return tx.FinalizeTrade(ctx, trade.ID, trade.ClaimToken)
		}
		source.Resources = source.Resources.Add(trade.Cargo)
		if err := tx.SaveSettlement(ctx, source); err != nil {
			return err
		}
		txn.Status = domain.TradeRefunded
		return tx.FinalizeTrade(ctx, trade.ID, trade.ClaimToken)
	})
	if err != nil {
		return domain.TradeTransaction{}, unavailable(ReasonResolveFail, err)
	}

	r.metrics.incResolved(domain.KindTrade.String(), string(txn.Status))
	if err := r.history.RecordTrade(ctx, txn); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, r.log,
			logx.NewSysLog("trade record write", ErrUnavailable.WithReason(ReasonHistoryWriteFail).WithCause(err)),
			zap.Int64("trade_id", int64(trade.ID)))
	}
	r.log.WithContext(ctx).Info("trade resolved",
		zap.Int64("trade_id", int64(trade.ID)),
		zap.String("status", string(txn.Status)),
	)
	return txn, nil
}
