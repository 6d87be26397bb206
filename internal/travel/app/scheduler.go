package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"BrowserGame/internal/travel/domain"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	defaultClaimLease = time.Minute
	// maxResolveAttempts 连续失败达到该次数后不再立即释放，改为等租约过期再认领。
	maxResolveAttempts = 5
)

// TickReport 一次 tick 的结果：Resolved 即 processArrivals 返回的处理数。
// Parked 是 Failed 中暂不释放、等租约过期再重试的条目数。
type TickReport struct {
	Claimed  int `json:"claimed"`
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
	Parked   int `json:"parked"`
}

type entryKey struct {
	kind domain.EntryKind
	id   int64
}

// Scheduler 到达结算的唯一入口。定时触发与手动触发都调用 Tick，
// 多个 Tick（含跨进程）并发执行时由 ClaimDue 划分互不相交的条目。
type Scheduler struct {
	ledger  TravelLedger
	battles *BattleResolver
	trades  *TradeResolver
	now     Clock
	token   TokenSource
	lease   time.Duration
	metrics *Metrics
	log     logx.Logger

	mu       sync.Mutex
	attempts map[entryKey]int
}

func NewScheduler(ledger TravelLedger, battles *BattleResolver, trades *TradeResolver, now Clock, token TokenSource, lease time.Duration, metrics *Metrics, log logx.Logger) *Scheduler {
	if lease <= 0 {
		lease = defaultClaimLease
	}
	if log == nil {
		log = logx.NewNop()
	}
	return &Scheduler{
		ledger:   ledger,
		battles:  battles,
		trades:   trades,
		now:      now,
		token:    token,
		lease:    lease,
		metrics:  metrics,
		log:      log.With(zap.String("component", "scheduler")),
		attempts: make(map[entryKey]int),
	}
}

// Tick 认领所有到期条目并按到达时间顺序逐个结算；单个条目失败会释放认领并继续处理其余条目。
// 持续失败或不可重试的条目保留认领，租约过期后才会再次被认领。
func (s *Scheduler) Tick(ctx context.Context) (report TickReport, err error) {
	start := time.Now()
	defer func() { s.metrics.observeTick(start, err) }()

	now := s.now()
	batch, err := s.ledger.ClaimDue(ctx, domain.ClaimRequest{
		Now:         now,
		StaleBefore: now.Add(-s.lease),
		Token:       s.token(),
	})
	if err != nil {
		return TickReport{}, unavailable(ReasonClaimFail, err)
	}

	report.Claimed = batch.Len()
	s.metrics.incClaimed(domain.KindArmy.String(), len(batch.Armies))
	s.metrics.incClaimed(domain.KindTrade.String(), len(batch.Trades))

	for _, e := range batch.Ordered() {
		if err := ctx.Err(); err != nil {
			// 剩余条目保持认领状态，租约到期后会被重新认领
			s.log.WithContext(ctx).Warn("tick interrupted", zap.Int("remaining", report.Claimed-report.Resolved-report.Failed))
			return report, err
		}
		key := entryKey{kind: e.Kind, id: e.ID}
		rerr := s.resolve(ctx, e)
		if rerr == nil || errors.Is(rerr, domain.ErrClaimLost) {
			s.forget(key)
		}
		if rerr == nil {
			report.Resolved++
			continue
		}

		report.Failed++
		s.metrics.incFailed(e.Kind.String())
		if errors.Is(rerr, domain.ErrClaimLost) {
			s.reportFailure(ctx, e, rerr, 0, false)
			continue
		}
		n := s.recordAttempt(key)
		park := !errx.Retryable(rerr) || n >= maxResolveAttempts
		s.reportFailure(ctx, e, rerr, n, park)
		if park {
			report.Parked++
			s.metrics.incParked(e.Kind.String())
			continue
		}
		s.release(ctx, e)
	}
	if report.Claimed > 0 {
		s.log.WithContext(ctx).Info("arrivals processed",
			zap.Int("claimed", report.Claimed),
			zap.Int("resolved", report.Resolved),
			zap.Int("failed", report.Failed),
			zap.Int("parked", report.Parked),
		)
	}
	return report, nil
}

// reportFailure 首次失败与达到重试上限时记 ERROR，其余重复失败降为 WARN。
func (s *Scheduler) reportFailure(ctx context.Context, e domain.DueEntry, err error, attempt int, parked bool) {
	sys := logx.NewSysLog("arrival resolve", err).Tolerate(string(domain.CodeClaimLost))
	if attempt > 1 && attempt != maxResolveAttempts {
		sys = sys.Tolerate(string(errx.CodeOf(err)))
	}
	logx.ReportSysErrorWithLoggerContext(ctx, s.log, sys,
		zap.String("kind", e.Kind.String()),
		zap.Int64("entry_id", e.ID),
		zap.Int("attempt", attempt),
		zap.Bool("parked", parked),
	)
}

func (s *Scheduler) recordAttempt(k entryKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[k]++
	return s.attempts[k]
}

func (s *Scheduler) forget(k entryKey) {
	s.mu.Lock()
	delete(s.attempts, k)
	s.mu.Unlock()
}

func (s *Scheduler) resolve(ctx context.Context, e domain.DueEntry) error {
	switch e.Kind {
	case domain.KindArmy:
		_, err := s.battles.Resolve(ctx, *e.Army)
		return err
	case domain.KindTrade:
		_, err := s.trades.Resolve(ctx, *e.Trade)
		return err
	}
	return nil
}

// release 把失败条目还回队列，下一次 tick 立即重试。
func (s *Scheduler) release(ctx context.Context, e domain.DueEntry) {
	var err error
	switch e.Kind {
	case domain.KindArmy:
		err = s.ledger.ReleaseArmy(ctx, e.Army.ID, e.Army.ClaimToken)
	case domain.KindTrade:
		err = s.ledger.ReleaseTrade(ctx, e.Trade.ID, e.Trade.ClaimToken)
	}
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, s.log,
			logx.NewSysLog("claim release", unavailable(ReasonReleaseFail, err)),
			zap.String("kind", e.Kind.String()), zap.Int64("entry_id", e.ID))
	}
}
