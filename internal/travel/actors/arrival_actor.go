package actors

import (
	"context"
	"time"

	"BrowserGame/internal/travel/app"
	"BrowserGame/modules/kit/logx"
	"BrowserGame/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const defaultTickTimeout = 30 * time.Second

// Ticker 由 *app.Scheduler 实现。
type Ticker interface {
	Tick(ctx context.Context) (app.TickReport, error)
}

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// ArrivalActor 定时触发与手动触发都在同一个 mailbox 里串行执行 Tick。
type ArrivalActor struct {
	state    State
	ticker   Ticker
	interval time.Duration
	log      logx.Logger
	loopStop chan struct{}
}

type arrivalTick struct{}

func (arrivalTick) NotInfluenceReceiveTimeout() {}

// ProcessArrivals 手动触发一次结算，回复 *ProcessArrivalsResult。
type ProcessArrivals struct {
	TraceID string
}

type ProcessArrivalsResult struct {
	Report app.TickReport
	Err    error
}

func NewArrivalActor(ticker Ticker, interval time.Duration, log logx.Logger) *ArrivalActor {
	if log == nil {
		log = logx.NewNop()
	}
	return &ArrivalActor{
		state:    None,
		ticker:   ticker,
		interval: interval,
		log:      log.With(zap.String("component", "arrival_actor")),
	}
}

func (a *ArrivalActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.state = Online
		a.startLoop(ctx)
	case *actor.Stopping:
		a.stopLoop()
		a.state = Stopping
	case *actor.Stopped:
		a.stopLoop()
		a.state = Offline
	case *actor.Restarting:
		a.stopLoop()
	case arrivalTick:
		if a.state != Online {
			return
		}
		tctx := tracex.Ensure(context.Background(), "arrival_tick")
		report, err := a.tick(tctx)
		if err != nil {
			logx.ReportSysErrorWithLoggerContext(tctx, a.log, logx.NewSysLog("periodic arrival tick", err))
			return
		}
		if report.Claimed > 0 {
			a.log.WithContext(tctx).Info("arrivals processed",
				zap.Int("claimed", report.Claimed),
				zap.Int("resolved", report.Resolved),
				zap.Int("failed", report.Failed),
			)
		}
	case *ProcessArrivals:
		if msg == nil || a.state != Online {
			ctx.Respond(&ProcessArrivalsResult{Err: errNotOnline})
			return
		}
		tctx := tracex.Ensure(tracex.WithTraceID(context.Background(), msg.TraceID), "process_arrivals")
		report, err := a.tick(tctx)
		ctx.Respond(&ProcessArrivalsResult{Report: report, Err: err})
	}
}

func (a *ArrivalActor) tick(ctx context.Context) (app.TickReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTickTimeout)
	defer cancel()
	return a.ticker.Tick(ctx)
}

func (a *ArrivalActor) startLoop(ctx actor.Context) {
	if a.loopStop != nil || a.interval <= 0 {
		return
	}
	a.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, arrivalTick{})
			case <-stop:
				return
			}
		}
	}(a.loopStop, a.interval)
}

func (a *ArrivalActor) stopLoop() {
	if a.loopStop == nil {
		return
	}
	close(a.loopStop)
	a.loopStop = nil
}
