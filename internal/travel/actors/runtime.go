package actors

import (
	"context"
	"errors"
	"time"

	"BrowserGame/internal/shared/transport"
	"BrowserGame/internal/travel/app"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"
	"BrowserGame/modules/kit/tracex"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 30 * time.Second

var errNotOnline = errors.New("arrival actor not online")

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 持有 actor system 与唯一的到达结算 actor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	arrival *protoactor.PID
	timeout time.Duration
}

// NewRuntime interval<=0 时不启动定时触发，只响应 ProcessArrivals。
func NewRuntime(ticker Ticker, interval, askTimeout time.Duration, log logx.Logger) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		return NewArrivalActor(ticker, interval, log)
	})
	pid := root.Spawn(props)

	return &Runtime{
		system:  system,
		root:    root,
		arrival: pid,
		timeout: askTimeout,
	}
}

// ProcessArrivals 同步执行一次 Tick，与定时触发串行。
func (r *Runtime) ProcessArrivals(ctx context.Context) (app.TickReport, error) {
	traceID, _ := tracex.TraceIDFrom(ctx)
	res, err := r.request(r.arrival, &ProcessArrivals{TraceID: traceID}, r.timeoutFromContext(ctx))
	if err != nil {
		return app.TickReport{}, err
	}
	out, ok := res.(*ProcessArrivalsResult)
	if !ok || out == nil {
		return app.TickReport{}, &RuntimeError{Code: transport.SystemError, Message: "actor 响应类型错误"}
	}
	if out.Err != nil {
		return out.Report, &RuntimeError{Code: codeFromTickError(out.Err), Message: "到达结算失败", Cause: out.Err}
	}
	return out.Report, nil
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.arrival != nil {
		_ = r.root.StopFuture(r.arrival).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func codeFromTickError(err error) int {
	switch {
	case errors.Is(err, errNotOnline):
		return transport.Unavailable
	case errx.CodeOf(err) == errx.CodeUnavailable:
		return transport.Unavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return transport.Unavailable
	}
	return transport.SystemError
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
