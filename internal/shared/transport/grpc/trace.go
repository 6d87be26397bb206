package grpc

import (
	"context"
	"fmt"
	"strings"

	"BrowserGame/internal/shared/transport"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"
	"BrowserGame/modules/kit/tracex"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"

	healthPrefix = "/grpc.health.v1.Health/"
)

// unaryServerInterceptor 依次完成：提取/补齐 trace，写 access 日志，panic 转 Internal。
// 探活调用只做 trace，不写日志。
func unaryServerInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (resp any, err error) {
		ctx = tracex.Ensure(extractTraceFromIncoming(ctx), "grpc")
		if strings.HasPrefix(info.FullMethod, healthPrefix) {
			return handler(ctx, req)
		}

		ctx = transport.NewContextWithParent(ctx, "grpc "+info.FullMethod)
		defer func() {
			if r := recover(); r != nil {
				perr := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", r)).WithData("method", info.FullMethod)
				logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog("grpc panic", perr))
				err = status.Error(codes.Internal, "internal error")
			}
			transport.SetBizCode(ctx, transport.BizCode(bizCodeOf(err)))
			transport.WriteAccessLog(ctx, log)
		}()
		return handler(ctx, req)
	}
}

func streamServerInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		ctx := tracex.Ensure(extractTraceFromIncoming(ss.Context()), "grpc")
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// bizCodeOf 把 gRPC 状态码折算成 access 日志的业务码段。
func bizCodeOf(err error) int {
	switch status.Code(err) {
	case codes.OK:
		return transport.OK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return transport.InvalidParam
	case codes.NotFound:
		return transport.NotFound
	case codes.AlreadyExists, codes.Aborted:
		return transport.Conflict
	case codes.Unavailable, codes.DeadlineExceeded:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

type wrappedServerStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := first(md, traceIDHeader); v != "" {
		ctx = tracex.WithTraceID(ctx, v)
	}
	if v := first(md, spanIDHeader); v != "" {
		ctx = tracex.WithSpanID(ctx, v)
	}
	return ctx
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}
