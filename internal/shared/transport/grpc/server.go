package grpc

import (
	"BrowserGame/modules/kit/logx"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer 创建带 trace/access 日志拦截器与 health 服务的 gRPC server。
// 返回的 health.Server 由调用方在依赖就绪/关闭时切换状态。
func NewServer(log logx.Logger, opts ...gogrpc.ServerOption) (*gogrpc.Server, *health.Server) {
	if log == nil {
		log = logx.NewNop()
	}
	opts = append([]gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(unaryServerInterceptor(log)),
		gogrpc.ChainStreamInterceptor(streamServerInterceptor()),
	}, opts...)
	srv := gogrpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
