package server

import (
	"DonorLane/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	gogrpc "google.golang.org/grpc"
)

// maxRecvMsgSize bounds inbound gRPC messages.
const maxRecvMsgSize = 8 << 20

// NewGRPCServer new a gRPC server. It serves the standard health and
// reflection services so orchestrators can health-check the process.
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	log.NewHelper(logger).Debugw("msg", "grpc server configured", "max_recv_msg_size", maxRecvMsgSize)

	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
		),
		grpc.Options(gogrpc.MaxRecvMsgSize(maxRecvMsgSize)),
	}
	if c != nil && c.Grpc != nil {
		if c.Grpc.Network != "" {
			opts = append(opts, grpc.Network(c.Grpc.Network))
		}
		if c.Grpc.Addr != "" {
			opts = append(opts, grpc.Address(c.Grpc.Addr))
		}
		if c.Grpc.Timeout != nil {
			opts = append(opts, grpc.Timeout(c.Grpc.Timeout.AsDuration()))
		}
	}
	return grpc.NewServer(opts...)
}
