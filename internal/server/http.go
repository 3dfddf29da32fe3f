package server

import (
	v1 "DonorLane/api/v1"
	"DonorLane/internal/conf"
	"DonorLane/internal/server/middleware"
	"DonorLane/internal/service"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	donorService *service.DonorService,
	eventService *service.EventService,
	auditService *service.AuditService,
	analyticsService *service.AnalyticsService,
	gatherer prometheus.Gatherer,
	logger log.Logger,
) *http.Server {
	// 创建增强的日志辅助器
	logHelper := pkglog.NewLogHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Actor(logHelper),   // 请求上下文：Request ID、操作人、来源 IP
			middleware.Logging(logHelper), // 请求日志：方法、路径、状态码、耗时
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, http.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != nil {
			opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
		}
	}
	srv := http.NewServer(opts...)

	v1.RegisterDonorServiceHTTPServer(srv, donorService)
	v1.RegisterEventServiceHTTPServer(srv, eventService)
	v1.RegisterAuditServiceHTTPServer(srv, auditService)
	v1.RegisterAnalyticsServiceHTTPServer(srv, analyticsService)
	srv.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return srv
}
