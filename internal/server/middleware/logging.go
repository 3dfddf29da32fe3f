package middleware

import (
	"context"
	"time"

	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// Logging 返回一个记录 HTTP 请求日志的中间件
// 需要放在 Actor 之后，才能带上 Request ID 和操作人
//
// 日志输出示例:
//
//	🟢 POST /api/v1/donors/match - 200 (42ms) | RequestID: 3f9c2a1b
func Logging(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			start := time.Now()

			var method, path, userAgent string
			if tr, ok := transport.FromServerContext(ctx); ok {
				method, path = tr.Kind().String(), tr.Operation()
				if ht, ok := tr.(khttp.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
					if httpReq.URL.RawQuery != "" {
						path += "?" + httpReq.URL.RawQuery
					}
					userAgent = httpReq.Header.Get("User-Agent")
				}
			}

			reply, err := handler(ctx, req)

			logger.RequestWithContext(ctx, method, path, statusOf(err), time.Since(start).Milliseconds(),
				"user_agent", userAgent,
			)
			return reply, err
		}
	}
}

// statusOf maps a handler error to the HTTP status the error encoder will
// write for it.
func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return int(errors.FromError(err).Code)
}
