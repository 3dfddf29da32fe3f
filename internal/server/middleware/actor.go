// Package middleware provides HTTP middleware for request context and logging.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	// HeaderActorID carries the id of the user acting on the request.
	HeaderActorID = "X-Actor-ID"
	// HeaderRequestID carries a caller supplied request id.
	HeaderRequestID = "X-Request-ID"
)

// Actor 把请求 ID、操作人和来源 IP 写入 Context
// 审计记录和请求日志都从这里读取
//
// 认证由上游网关负责，这里只信任 X-Actor-ID 头，非数字时按匿名处理
func Actor(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}
			ht, ok := tr.(khttp.Transporter)
			if !ok {
				return handler(ctx, req)
			}
			httpReq := ht.Request()

			requestID := strings.TrimSpace(httpReq.Header.Get(HeaderRequestID))
			if requestID == "" {
				requestID = pkglog.GenerateRequestID()
			}
			tr.ReplyHeader().Set(HeaderRequestID, requestID)

			actorID, err := parseActorID(httpReq.Header.Get(HeaderActorID))
			if err != nil {
				logger.Debugw("msg", "ignoring malformed actor header",
					"request_id", requestID, "value", httpReq.Header.Get(HeaderActorID))
			}

			ctx = pkglog.WithRequestContext(ctx, requestID, actorID, ClientIP(httpReq))
			return handler(ctx, req)
		}
	}
}

func parseActorID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ClientIP 提取客户端 IP
// 优先级: X-Forwarded-For 第一个非空地址 > X-Real-IP > RemoteAddr
func ClientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(req.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}
	return req.RemoteAddr
}
