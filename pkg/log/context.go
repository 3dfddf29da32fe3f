package log

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestContextKey contextKey = "donorlane_request_context"

// RequestContext 存储请求追踪信息
// 由中间件写入，审计记录从这里取操作人和来源 IP
type RequestContext struct {
	RequestID string
	ActorID   *int64 // X-Actor-ID，缺失或非法时为 nil
	ClientIP  string
	StartTime time.Time
}

// GenerateRequestID returns a short random request id.
func GenerateRequestID() string {
	return uuid.NewString()[:8]
}

// WithRequestContext 将 RequestContext 注入到 Context 中
func WithRequestContext(ctx context.Context, requestID string, actorID *int64, clientIP string) context.Context {
	return context.WithValue(ctx, requestContextKey, &RequestContext{
		RequestID: requestID,
		ActorID:   actorID,
		ClientIP:  clientIP,
		StartTime: time.Now(),
	})
}

// GetRequestContext 从 Context 中提取 RequestContext
// 如果不存在，返回一个默认的空 RequestContext
func GetRequestContext(ctx context.Context) *RequestContext {
	if ctx != nil {
		if reqCtx, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{RequestID: "unknown"}
}

// GetRequestID 从 Context 中提取 Request ID
func GetRequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

// GetActorID returns the acting user id carried by ctx, or nil.
func GetActorID(ctx context.Context) *int64 {
	return GetRequestContext(ctx).ActorID
}

// GetClientIP returns the client address carried by ctx, or "".
func GetClientIP(ctx context.Context) string {
	return GetRequestContext(ctx).ClientIP
}

// GetElapsedTime 获取请求已执行时间（毫秒）
func GetElapsedTime(ctx context.Context) int64 {
	reqCtx := GetRequestContext(ctx)
	if reqCtx.StartTime.IsZero() {
		return 0
	}
	return time.Since(reqCtx.StartTime).Milliseconds()
}
