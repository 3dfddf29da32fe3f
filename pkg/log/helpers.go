package log

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// LogHelper 扩展 Kratos log.Helper，提供便捷的日志方法
// 通过在日志调用时自动添加 "type" 字段，触发 EmojiConsoleEncoder 的表情符号映射
type LogHelper struct {
	*log.Helper
}

// NewLogHelper 创建增强的日志辅助器
func NewLogHelper(logger log.Logger) *LogHelper {
	return &LogHelper{
		Helper: log.NewHelper(logger),
	}
}

func typed(msg, logType string, kvs []interface{}) []interface{} {
	allKvs := append([]interface{}{"msg", msg}, kvs...)
	return append(allKvs, "type", logType)
}

// Match 记录捐赠人匹配日志（🎯）
func (h *LogHelper) Match(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "match", kvs)...)
}

// Donor 记录捐赠人相关日志（👤）
func (h *LogHelper) Donor(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "donor", kvs)...)
}

// Event 记录活动相关日志（📅）
func (h *LogHelper) Event(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "event", kvs)...)
}

// Audit 记录审计日志（📋）
func (h *LogHelper) Audit(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "audit", kvs)...)
}

// Scheduler 记录调度器相关日志（⏰）
func (h *LogHelper) Scheduler(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "scheduler", kvs)...)
}

// Database 记录数据库操作日志（💾）
func (h *LogHelper) Database(msg string, kvs ...interface{}) {
	h.Debugw(typed(msg, "database", kvs)...)
}

// Cache 记录缓存操作日志（📦）
func (h *LogHelper) Cache(msg string, kvs ...interface{}) {
	h.Debugw(typed(msg, "cache", kvs)...)
}

// Startup 记录启动相关日志（🚀）
func (h *LogHelper) Startup(msg string, kvs ...interface{}) {
	h.Infow(typed(msg, "startup", kvs)...)
}

// RequestWithContext logs a finished HTTP request with the tracing fields
// carried by ctx. Requests slower than one second are also reported at warn.
func (h *LogHelper) RequestWithContext(ctx context.Context, method, url string, status int, durationMs int64, kvs ...interface{}) {
	reqCtx := GetRequestContext(ctx)

	msg := fmt.Sprintf("%s %s - %d (%dms)", method, url, status, durationMs)
	allKvs := append([]interface{}{"msg", msg}, kvs...)
	allKvs = append(allKvs,
		"type", "request",
		"request_id", reqCtx.RequestID,
		"client_ip", reqCtx.ClientIP,
		"method", method,
		"url", url,
		"status", status,
		"duration_ms", durationMs,
	)
	if reqCtx.ActorID != nil {
		allKvs = append(allKvs, "actor_id", *reqCtx.ActorID)
	}
	h.Infow(allKvs...)

	if durationMs > 1000 {
		h.Warnw(typed(fmt.Sprintf("[%s] slow request %s %s", reqCtx.RequestID, method, url), "warning",
			[]interface{}{"duration_ms", durationMs, "threshold_ms", 1000})...)
	}
}
