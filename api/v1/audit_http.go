package v1

import (
	context "context"
	fmt "fmt"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationAuditServiceListAuditLogs = "/api.v1.AuditService/ListAuditLogs"
const OperationAuditServiceExportAuditLogs = "/api.v1.AuditService/ExportAuditLogs"
const OperationAuditServiceGetAuditLog = "/api.v1.AuditService/GetAuditLog"

type AuditServiceHTTPServer interface {
	ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsReply, error)
	ExportAuditLogs(context.Context, *ExportAuditLogsRequest) (*ExportAuditLogsReply, error)
	GetAuditLog(context.Context, *GetAuditLogRequest) (*AuditLogEntry, error)
}

func RegisterAuditServiceHTTPServer(s *http.Server, srv AuditServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/api/v1/admin/audit-logs", _AuditService_ListAuditLogs0_HTTP_Handler(srv))
	r.GET("/api/v1/admin/audit-logs/export", _AuditService_ExportAuditLogs0_HTTP_Handler(srv))
	r.GET("/api/v1/admin/audit-logs/{id}", _AuditService_GetAuditLog0_HTTP_Handler(srv))
}

func _AuditService_ListAuditLogs0_HTTP_Handler(srv AuditServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListAuditLogsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAuditServiceListAuditLogs)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListAuditLogs(ctx, req.(*ListAuditLogsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListAuditLogsReply)
		return ctx.Result(200, reply)
	}
}

// 导出接口直接写文件下载响应，不走默认的 JSON 编码
func _AuditService_ExportAuditLogs0_HTTP_Handler(srv AuditServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ExportAuditLogsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAuditServiceExportAuditLogs)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ExportAuditLogs(ctx, req.(*ExportAuditLogsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ExportAuditLogsReply)
		ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reply.Filename))
		if reply.Format == "json" {
			return ctx.JSON(200, reply.Items)
		}
		return ctx.Blob(200, "text/csv; charset=utf-8", reply.Content)
	}
}

func _AuditService_GetAuditLog0_HTTP_Handler(srv AuditServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GetAuditLogRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAuditServiceGetAuditLog)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetAuditLog(ctx, req.(*GetAuditLogRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*AuditLogEntry)
		return ctx.Result(200, reply)
	}
}
