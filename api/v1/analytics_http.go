package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationAnalyticsServiceAnalyticsSummary = "/api.v1.AnalyticsService/AnalyticsSummary"

type AnalyticsServiceHTTPServer interface {
	AnalyticsSummary(context.Context, *AnalyticsSummaryRequest) (*AnalyticsSummaryReply, error)
}

func RegisterAnalyticsServiceHTTPServer(s *http.Server, srv AnalyticsServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/api/v1/analytics/summary", _AnalyticsService_AnalyticsSummary0_HTTP_Handler(srv))
}

func _AnalyticsService_AnalyticsSummary0_HTTP_Handler(srv AnalyticsServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AnalyticsSummaryRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAnalyticsServiceAnalyticsSummary)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.AnalyticsSummary(ctx, req.(*AnalyticsSummaryRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*AnalyticsSummaryReply)
		return ctx.Result(200, reply)
	}
}
