package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationDonorServiceMatchDonors = "/api.v1.DonorService/MatchDonors"
const OperationDonorServiceListDonors = "/api.v1.DonorService/ListDonors"
const OperationDonorServiceDonorStats = "/api.v1.DonorService/DonorStats"
const OperationDonorServiceDonorFilterOptions = "/api.v1.DonorService/DonorFilterOptions"
const OperationDonorServiceGetDonor = "/api.v1.DonorService/GetDonor"
const OperationDonorServiceCreateDonor = "/api.v1.DonorService/CreateDonor"
const OperationDonorServiceUpdateDonor = "/api.v1.DonorService/UpdateDonor"
const OperationDonorServiceDeleteDonor = "/api.v1.DonorService/DeleteDonor"

type DonorServiceHTTPServer interface {
	MatchDonors(context.Context, *MatchDonorsRequest) (*MatchDonorsReply, error)
	ListDonors(context.Context, *ListDonorsRequest) (*ListDonorsReply, error)
	DonorStats(context.Context, *DonorStatsRequest) (*DonorStatsReply, error)
	DonorFilterOptions(context.Context, *DonorFilterOptionsRequest) (*DonorFilterOptionsReply, error)
	GetDonor(context.Context, *GetDonorRequest) (*Donor, error)
	CreateDonor(context.Context, *Donor) (*Donor, error)
	UpdateDonor(context.Context, *UpdateDonorRequest) (*Donor, error)
	DeleteDonor(context.Context, *DeleteDonorRequest) (*MessageReply, error)
}

func RegisterDonorServiceHTTPServer(s *http.Server, srv DonorServiceHTTPServer) {
	r := s.Route("/")
	r.POST("/api/v1/donors/match", _DonorService_MatchDonors0_HTTP_Handler(srv))
	r.GET("/api/v1/donors", _DonorService_ListDonors0_HTTP_Handler(srv))
	r.GET("/api/v1/donors/stats/summary", _DonorService_DonorStats0_HTTP_Handler(srv))
	r.GET("/api/v1/donors/filters/options", _DonorService_DonorFilterOptions0_HTTP_Handler(srv))
	r.GET("/api/v1/donors/{id}", _DonorService_GetDonor0_HTTP_Handler(srv))
	r.POST("/api/v1/donors", _DonorService_CreateDonor0_HTTP_Handler(srv))
	r.PUT("/api/v1/donors/{id}", _DonorService_UpdateDonor0_HTTP_Handler(srv))
	r.DELETE("/api/v1/donors/{id}", _DonorService_DeleteDonor0_HTTP_Handler(srv))
}

func _DonorService_MatchDonors0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in MatchDonorsRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceMatchDonors)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.MatchDonors(ctx, req.(*MatchDonorsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*MatchDonorsReply)
		return ctx.Result(200, reply)
	}
}

func _DonorService_ListDonors0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListDonorsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceListDonors)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListDonors(ctx, req.(*ListDonorsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListDonorsReply)
		return ctx.Result(200, reply)
	}
}

func _DonorService_DonorStats0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DonorStatsRequest
		http.SetOperation(ctx, OperationDonorServiceDonorStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DonorStats(ctx, req.(*DonorStatsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DonorStatsReply)
		return ctx.Result(200, reply)
	}
}

func _DonorService_DonorFilterOptions0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DonorFilterOptionsRequest
		http.SetOperation(ctx, OperationDonorServiceDonorFilterOptions)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DonorFilterOptions(ctx, req.(*DonorFilterOptionsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DonorFilterOptionsReply)
		return ctx.Result(200, reply)
	}
}

func _DonorService_GetDonor0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GetDonorRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceGetDonor)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetDonor(ctx, req.(*GetDonorRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Donor)
		return ctx.Result(200, reply)
	}
}

func _DonorService_CreateDonor0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in Donor
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceCreateDonor)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateDonor(ctx, req.(*Donor))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Donor)
		return ctx.Result(201, reply)
	}
}

func _DonorService_UpdateDonor0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in UpdateDonorRequest
		in.Donor = &Donor{}
		if err := ctx.Bind(in.Donor); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceUpdateDonor)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.UpdateDonor(ctx, req.(*UpdateDonorRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Donor)
		return ctx.Result(200, reply)
	}
}

func _DonorService_DeleteDonor0_HTTP_Handler(srv DonorServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DeleteDonorRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDonorServiceDeleteDonor)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DeleteDonor(ctx, req.(*DeleteDonorRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*MessageReply)
		return ctx.Result(200, reply)
	}
}
