package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationEventServiceListEvents = "/api.v1.EventService/ListEvents"
const OperationEventServiceCreateEvent = "/api.v1.EventService/CreateEvent"
const OperationEventServiceGetEvent = "/api.v1.EventService/GetEvent"
const OperationEventServiceUpdateEvent = "/api.v1.EventService/UpdateEvent"
const OperationEventServiceDeleteEvent = "/api.v1.EventService/DeleteEvent"
const OperationEventServiceSuggestDonors = "/api.v1.EventService/SuggestDonors"
const OperationEventServiceEventStats = "/api.v1.EventService/EventStats"
const OperationEventServiceAddEventDonors = "/api.v1.EventService/AddEventDonors"
const OperationEventServiceUpdateEventDonorStatus = "/api.v1.EventService/UpdateEventDonorStatus"
const OperationEventServiceRemoveEventDonor = "/api.v1.EventService/RemoveEventDonor"

type EventServiceHTTPServer interface {
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsReply, error)
	CreateEvent(context.Context, *Event) (*Event, error)
	GetEvent(context.Context, *GetEventRequest) (*Event, error)
	UpdateEvent(context.Context, *UpdateEventRequest) (*Event, error)
	DeleteEvent(context.Context, *DeleteEventRequest) (*MessageReply, error)
	SuggestDonors(context.Context, *SuggestDonorsRequest) (*SuggestDonorsReply, error)
	EventStats(context.Context, *EventStatsRequest) (*EventStatsReply, error)
	AddEventDonors(context.Context, *AddEventDonorsRequest) (*AddEventDonorsReply, error)
	UpdateEventDonorStatus(context.Context, *UpdateEventDonorStatusRequest) (*EventDonor, error)
	RemoveEventDonor(context.Context, *RemoveEventDonorRequest) (*RemoveEventDonorReply, error)
}

func RegisterEventServiceHTTPServer(s *http.Server, srv EventServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/api/v1/events", _EventService_ListEvents0_HTTP_Handler(srv))
	r.POST("/api/v1/events", _EventService_CreateEvent0_HTTP_Handler(srv))
	r.GET("/api/v1/events/{id}", _EventService_GetEvent0_HTTP_Handler(srv))
	r.PUT("/api/v1/events/{id}", _EventService_UpdateEvent0_HTTP_Handler(srv))
	r.DELETE("/api/v1/events/{id}", _EventService_DeleteEvent0_HTTP_Handler(srv))
	r.GET("/api/v1/events/{id}/suggestions", _EventService_SuggestDonors0_HTTP_Handler(srv))
	r.GET("/api/v1/events/{id}/stats", _EventService_EventStats0_HTTP_Handler(srv))
	r.POST("/api/v1/events/{id}/donors", _EventService_AddEventDonors0_HTTP_Handler(srv))
	r.PUT("/api/v1/events/{eventId}/donors/{donorId}", _EventService_UpdateEventDonorStatus0_HTTP_Handler(srv))
	r.DELETE("/api/v1/events/{eventId}/donors/{donorId}", _EventService_RemoveEventDonor0_HTTP_Handler(srv))
}

func _EventService_ListEvents0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListEventsRequest
		http.SetOperation(ctx, OperationEventServiceListEvents)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListEvents(ctx, req.(*ListEventsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListEventsReply)
		return ctx.Result(200, reply)
	}
}

func _EventService_CreateEvent0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in Event
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceCreateEvent)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateEvent(ctx, req.(*Event))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Event)
		return ctx.Result(201, reply)
	}
}

func _EventService_GetEvent0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in GetEventRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceGetEvent)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetEvent(ctx, req.(*GetEventRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Event)
		return ctx.Result(200, reply)
	}
}

func _EventService_UpdateEvent0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in UpdateEventRequest
		in.Event = &EventPatch{}
		if err := ctx.Bind(in.Event); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceUpdateEvent)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.UpdateEvent(ctx, req.(*UpdateEventRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*Event)
		return ctx.Result(200, reply)
	}
}

func _EventService_DeleteEvent0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DeleteEventRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceDeleteEvent)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DeleteEvent(ctx, req.(*DeleteEventRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*MessageReply)
		return ctx.Result(200, reply)
	}
}

func _EventService_SuggestDonors0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SuggestDonorsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceSuggestDonors)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SuggestDonors(ctx, req.(*SuggestDonorsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*SuggestDonorsReply)
		return ctx.Result(200, reply)
	}
}

func _EventService_EventStats0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in EventStatsRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceEventStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.EventStats(ctx, req.(*EventStatsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*EventStatsReply)
		return ctx.Result(200, reply)
	}
}

func _EventService_AddEventDonors0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AddEventDonorsRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceAddEventDonors)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.AddEventDonors(ctx, req.(*AddEventDonorsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*AddEventDonorsReply)
		return ctx.Result(201, reply)
	}
}

func _EventService_UpdateEventDonorStatus0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in UpdateEventDonorStatusRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceUpdateEventDonorStatus)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.UpdateEventDonorStatus(ctx, req.(*UpdateEventDonorStatusRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*EventDonor)
		return ctx.Result(200, reply)
	}
}

func _EventService_RemoveEventDonor0_HTTP_Handler(srv EventServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in RemoveEventDonorRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationEventServiceRemoveEventDonor)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.RemoveEventDonor(ctx, req.(*RemoveEventDonorRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RemoveEventDonorReply)
		return ctx.Result(200, reply)
	}
}
