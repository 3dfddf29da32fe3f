package service

import (
	"context"
	"fmt"
	"strconv"

	v1 "DonorLane/api/v1"
	"DonorLane/internal/biz"
	"DonorLane/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

var _ v1.EventServiceHTTPServer = (*EventService)(nil)

// EventService implements the event HTTP API.
type EventService struct {
	uc     *biz.EventUsecase
	logger *log.Helper
}

// NewEventService creates a new EventService instance.
func NewEventService(uc *biz.EventUsecase, logger log.Logger) *EventService {
	return &EventService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// ListEvents returns every event by date.
func (s *EventService) ListEvents(ctx context.Context, _ *v1.ListEventsRequest) (*v1.ListEventsReply, error) {
	events, err := s.uc.ListEvents(ctx)
	if err != nil {
		s.logger.Errorw("failed to list events", "error", err)
		return nil, toHTTPError(err)
	}
	reply := &v1.ListEventsReply{Events: make([]*v1.Event, 0, len(events))}
	for _, e := range events {
		reply.Events = append(reply.Events, toEventReply(e))
	}
	return reply, nil
}

// CreateEvent creates an event.
func (s *EventService) CreateEvent(ctx context.Context, req *v1.Event) (*v1.Event, error) {
	s.logger.Infow("CreateEvent called", "name", req.Name)

	event, err := s.uc.CreateEvent(ctx, fromEventRequest(req))
	if err != nil {
		s.logger.Errorw("failed to create event", "error", err)
		return nil, toHTTPError(err)
	}
	return toEventReply(event), nil
}

// GetEvent retrieves an event together with its invitations.
func (s *EventService) GetEvent(ctx context.Context, req *v1.GetEventRequest) (*v1.Event, error) {
	event, err := s.uc.GetEvent(ctx, req.Id)
	if err != nil {
		s.logger.Errorw("failed to get event", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	invites, err := s.uc.ListEventDonors(ctx, req.Id)
	if err != nil {
		s.logger.Errorw("failed to list event donors", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}

	reply := toEventReply(event)
	reply.EventDonors = make([]*v1.EventDonor, 0, len(invites))
	for _, row := range invites {
		reply.EventDonors = append(reply.EventDonors, toEventDonorReply(row))
	}
	return reply, nil
}

// UpdateEvent patches an event with the supplied fields.
func (s *EventService) UpdateEvent(ctx context.Context, req *v1.UpdateEventRequest) (*v1.Event, error) {
	s.logger.Infow("UpdateEvent called", "id", req.Id)

	event, err := s.uc.UpdateEvent(ctx, req.Id, fromEventPatch(req.Event))
	if err != nil {
		s.logger.Errorw("failed to update event", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return toEventReply(event), nil
}

// DeleteEvent removes an event and its invitations.
func (s *EventService) DeleteEvent(ctx context.Context, req *v1.DeleteEventRequest) (*v1.MessageReply, error) {
	s.logger.Infow("DeleteEvent called", "id", req.Id)

	if err := s.uc.DeleteEvent(ctx, req.Id); err != nil {
		s.logger.Errorw("failed to delete event", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.MessageReply{Message: "Event deleted successfully"}, nil
}

// SuggestDonors ranks donors not yet invited against the event's criteria.
func (s *EventService) SuggestDonors(ctx context.Context, req *v1.SuggestDonorsRequest) (*v1.SuggestDonorsReply, error) {
	focus := biz.EventFocus(req.Focus)
	if focus == "" {
		focus = biz.FocusFundraising
	}
	matches, err := s.uc.SuggestDonors(ctx, req.Id, focus)
	if err != nil {
		s.logger.Errorw("failed to suggest donors", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.SuggestDonorsReply{
		EventId:      req.Id,
		Matches:      toDonorMatches(matches),
		TotalMatches: int32(len(matches)),
	}, nil
}

// EventStats counts invitation responses against event goals.
func (s *EventService) EventStats(ctx context.Context, req *v1.EventStatsRequest) (*v1.EventStatsReply, error) {
	stats, err := s.uc.Stats(ctx, req.Id)
	if err != nil {
		s.logger.Errorw("failed to compute event stats", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.EventStatsReply{
		TotalInvited:      int32(stats.TotalInvited),
		Confirmed:         int32(stats.Confirmed),
		Attended:          int32(stats.Attended),
		Declined:          int32(stats.Declined),
		NoResponse:        int32(stats.NoResponse),
		TargetAmount:      stats.TargetAmount,
		ActualAmount:      stats.ActualAmount,
		ExpectedAttendees: int32(stats.ExpectedAttendees),
		ActualAttendees:   int32(stats.ActualAttendees),
	}, nil
}

// AddEventDonors invites donors in bulk, skipping those already invited.
func (s *EventService) AddEventDonors(ctx context.Context, req *v1.AddEventDonorsRequest) (*v1.AddEventDonorsReply, error) {
	s.logger.Infow("AddEventDonors called", "id", req.Id, "donors", len(req.DonorIds))

	result, err := s.uc.AddDonors(ctx, req.Id, req.DonorIds, parseMatchScores(req.MatchScores))
	if err != nil {
		s.logger.Errorw("failed to add event donors", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}

	switch {
	case len(req.DonorIds) == 0:
		return &v1.AddEventDonorsReply{Message: "No donors provided"}, nil
	case len(result.Added) == 0:
		return &v1.AddEventDonorsReply{Message: "All donors are already invited to this event"}, nil
	}
	return &v1.AddEventDonorsReply{
		Message: fmt.Sprintf("Added %d donors to event", len(result.Added)),
		Count:   int32(len(result.Added)),
	}, nil
}

// UpdateEventDonorStatus records a donor's response to an invitation.
func (s *EventService) UpdateEventDonorStatus(ctx context.Context, req *v1.UpdateEventDonorStatusRequest) (*v1.EventDonor, error) {
	row, err := s.uc.UpdateDonorStatus(ctx, req.EventId, req.DonorId, data.InvitationStatus(req.Status), req.Notes)
	if err != nil {
		s.logger.Errorw("failed to update invitation", "event_id", req.EventId, "donor_id", req.DonorId, "error", err)
		return nil, toHTTPError(err)
	}
	return toEventDonorReply(row), nil
}

// RemoveEventDonor withdraws an invitation.
func (s *EventService) RemoveEventDonor(ctx context.Context, req *v1.RemoveEventDonorRequest) (*v1.RemoveEventDonorReply, error) {
	if err := s.uc.RemoveDonor(ctx, req.EventId, req.DonorId); err != nil {
		s.logger.Errorw("failed to remove invitation", "event_id", req.EventId, "donor_id", req.DonorId, "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.RemoveEventDonorReply{
		Message: "Donor removed from event",
		EventId: req.EventId,
		DonorId: req.DonorId,
	}, nil
}

// parseMatchScores converts JSON object keys to donor IDs. Keys that are not
// integers are dropped.
func parseMatchScores(in map[string]float64) map[int64]float64 {
	out := make(map[int64]float64, len(in))
	for k, v := range in {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

func toEventReply(e *data.Event) *v1.Event {
	if e == nil {
		return nil
	}
	return &v1.Event{
		Id:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		EventType:         append([]string{}, e.EventType...),
		TargetAmount:      e.TargetAmount,
		ExpectedAttendees: int32(e.ExpectedAttendees),
		Status:            string(e.Status),
		ActualAmount:      e.ActualAmount,
		ActualAttendees:   int32(e.ActualAttendees),
		Notes:             e.Notes,
		CreatedAt:         timePtr(e.CreatedAt),
		UpdatedAt:         timePtr(e.UpdatedAt),
	}
}

func fromEventRequest(e *v1.Event) *data.Event {
	if e == nil {
		return nil
	}
	return &data.Event{
		Name:              e.Name,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		EventType:         data.StringList(append([]string{}, e.EventType...)),
		TargetAmount:      e.TargetAmount,
		ExpectedAttendees: int(e.ExpectedAttendees),
		Status:            data.EventStatus(e.Status),
		ActualAmount:      e.ActualAmount,
		ActualAttendees:   int(e.ActualAttendees),
		Notes:             e.Notes,
	}
}

func fromEventPatch(p *v1.EventPatch) *biz.EventPatch {
	if p == nil {
		return nil
	}
	patch := &biz.EventPatch{
		Name:         p.Name,
		Description:  p.Description,
		Date:         p.Date,
		Location:     p.Location,
		TargetAmount: p.TargetAmount,
		ActualAmount: p.ActualAmount,
		Notes:        p.Notes,
	}
	if p.EventType != nil {
		patch.EventType = append([]string{}, p.EventType...)
	}
	if p.ExpectedAttendees != nil {
		n := int(*p.ExpectedAttendees)
		patch.ExpectedAttendees = &n
	}
	if p.ActualAttendees != nil {
		n := int(*p.ActualAttendees)
		patch.ActualAttendees = &n
	}
	if p.Status != nil {
		status := data.EventStatus(*p.Status)
		patch.Status = &status
	}
	return patch
}

func toEventDonorReply(row *data.EventDonor) *v1.EventDonor {
	return &v1.EventDonor{
		Id:          row.ID,
		EventId:     row.EventID,
		DonorId:     row.DonorID,
		Status:      string(row.Status),
		MatchScore:  row.MatchScore,
		Notes:       row.Notes,
		InvitedAt:   row.InvitedAt,
		RespondedAt: row.RespondedAt,
	}
}
