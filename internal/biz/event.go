package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// EventRepo defines the interface for event data access.
type EventRepo interface {
	CreateEvent(ctx context.Context, event *data.Event) error
	GetEvent(ctx context.Context, id int64) (*data.Event, error)
	ListEvents(ctx context.Context) ([]*data.Event, error)
	UpdateEvent(ctx context.Context, event *data.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// EventDonorRepo defines the interface for invitation data access.
type EventDonorRepo interface {
	ListByEvent(ctx context.Context, eventID int64) ([]*data.EventDonor, error)
	ExistingDonorIDs(ctx context.Context, eventID int64, donorIDs []int64) (map[int64]bool, error)
	CreateBatch(ctx context.Context, rows []*data.EventDonor) error
	Get(ctx context.Context, eventID, donorID int64) (*data.EventDonor, error)
	Update(ctx context.Context, row *data.EventDonor) error
	Delete(ctx context.Context, eventID, donorID int64) error
}

// AddDonorsResult reports a bulk invitation.
type AddDonorsResult struct {
	Added   []*data.EventDonor
	Skipped int
}

// EventStats summarizes invitation responses and event goals.
type EventStats struct {
	TotalInvited      int
	Confirmed         int
	Attended          int
	Declined          int
	NoResponse        int
	TargetAmount      float64
	ActualAmount      float64
	ExpectedAttendees int
	ActualAttendees   int
}

// EventUsecase implements event management and donor invitations.
type EventUsecase struct {
	events  EventRepo
	invites EventDonorRepo
	donors  *DonorUsecase
	audit   *AuditTrailUsecase
	logger  *pkglog.LogHelper
	now     func() time.Time
}

// NewEventUsecase creates a new event usecase.
func NewEventUsecase(events EventRepo, invites EventDonorRepo, donors *DonorUsecase, audit *AuditTrailUsecase, logger log.Logger) *EventUsecase {
	return &EventUsecase{
		events:  events,
		invites: invites,
		donors:  donors,
		audit:   audit,
		logger:  pkglog.NewLogHelper(logger),
		now:     time.Now,
	}
}

// CreateEvent validates and stores an event, recording the creation.
func (uc *EventUsecase) CreateEvent(ctx context.Context, event *data.Event) (*data.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	event.ID = 0

	if err := uc.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionCreate,
		EntityType: EntityEvent,
		EntityID:   idPtr(event.ID),
		After:      EventSnapshot(event),
		Metadata:   actorMetadata(ctx, map[string]interface{}{"status": string(event.Status)}),
	})
	uc.logger.Event("event created", "id", event.ID, "name", event.Name)
	return event, nil
}

// GetEvent retrieves an event by ID.
func (uc *EventUsecase) GetEvent(ctx context.Context, id int64) (*data.Event, error) {
	return uc.events.GetEvent(ctx, id)
}

// ListEvents returns every event by date.
func (uc *EventUsecase) ListEvents(ctx context.Context) ([]*data.Event, error) {
	return uc.events.ListEvents(ctx)
}

// EventPatch carries the fields of an event update. Nil fields are left
// unchanged; an empty non-nil EventType clears the list.
type EventPatch struct {
	Name              *string
	Description       *string
	Date              *time.Time
	Location          *string
	EventType         []string
	TargetAmount      *float64
	ExpectedAttendees *int
	Status            *data.EventStatus
	ActualAmount      *float64
	ActualAttendees   *int
	Notes             *string
}

// Fields names the supplied fields in their API spelling.
func (p *EventPatch) Fields() []string {
	if p == nil {
		return []string{}
	}
	fields := make([]string, 0, 11)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.Name != nil, "name")
	add(p.Description != nil, "description")
	add(p.Date != nil, "date")
	add(p.Location != nil, "location")
	add(p.EventType != nil, "eventType")
	add(p.TargetAmount != nil, "targetAmount")
	add(p.ExpectedAttendees != nil, "expectedAttendees")
	add(p.Status != nil, "status")
	add(p.ActualAmount != nil, "actualAmount")
	add(p.ActualAttendees != nil, "actualAttendees")
	add(p.Notes != nil, "notes")
	return fields
}

func (p *EventPatch) applyTo(e *data.Event) {
	if p == nil {
		return
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.EventType != nil {
		e.EventType = append(data.StringList{}, p.EventType...)
	}
	if p.TargetAmount != nil {
		e.TargetAmount = *p.TargetAmount
	}
	if p.ExpectedAttendees != nil {
		e.ExpectedAttendees = *p.ExpectedAttendees
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ActualAmount != nil {
		e.ActualAmount = *p.ActualAmount
	}
	if p.ActualAttendees != nil {
		e.ActualAttendees = *p.ActualAttendees
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}

// UpdateEvent applies patch to the stored event and records the change. The
// merged event must still be valid.
func (uc *EventUsecase) UpdateEvent(ctx context.Context, id int64, patch *EventPatch) (*data.Event, error) {
	existing, err := uc.events.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	before := EventSnapshot(existing)

	updated := *existing
	updated.EventType = append(data.StringList{}, existing.EventType...)
	patch.applyTo(&updated)
	if err := validateEvent(&updated); err != nil {
		return nil, err
	}
	if updated.Status == "" {
		return nil, fmt.Errorf("%w: status must not be empty", ErrInvalidArgument)
	}

	if err := uc.events.UpdateEvent(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	fields := patch.Fields()
	updatedFields := make([]interface{}, len(fields))
	for i, f := range fields {
		updatedFields[i] = f
	}
	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionUpdate,
		EntityType: EntityEvent,
		EntityID:   idPtr(id),
		Before:     before,
		After:      EventSnapshot(&updated),
		Metadata:   actorMetadata(ctx, map[string]interface{}{"updatedFields": updatedFields}),
	})
	uc.logger.Event("event updated", "id", id, "fields", fields)
	return &updated, nil
}

// DeleteEvent removes an event and its invitations, recording its last state.
func (uc *EventUsecase) DeleteEvent(ctx context.Context, id int64) error {
	existing, err := uc.events.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.events.DeleteEvent(ctx, id); err != nil {
		return err
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionDelete,
		EntityType: EntityEvent,
		EntityID:   idPtr(id),
		Before:     EventSnapshot(existing),
		Metadata:   actorMetadata(ctx, nil),
	})
	uc.logger.Event("event deleted", "id", id)
	return nil
}

// ListEventDonors returns the invitations of an event, best match first.
func (uc *EventUsecase) ListEventDonors(ctx context.Context, eventID int64) ([]*data.EventDonor, error) {
	if _, err := uc.events.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return uc.invites.ListByEvent(ctx, eventID)
}

// SuggestDonors matches the active pool against the event's own criteria,
// leaving out donors already invited.
func (uc *EventUsecase) SuggestDonors(ctx context.Context, eventID int64, focus EventFocus) ([]ScoredDonor, error) {
	event, err := uc.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	invited, err := uc.invites.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	exclude := make(map[int64]bool, len(invited))
	for _, row := range invited {
		exclude[row.DonorID] = true
	}

	criteria := MatchCriteria{
		EventType:       []string(event.EventType),
		Location:        event.Location,
		TargetAttendees: event.ExpectedAttendees,
		EventFocus:      focus,
	}
	return uc.donors.match(ctx, criteria, nil, exclude)
}

// AddDonors invites donorIDs to the event, skipping donors already invited.
// matchScores supplies the stored score per donor; missing entries store 0.
func (uc *EventUsecase) AddDonors(ctx context.Context, eventID int64, donorIDs []int64, matchScores map[int64]float64) (*AddDonorsResult, error) {
	if _, err := uc.events.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if len(donorIDs) == 0 {
		return &AddDonorsResult{}, nil
	}

	existing, err := uc.invites.ExistingDonorIDs(ctx, eventID, donorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check invitations: %w", err)
	}

	seen := make(map[int64]bool, len(donorIDs))
	rows := make([]*data.EventDonor, 0, len(donorIDs))
	for _, id := range donorIDs {
		if existing[id] || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, &data.EventDonor{
			EventID:    eventID,
			DonorID:    id,
			Status:     data.InvitationInvited,
			MatchScore: matchScores[id],
		})
	}

	result := &AddDonorsResult{Skipped: len(donorIDs) - len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	if err := uc.invites.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to add donors: %w", err)
	}
	result.Added = rows

	added := make([]interface{}, len(rows))
	for i, row := range rows {
		added[i] = EventDonorSnapshot(row)
	}
	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionCreate,
		EntityType: EntityEventDonor,
		EntityID:   idPtr(eventID),
		After:      map[string]interface{}{"added": added},
		Metadata:   actorMetadata(ctx, map[string]interface{}{"source": "bulk_invite"}),
	})
	uc.logger.Event("donors invited", "event_id", eventID, "added", len(rows), "skipped", result.Skipped)
	return result, nil
}

// UpdateDonorStatus records a donor's response to an invitation. Blank notes
// keep the stored notes.
func (uc *EventUsecase) UpdateDonorStatus(ctx context.Context, eventID, donorID int64, status data.InvitationStatus, notes string) (*data.EventDonor, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown invitation status %q", ErrInvalidArgument, status)
	}

	row, err := uc.invites.Get(ctx, eventID, donorID)
	if err != nil {
		return nil, err
	}
	before := EventDonorSnapshot(row)

	row.Status = status
	if notes != "" {
		row.Notes = notes
	}
	respondedAt := uc.now().UTC()
	row.RespondedAt = &respondedAt

	if err := uc.invites.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionUpdate,
		EntityType: EntityEventDonor,
		EntityID:   idPtr(eventID),
		Before:     before,
		After:      EventDonorSnapshot(row),
		Metadata:   actorMetadata(ctx, map[string]interface{}{"donorId": donorID}),
	})
	return row, nil
}

// RemoveDonor withdraws an invitation, recording its last state.
func (uc *EventUsecase) RemoveDonor(ctx context.Context, eventID, donorID int64) error {
	row, err := uc.invites.Get(ctx, eventID, donorID)
	if err != nil {
		return err
	}
	if err := uc.invites.Delete(ctx, eventID, donorID); err != nil {
		return err
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionDelete,
		EntityType: EntityEventDonor,
		EntityID:   idPtr(eventID),
		Before:     EventDonorSnapshot(row),
		Metadata:   actorMetadata(ctx, map[string]interface{}{"donorId": donorID}),
	})
	return nil
}

// Stats counts invitation responses for an event.
func (uc *EventUsecase) Stats(ctx context.Context, eventID int64) (*EventStats, error) {
	event, err := uc.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.invites.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	stats := &EventStats{
		TotalInvited:      len(rows),
		TargetAmount:      event.TargetAmount,
		ActualAmount:      event.ActualAmount,
		ExpectedAttendees: event.ExpectedAttendees,
		ActualAttendees:   event.ActualAttendees,
	}
	for _, row := range rows {
		switch row.Status {
		case data.InvitationConfirmed:
			stats.Confirmed++
		case data.InvitationAttended:
			stats.Attended++
		case data.InvitationDeclined:
			stats.Declined++
		case data.InvitationNoResponse:
			stats.NoResponse++
		}
	}
	return stats, nil
}

func validateEvent(e *data.Event) error {
	if e == nil {
		return fmt.Errorf("%w: event is required", ErrInvalidArgument)
	}
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	if e.Status != "" && !e.Status.Valid() {
		return fmt.Errorf("%w: unknown event status %q", ErrInvalidArgument, e.Status)
	}
	if e.TargetAmount < 0 || e.ExpectedAttendees < 0 {
		return fmt.Errorf("%w: targetAmount and expectedAttendees must not be negative", ErrInvalidArgument)
	}
	return nil
}
