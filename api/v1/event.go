package v1

import "time"

// Event is the API representation of an event.
type Event struct {
	Id                int64         `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Date              time.Time     `json:"date"`
	Location          string        `json:"location,omitempty"`
	EventType         []string      `json:"eventType"`
	TargetAmount      float64       `json:"targetAmount"`
	ExpectedAttendees int32         `json:"expectedAttendees"`
	Status            string        `json:"status,omitempty"`
	ActualAmount      float64       `json:"actualAmount"`
	ActualAttendees   int32         `json:"actualAttendees"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time    `json:"updatedAt,omitempty"`
	EventDonors       []*EventDonor `json:"eventDonors,omitempty"`
}

// EventDonor is one invitation of a donor to an event.
type EventDonor struct {
	Id          int64      `json:"id"`
	EventId     int64      `json:"eventId"`
	DonorId     int64      `json:"donorId"`
	Status      string     `json:"status"`
	MatchScore  float64    `json:"matchScore"`
	Notes       string     `json:"notes,omitempty"`
	InvitedAt   time.Time  `json:"invitedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// ListEventsRequest is empty.
type ListEventsRequest struct{}

// ListEventsReply lists events by date.
type ListEventsReply struct {
	Events []*Event `json:"events"`
}

// GetEventRequest addresses one event.
type GetEventRequest struct {
	Id int64 `json:"id"`
}

// EventPatch is the body of an event update. Omitted fields keep their
// stored values.
type EventPatch struct {
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Date              *time.Time `json:"date,omitempty"`
	Location          *string    `json:"location,omitempty"`
	EventType         []string   `json:"eventType,omitempty"`
	TargetAmount      *float64   `json:"targetAmount,omitempty"`
	ExpectedAttendees *int32     `json:"expectedAttendees,omitempty"`
	Status            *string    `json:"status,omitempty"`
	ActualAmount      *float64   `json:"actualAmount,omitempty"`
	ActualAttendees   *int32     `json:"actualAttendees,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// UpdateEventRequest patches the event at Id.
type UpdateEventRequest struct {
	Id    int64       `json:"id"`
	Event *EventPatch `json:"event"`
}

// DeleteEventRequest addresses one event.
type DeleteEventRequest struct {
	Id int64 `json:"id"`
}

// SuggestDonorsRequest matches donors against an event's own criteria.
type SuggestDonorsRequest struct {
	Id    int64  `json:"id"`
	Focus string `json:"focus"`
}

// SuggestDonorsReply lists ranked donors not yet invited.
type SuggestDonorsReply struct {
	EventId      int64         `json:"eventId"`
	Matches      []*DonorMatch `json:"matches"`
	TotalMatches int32         `json:"totalMatches"`
}

// AddEventDonorsRequest invites donors in bulk. MatchScores is keyed by donor id.
type AddEventDonorsRequest struct {
	Id          int64              `json:"id"`
	DonorIds    []int64            `json:"donorIds"`
	MatchScores map[string]float64 `json:"matchScores,omitempty"`
}

// AddEventDonorsReply reports how many donors were invited.
type AddEventDonorsReply struct {
	Message string `json:"message"`
	Count   int32  `json:"count"`
}

// UpdateEventDonorStatusRequest records a donor's response.
type UpdateEventDonorStatusRequest struct {
	EventId int64  `json:"eventId"`
	DonorId int64  `json:"donorId"`
	Status  string `json:"status"`
	Notes   string `json:"notes,omitempty"`
}

// RemoveEventDonorRequest withdraws an invitation.
type RemoveEventDonorRequest struct {
	EventId int64 `json:"eventId"`
	DonorId int64 `json:"donorId"`
}

// RemoveEventDonorReply acknowledges a withdrawn invitation.
type RemoveEventDonorReply struct {
	Message string `json:"message"`
	EventId int64  `json:"eventId"`
	DonorId int64  `json:"donorId"`
}

// EventStatsRequest addresses one event.
type EventStatsRequest struct {
	Id int64 `json:"id"`
}

// EventStatsReply counts invitation responses against event goals.
type EventStatsReply struct {
	TotalInvited      int32   `json:"totalInvited"`
	Confirmed         int32   `json:"confirmed"`
	Attended          int32   `json:"attended"`
	Declined          int32   `json:"declined"`
	NoResponse        int32   `json:"noResponse"`
	TargetAmount      float64 `json:"targetAmount"`
	ActualAmount      float64 `json:"actualAmount"`
	ExpectedAttendees int32   `json:"expectedAttendees"`
	ActualAttendees   int32   `json:"actualAttendees"`
}
