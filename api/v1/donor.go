// Package v1 holds the DonorLane HTTP API: request and reply messages and
// the route bindings that connect them to the service layer.
package v1

import "time"

// Donor is the API representation of a donor record.
type Donor struct {
	Id                         int64      `json:"id"`
	FirstName                  string     `json:"firstName"`
	LastName                   string     `json:"lastName"`
	Email                      string     `json:"email,omitempty"`
	Phone                      string     `json:"phone,omitempty"`
	Organization               string     `json:"organization,omitempty"`
	AddressLine1               string     `json:"addressLine1,omitempty"`
	AddressLine2               string     `json:"addressLine2,omitempty"`
	City                       string     `json:"city,omitempty"`
	Province                   string     `json:"province,omitempty"`
	PostalCode                 string     `json:"postalCode,omitempty"`
	Interests                  []string   `json:"interests"`
	TotalDonations             float64    `json:"totalDonations"`
	LargestGift                float64    `json:"largestGift"`
	FirstGiftDate              *time.Time `json:"firstGiftDate,omitempty"`
	LastGiftDate               *time.Time `json:"lastGiftDate,omitempty"`
	LastGiftAmount             float64    `json:"lastGiftAmount"`
	SubscriptionEventsInPerson bool       `json:"subscriptionEventsInPerson"`
	SubscriptionNewsletter     bool       `json:"subscriptionNewsletter"`
	Exclude                    bool       `json:"exclude"`
	Deceased                   bool       `json:"deceased"`
	Notes                      string     `json:"notes,omitempty"`
	CreatedAt                  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt                  *time.Time `json:"updatedAt,omitempty"`
}

// MatchWeights overrides individual weights of the selected profile.
type MatchWeights struct {
	InterestMatch     *float64 `json:"interestMatch,omitempty"`
	LocationMatch     *float64 `json:"locationMatch,omitempty"`
	DonationHistory   *float64 `json:"donationHistory,omitempty"`
	RecencyScore      *float64 `json:"recencyScore,omitempty"`
	EngagementScore   *float64 `json:"engagementScore,omitempty"`
	CapacityIndicator *float64 `json:"capacityIndicator,omitempty"`
}

// MatchDonorsRequest carries matching criteria.
type MatchDonorsRequest struct {
	EventType         []string      `json:"eventType"`
	Location          string        `json:"location,omitempty"`
	MinTotalDonations float64       `json:"minTotalDonations,omitempty"`
	TargetAttendees   int32         `json:"targetAttendees,omitempty"`
	EventFocus        string        `json:"eventFocus,omitempty"`
	Weights           *MatchWeights `json:"weights,omitempty"`
}

// MatchBreakdown is the per-dimension score, rounded to integers.
type MatchBreakdown struct {
	Interest   int64 `json:"interest"`
	Location   int64 `json:"location"`
	Donation   int64 `json:"donation"`
	Recency    int64 `json:"recency"`
	Engagement int64 `json:"engagement"`
	Capacity   int64 `json:"capacity"`
}

// DonorMatch is one ranked donor.
type DonorMatch struct {
	Donor        *Donor          `json:"donor"`
	Score        float64         `json:"score"`
	Breakdown    *MatchBreakdown `json:"breakdown"`
	MatchReasons []string        `json:"matchReasons"`
}

// MatchDonorsReply lists ranked donors and echoes the criteria.
type MatchDonorsReply struct {
	Matches      []*DonorMatch       `json:"matches"`
	Criteria     *MatchDonorsRequest `json:"criteria"`
	TotalMatches int32               `json:"totalMatches"`
}

// ListDonorsRequest pages through active donors. Limit is accepted as an
// alias of PageSize.
type ListDonorsRequest struct {
	Page     int32  `json:"page"`
	PageSize int32  `json:"pageSize"`
	Limit    int32  `json:"limit"`
	City     string `json:"city"`
	Search   string `json:"search"`
	Interest string `json:"interest"`
	Sort     string `json:"sort"`
}

// ListDonorsReply is one page of donors.
type ListDonorsReply struct {
	Donors     []*Donor `json:"donors"`
	Total      int64    `json:"total"`
	Page       int32    `json:"page"`
	PageSize   int32    `json:"pageSize"`
	Limit      int32    `json:"limit"`
	TotalPages int32    `json:"totalPages"`
}

// DonorFilterOptionsRequest is empty.
type DonorFilterOptionsRequest struct{}

// DonorFilterOptionsReply lists the cities and interests of active donors.
type DonorFilterOptionsReply struct {
	Cities    []string `json:"cities"`
	Interests []string `json:"interests"`
}

// GetDonorRequest addresses one donor.
type GetDonorRequest struct {
	Id int64 `json:"id"`
}

// UpdateDonorRequest replaces the donor at Id.
type UpdateDonorRequest struct {
	Id    int64  `json:"id"`
	Donor *Donor `json:"donor"`
}

// DeleteDonorRequest addresses one donor.
type DeleteDonorRequest struct {
	Id int64 `json:"id"`
}

// DonorStatsRequest is empty.
type DonorStatsRequest struct{}

// DonorStatsReply summarizes giving across active donors.
type DonorStatsReply struct {
	TotalDonors     int64   `json:"totalDonors"`
	TotalDonations  float64 `json:"totalDonations"`
	AverageDonation float64 `json:"averageDonation"`
	LargestDonation float64 `json:"largestDonation"`
}

// MessageReply acknowledges an operation without a body.
type MessageReply struct {
	Message string `json:"message"`
}
