package v1

// AnalyticsSummaryRequest carries no parameters.
type AnalyticsSummaryRequest struct{}

type DonorSegment struct {
	Segment         string  `json:"segment"`
	Label           string  `json:"label"`
	Description     string  `json:"description"`
	Count           int32   `json:"count"`
	TotalDonations  float64 `json:"totalDonations"`
	AverageDonation float64 `json:"averageDonation"`
}

type CityTotal struct {
	City           string  `json:"city"`
	Count          int64   `json:"count"`
	TotalDonations float64 `json:"totalDonations"`
}

type InterestCount struct {
	Interest string `json:"interest"`
	Count    int32  `json:"count"`
}

// TopDonor is the dashboard projection of a donor.
type TopDonor struct {
	Id             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	TotalDonations float64 `json:"totalDonations"`
	LargestGift    float64 `json:"largestGift"`
	City           string  `json:"city,omitempty"`
	Province       string  `json:"province,omitempty"`
}

// TrendPoint is keyed YYYY-M, e.g. 2026-3.
type TrendPoint struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Total      float64 `json:"total"`
	Cumulative float64 `json:"cumulative"`
}

type EngagementBreakdown struct {
	NewsletterSubscribers  int32 `json:"newsletterSubscribers"`
	EventSubscribers       int32 `json:"eventSubscribers"`
	OmnichannelSubscribers int32 `json:"omnichannelSubscribers"`
	Unengaged              int32 `json:"unengaged"`
}

type AnalyticsSummaryReply struct {
	TotalDonors         int64                `json:"totalDonors"`
	ActiveDonors        int64                `json:"activeDonors"`
	TotalDonations      float64              `json:"totalDonations"`
	AverageDonation     float64              `json:"averageDonation"`
	TotalEvents         int64                `json:"totalEvents"`
	UpcomingEvents      int64                `json:"upcomingEvents"`
	DonorSegments       []*DonorSegment      `json:"donorSegments"`
	TopCities           []*CityTotal         `json:"topCities"`
	TopInterests        []*InterestCount     `json:"topInterests"`
	EngagementRate      float64              `json:"engagementRate"`
	TopDonors           []*TopDonor          `json:"topDonors"`
	DonationTrend       []*TrendPoint        `json:"donationTrend"`
	EngagementBreakdown *EngagementBreakdown `json:"engagementBreakdown"`
}
