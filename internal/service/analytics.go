package service

import (
	"context"
	"math"

	v1 "DonorLane/api/v1"
	"DonorLane/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

var _ v1.AnalyticsServiceHTTPServer = (*AnalyticsService)(nil)

// AnalyticsService implements the dashboard HTTP API.
type AnalyticsService struct {
	uc     *biz.AnalyticsUsecase
	logger *log.Helper
}

// NewAnalyticsService creates a new AnalyticsService instance.
func NewAnalyticsService(uc *biz.AnalyticsUsecase, logger log.Logger) *AnalyticsService {
	return &AnalyticsService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// AnalyticsSummary returns the dashboard overview. Money and rates carry two
// decimals.
func (s *AnalyticsService) AnalyticsSummary(ctx context.Context, _ *v1.AnalyticsSummaryRequest) (*v1.AnalyticsSummaryReply, error) {
	sum, err := s.uc.Summary(ctx)
	if err != nil {
		s.logger.Errorw("failed to build analytics summary", "error", err)
		return nil, toHTTPError(err)
	}

	reply := &v1.AnalyticsSummaryReply{
		TotalDonors:     sum.TotalDonors,
		ActiveDonors:    sum.ActiveDonors,
		TotalDonations:  round2(sum.TotalDonations),
		AverageDonation: round2(sum.AverageDonation),
		TotalEvents:     sum.TotalEvents,
		UpcomingEvents:  sum.UpcomingEvents,
		EngagementRate:  round2(sum.EngagementRate),
		DonorSegments:   make([]*v1.DonorSegment, 0, len(sum.DonorSegments)),
		TopCities:       make([]*v1.CityTotal, 0, len(sum.TopCities)),
		TopInterests:    make([]*v1.InterestCount, 0, len(sum.TopInterests)),
		TopDonors:       make([]*v1.TopDonor, 0, len(sum.TopDonors)),
		DonationTrend:   make([]*v1.TrendPoint, 0, len(sum.DonationTrend)),
		EngagementBreakdown: &v1.EngagementBreakdown{
			NewsletterSubscribers:  int32(sum.EngagementBreakdown.NewsletterSubscribers),
			EventSubscribers:       int32(sum.EngagementBreakdown.EventSubscribers),
			OmnichannelSubscribers: int32(sum.EngagementBreakdown.OmnichannelSubscribers),
			Unengaged:              int32(sum.EngagementBreakdown.Unengaged),
		},
	}
	for _, seg := range sum.DonorSegments {
		reply.DonorSegments = append(reply.DonorSegments, &v1.DonorSegment{
			Segment:         seg.Segment,
			Label:           seg.Label,
			Description:     seg.Description,
			Count:           int32(seg.Count),
			TotalDonations:  round2(seg.TotalDonations),
			AverageDonation: round2(seg.AverageDonation),
		})
	}
	for _, c := range sum.TopCities {
		reply.TopCities = append(reply.TopCities, &v1.CityTotal{
			City:           c.City,
			Count:          c.Count,
			TotalDonations: round2(c.TotalDonations),
		})
	}
	for _, i := range sum.TopInterests {
		reply.TopInterests = append(reply.TopInterests, &v1.InterestCount{Interest: i.Interest, Count: int32(i.Count)})
	}
	for _, d := range sum.TopDonors {
		reply.TopDonors = append(reply.TopDonors, &v1.TopDonor{
			Id:             d.ID,
			FirstName:      d.FirstName,
			LastName:       d.LastName,
			TotalDonations: d.TotalDonations,
			LargestGift:    d.LargestGift,
			City:           d.City,
			Province:       d.Province,
		})
	}
	for _, p := range sum.DonationTrend {
		reply.DonationTrend = append(reply.DonationTrend, &v1.TrendPoint{
			Key:        p.Key,
			Label:      p.Label,
			Total:      round2(p.Total),
			Cumulative: round2(p.Cumulative),
		})
	}
	return reply, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
