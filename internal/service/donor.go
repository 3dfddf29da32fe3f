package service

import (
	"context"
	"math"

	v1 "DonorLane/api/v1"
	"DonorLane/internal/biz"
	"DonorLane/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

var _ v1.DonorServiceHTTPServer = (*DonorService)(nil)

// DonorService implements the donor HTTP API.
type DonorService struct {
	uc     *biz.DonorUsecase
	logger *log.Helper
}

// NewDonorService creates a new DonorService instance.
func NewDonorService(uc *biz.DonorUsecase, logger log.Logger) *DonorService {
	return &DonorService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// MatchDonors ranks active donors against the requested criteria.
func (s *DonorService) MatchDonors(ctx context.Context, req *v1.MatchDonorsRequest) (*v1.MatchDonorsReply, error) {
	s.logger.Debugw("MatchDonors called", "event_type", req.EventType, "focus", req.EventFocus)

	criteria := biz.MatchCriteria{
		EventType:         req.EventType,
		Location:          req.Location,
		MinTotalDonations: req.MinTotalDonations,
		TargetAttendees:   int(req.TargetAttendees),
		EventFocus:        biz.EventFocus(req.EventFocus),
	}
	matches, err := s.uc.MatchDonors(ctx, criteria, toWeightOverrides(req.Weights))
	if err != nil {
		s.logger.Errorw("failed to match donors", "error", err)
		return nil, toHTTPError(err)
	}

	return &v1.MatchDonorsReply{
		Matches:      toDonorMatches(matches),
		Criteria:     req,
		TotalMatches: int32(len(matches)),
	}, nil
}

// ListDonors returns one page of donors.
func (s *DonorService) ListDonors(ctx context.Context, req *v1.ListDonorsRequest) (*v1.ListDonorsReply, error) {
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = req.Limit
	}
	filter := &data.DonorFilter{
		Page:     int(req.Page),
		PageSize: int(pageSize),
		City:     req.City,
		Search:   req.Search,
		Interest: req.Interest,
		Sort:     data.DonorSort(req.Sort),
	}
	donors, total, err := s.uc.ListDonors(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list donors", "error", err)
		return nil, toHTTPError(err)
	}

	reply := &v1.ListDonorsReply{
		Donors:     make([]*v1.Donor, 0, len(donors)),
		Total:      total,
		Page:       int32(filter.Page),
		PageSize:   int32(filter.PageSize),
		Limit:      int32(filter.PageSize),
		TotalPages: int32((total + int64(filter.PageSize) - 1) / int64(filter.PageSize)),
	}
	for _, d := range donors {
		reply.Donors = append(reply.Donors, toDonorReply(d))
	}
	return reply, nil
}

// DonorFilterOptions lists the cities and interests donors can be filtered by.
func (s *DonorService) DonorFilterOptions(ctx context.Context, _ *v1.DonorFilterOptionsRequest) (*v1.DonorFilterOptionsReply, error) {
	opts, err := s.uc.FilterOptions(ctx)
	if err != nil {
		s.logger.Errorw("failed to collect donor filter options", "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.DonorFilterOptionsReply{
		Cities:    opts.Cities,
		Interests: opts.Interests,
	}, nil
}

// DonorStats summarizes giving across active donors.
func (s *DonorService) DonorStats(ctx context.Context, _ *v1.DonorStatsRequest) (*v1.DonorStatsReply, error) {
	stats, err := s.uc.Stats(ctx)
	if err != nil {
		s.logger.Errorw("failed to compute donor stats", "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.DonorStatsReply{
		TotalDonors:     stats.TotalDonors,
		TotalDonations:  stats.TotalDonations,
		AverageDonation: stats.AverageDonation,
		LargestDonation: stats.LargestDonation,
	}, nil
}

// GetDonor retrieves a donor by ID.
func (s *DonorService) GetDonor(ctx context.Context, req *v1.GetDonorRequest) (*v1.Donor, error) {
	donor, err := s.uc.GetDonor(ctx, req.Id)
	if err != nil {
		s.logger.Errorw("failed to get donor", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return toDonorReply(donor), nil
}

// CreateDonor creates a donor.
func (s *DonorService) CreateDonor(ctx context.Context, req *v1.Donor) (*v1.Donor, error) {
	s.logger.Infow("CreateDonor called", "last_name", req.LastName)

	donor, err := s.uc.CreateDonor(ctx, fromDonorRequest(req))
	if err != nil {
		s.logger.Errorw("failed to create donor", "error", err)
		return nil, toHTTPError(err)
	}
	return toDonorReply(donor), nil
}

// UpdateDonor replaces a donor.
func (s *DonorService) UpdateDonor(ctx context.Context, req *v1.UpdateDonorRequest) (*v1.Donor, error) {
	s.logger.Infow("UpdateDonor called", "id", req.Id)

	donor, err := s.uc.UpdateDonor(ctx, req.Id, fromDonorRequest(req.Donor))
	if err != nil {
		s.logger.Errorw("failed to update donor", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return toDonorReply(donor), nil
}

// DeleteDonor removes a donor.
func (s *DonorService) DeleteDonor(ctx context.Context, req *v1.DeleteDonorRequest) (*v1.MessageReply, error) {
	s.logger.Infow("DeleteDonor called", "id", req.Id)

	if err := s.uc.DeleteDonor(ctx, req.Id); err != nil {
		s.logger.Errorw("failed to delete donor", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return &v1.MessageReply{Message: "Donor deleted successfully"}, nil
}

func toWeightOverrides(w *v1.MatchWeights) *biz.WeightOverrides {
	if w == nil {
		return nil
	}
	return &biz.WeightOverrides{
		InterestMatch:     w.InterestMatch,
		LocationMatch:     w.LocationMatch,
		DonationHistory:   w.DonationHistory,
		RecencyScore:      w.RecencyScore,
		EngagementScore:   w.EngagementScore,
		CapacityIndicator: w.CapacityIndicator,
	}
}

// toDonorMatches rounds the composite score to two decimals and each
// sub-score to an integer.
func toDonorMatches(matches []biz.ScoredDonor) []*v1.DonorMatch {
	out := make([]*v1.DonorMatch, 0, len(matches))
	for _, m := range matches {
		b := m.Breakdown
		out = append(out, &v1.DonorMatch{
			Donor: toDonorReply(m.Donor),
			Score: math.Round(m.Score*100) / 100,
			Breakdown: &v1.MatchBreakdown{
				Interest:   int64(math.Round(b.InterestMatch)),
				Location:   int64(math.Round(b.LocationMatch)),
				Donation:   int64(math.Round(b.DonationHistory)),
				Recency:    int64(math.Round(b.RecencyScore)),
				Engagement: int64(math.Round(b.EngagementScore)),
				Capacity:   int64(math.Round(b.CapacityIndicator)),
			},
			MatchReasons: append([]string{}, m.MatchReasons...),
		})
	}
	return out
}

func toDonorReply(d *data.Donor) *v1.Donor {
	if d == nil {
		return nil
	}
	return &v1.Donor{
		Id:                         d.ID,
		FirstName:                  d.FirstName,
		LastName:                   d.LastName,
		Email:                      d.Email,
		Phone:                      d.Phone,
		Organization:               d.Organization,
		AddressLine1:               d.AddressLine1,
		AddressLine2:               d.AddressLine2,
		City:                       d.City,
		Province:                   d.Province,
		PostalCode:                 d.PostalCode,
		Interests:                  append([]string{}, d.Interests...),
		TotalDonations:             d.TotalDonations,
		LargestGift:                d.LargestGift,
		FirstGiftDate:              d.FirstGiftDate,
		LastGiftDate:               d.LastGiftDate,
		LastGiftAmount:             d.LastGiftAmount,
		SubscriptionEventsInPerson: d.SubscriptionEventsInPerson,
		SubscriptionNewsletter:     d.SubscriptionNewsletter,
		Exclude:                    d.Exclude,
		Deceased:                   d.Deceased,
		Notes:                      d.Notes,
		CreatedAt:                  timePtr(d.CreatedAt),
		UpdatedAt:                  timePtr(d.UpdatedAt),
	}
}

func fromDonorRequest(d *v1.Donor) *data.Donor {
	if d == nil {
		return nil
	}
	return &data.Donor{
		FirstName:                  d.FirstName,
		LastName:                   d.LastName,
		Email:                      d.Email,
		Phone:                      d.Phone,
		Organization:               d.Organization,
		AddressLine1:               d.AddressLine1,
		AddressLine2:               d.AddressLine2,
		City:                       d.City,
		Province:                   d.Province,
		PostalCode:                 d.PostalCode,
		Interests:                  data.StringList(append([]string{}, d.Interests...)),
		TotalDonations:             d.TotalDonations,
		LargestGift:                d.LargestGift,
		FirstGiftDate:              d.FirstGiftDate,
		LastGiftDate:               d.LastGiftDate,
		LastGiftAmount:             d.LastGiftAmount,
		SubscriptionEventsInPerson: d.SubscriptionEventsInPerson,
		SubscriptionNewsletter:     d.SubscriptionNewsletter,
		Exclude:                    d.Exclude,
		Deceased:                   d.Deceased,
		Notes:                      d.Notes,
	}
}
