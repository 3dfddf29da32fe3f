package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"DonorLane/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAnalyticsRepo returns fixed aggregates; err fails every call.
type stubAnalyticsRepo struct {
	totals data.DonorTotals
	events data.EventCounts
	err    error
	since  time.Time
}

func (s *stubAnalyticsRepo) DonorTotals(_ context.Context, since time.Time) (*data.DonorTotals, error) {
	s.since = since
	if s.err != nil {
		return nil, s.err
	}
	totals := s.totals
	return &totals, nil
}

func (s *stubAnalyticsRepo) EventCounts(context.Context, time.Time) (*data.EventCounts, error) {
	if s.err != nil {
		return nil, s.err
	}
	events := s.events
	return &events, nil
}

func (s *stubAnalyticsRepo) TopCities(context.Context, int) ([]*data.CityTotal, error) {
	return []*data.CityTotal{{City: "Vancouver", Count: 2, TotalDonations: 130000}}, s.err
}

func (s *stubAnalyticsRepo) TopDonors(context.Context, int) ([]*data.Donor, error) {
	return []*data.Donor{{ID: 1, FirstName: "Ada"}}, s.err
}

func TestAnalyticsUsecase_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []*data.Donor{
		{FirstName: "Ada", LastName: "L", City: "Vancouver", TotalDonations: 100000, Interests: data.StringList{"arts", "health"},
			LastGiftDate: &march, LastGiftAmount: 2000, SubscriptionNewsletter: true, SubscriptionEventsInPerson: true},
		{FirstName: "Grace", LastName: "H", City: "Vancouver", TotalDonations: 30000, Interests: data.StringList{"health"},
			LastGiftDate: &june, LastGiftAmount: 500, SubscriptionNewsletter: true},
		{FirstName: "Alan", LastName: "T", TotalDonations: 6000, Interests: data.StringList{"science"}},
		{FirstName: "Gone", LastName: "D", TotalDonations: 900000, Interests: data.StringList{"arts"}, Deceased: true},
	} {
		require.NoError(t, env.donorRepo.CreateDonor(ctx, d))
	}

	repo := &stubAnalyticsRepo{
		totals: data.DonorTotals{Donors: 3, RecentDonors: 2, EngagedDonors: 2, TotalDonations: 136000},
		events: data.EventCounts{Total: 4, Upcoming: 1},
	}
	uc := NewAnalyticsUsecase(repo, env.donorRepo, log.DefaultLogger)
	uc.now = func() time.Time { return now }

	sum, err := uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(-1, 0, 0), repo.since)

	assert.Equal(t, int64(3), sum.TotalDonors)
	assert.Equal(t, int64(2), sum.ActiveDonors)
	assert.InDelta(t, 45333.33, sum.AverageDonation, 0.01)
	assert.InDelta(t, 66.67, sum.EngagementRate, 0.01)
	assert.Equal(t, int64(4), sum.TotalEvents)
	assert.Equal(t, int64(1), sum.UpcomingEvents)
	assert.Len(t, sum.TopCities, 1)
	assert.Len(t, sum.TopDonors, 1)

	segments := map[string]DonorSegment{}
	for _, s := range sum.DonorSegments {
		segments[s.Segment] = s
	}
	require.Len(t, segments, 4)
	assert.Equal(t, "philanthropist", sum.DonorSegments[0].Segment)
	assert.Equal(t, 1, segments["philanthropist"].Count)
	assert.Equal(t, 1, segments["major"].Count)
	assert.Equal(t, 1, segments["growth"].Count)
	assert.Zero(t, segments["emerging"].Count)
	assert.Equal(t, 30000.0, segments["major"].AverageDonation)

	assert.Equal(t, []InterestCount{{"health", 2}, {"arts", 1}, {"science", 1}}, sum.TopInterests,
		"deceased donors are not counted")

	require.Len(t, sum.DonationTrend, 12)
	assert.Equal(t, "2025-7", sum.DonationTrend[0].Key)
	assert.Equal(t, "Jul", sum.DonationTrend[0].Label)
	last := sum.DonationTrend[11]
	assert.Equal(t, TrendPoint{Key: "2026-6", Label: "Jun", Total: 500, Cumulative: 2500}, last)
	assert.Equal(t, 2000.0, sum.DonationTrend[8].Total)

	assert.Equal(t, EngagementBreakdown{OmnichannelSubscribers: 1, NewsletterSubscribers: 1, Unengaged: 1}, sum.EngagementBreakdown)
}

func TestAnalyticsUsecase_SummaryFailsWhenAnyQueryFails(t *testing.T) {
	env := newTestEnv(t)
	repo := &stubAnalyticsRepo{err: errors.New("db down")}
	uc := NewAnalyticsUsecase(repo, env.donorRepo, log.DefaultLogger)

	_, err := uc.Summary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.err)
}

func TestDonorSegments_Bounds(t *testing.T) {
	pool := []*data.Donor{
		{TotalDonations: 75000},
		{TotalDonations: 74999.5},
		{TotalDonations: 25000},
		{TotalDonations: 4999},
		{TotalDonations: 0},
	}
	counts := map[string]int{}
	for _, s := range donorSegments(pool) {
		counts[s.Segment] = s.Count
	}
	// 74999.5 falls between the major and philanthropist bounds.
	assert.Equal(t, map[string]int{"philanthropist": 1, "major": 1, "growth": 0, "emerging": 3}, counts)
}

func TestDonationTrend_FallsBackWithoutRecentGifts(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	old := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	pool := []*data.Donor{{LastGiftDate: &old, LastGiftAmount: 100}}

	points := donationTrend(pool, 12000, now, 12)
	require.Len(t, points, 12)
	assert.Equal(t, "2025-2", points[0].Key)
	assert.Equal(t, "2026-1", points[11].Key)
	assert.InDelta(t, 1000, points[0].Total, 1e-9)
	assert.InDelta(t, 1000*(1+0.08*11), points[11].Total, 1e-9)
	assert.InDelta(t, points[10].Cumulative+points[11].Total, points[11].Cumulative, 1e-9)

	for _, p := range donationTrend(pool, 0, now, 12) {
		assert.Zero(t, p.Total)
	}
}

func TestEngagementBreakdown_EstimatesFromRate(t *testing.T) {
	pool := []*data.Donor{{}, {}}
	b := engagementBreakdown(pool, 20, 50)
	assert.Equal(t, EngagementBreakdown{
		OmnichannelSubscribers: 4,
		EventSubscribers:       3,
		NewsletterSubscribers:  3,
		Unengaged:              10,
	}, b)

	assert.Equal(t, EngagementBreakdown{Unengaged: 2}, engagementBreakdown(pool, 2, 0))
}
