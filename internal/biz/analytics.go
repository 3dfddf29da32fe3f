package biz

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
)

const (
	analyticsTopLimit   = 10
	analyticsTrendMonth = 12
	// trendSmoothing is the month-over-month rise of the synthetic trend used
	// when no recent gifts fall inside the window.
	trendSmoothing = 0.08
)

// AnalyticsRepo defines the aggregate queries behind the dashboard.
type AnalyticsRepo interface {
	DonorTotals(ctx context.Context, since time.Time) (*data.DonorTotals, error)
	EventCounts(ctx context.Context, now time.Time) (*data.EventCounts, error)
	TopCities(ctx context.Context, limit int) ([]*data.CityTotal, error)
	TopDonors(ctx context.Context, limit int) ([]*data.Donor, error)
}

// DonorSegment groups active donors by lifetime giving.
type DonorSegment struct {
	Segment         string
	Label           string
	Description     string
	Count           int
	TotalDonations  float64
	AverageDonation float64
}

// InterestCount is how many active donors list an interest.
type InterestCount struct {
	Interest string
	Count    int
}

// TrendPoint is the giving of one calendar month.
type TrendPoint struct {
	Key        string
	Label      string
	Total      float64
	Cumulative float64
}

// EngagementBreakdown splits active donors by subscription channel.
type EngagementBreakdown struct {
	NewsletterSubscribers  int
	EventSubscribers       int
	OmnichannelSubscribers int
	Unengaged              int
}

// AnalyticsSummary is the dashboard overview.
type AnalyticsSummary struct {
	TotalDonors         int64
	ActiveDonors        int64
	TotalDonations      float64
	AverageDonation     float64
	TotalEvents         int64
	UpcomingEvents      int64
	DonorSegments       []DonorSegment
	TopCities           []*data.CityTotal
	TopInterests        []InterestCount
	EngagementRate      float64
	TopDonors           []*data.Donor
	DonationTrend       []TrendPoint
	EngagementBreakdown EngagementBreakdown
}

type segmentRule struct {
	key         string
	label       string
	description string
	min         float64
	max         float64 // 0 means unbounded
}

// segmentRules are checked in order; a donor joins the first segment whose
// bounds contain their total, and the last segment otherwise.
var segmentRules = []segmentRule{
	{"philanthropist", "Philanthropists", "Lifetime giving exceeding $75K with sustained stewardship potential.", 75000, 0},
	{"major", "Major Donors", "Consistent leadership donors contributing $25K - $75K.", 25000, 74999},
	{"growth", "Growth Segment", "Emerging donors steadily building momentum ($5K - $25K).", 5000, 24999},
	{"emerging", "Emerging Contributors", "New supporters and recurring donors under $5K.", 0, 4999},
}

// AnalyticsUsecase builds the dashboard summary.
type AnalyticsUsecase struct {
	repo   AnalyticsRepo
	donors DonorRepo
	logger *pkglog.LogHelper
	now    func() time.Time
}

// NewAnalyticsUsecase creates a new analytics usecase.
func NewAnalyticsUsecase(repo AnalyticsRepo, donors DonorRepo, logger log.Logger) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		repo:   repo,
		donors: donors,
		logger: pkglog.NewLogHelper(logger),
		now:    time.Now,
	}
}

// Summary gathers the aggregates concurrently and derives segments,
// interests, trend and engagement from the active donor pool.
func (uc *AnalyticsUsecase) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	now := uc.now()
	var (
		totals *data.DonorTotals
		events *data.EventCounts
		cities []*data.CityTotal
		top    []*data.Donor
		pool   []*data.Donor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = uc.repo.DonorTotals(gctx, now.AddDate(-1, 0, 0))
		return err
	})
	g.Go(func() (err error) {
		events, err = uc.repo.EventCounts(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		cities, err = uc.repo.TopCities(gctx, analyticsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		top, err = uc.repo.TopDonors(gctx, analyticsTopLimit)
		return err
	})
	g.Go(func() (err error) {
		pool, err = uc.donors.ListActiveDonors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build analytics summary: %w", err)
	}

	summary := &AnalyticsSummary{
		TotalDonors:    totals.Donors,
		ActiveDonors:   totals.RecentDonors,
		TotalDonations: totals.TotalDonations,
		TotalEvents:    events.Total,
		UpcomingEvents: events.Upcoming,
		DonorSegments:  donorSegments(pool),
		TopCities:      cities,
		TopInterests:   topInterests(pool, analyticsTopLimit),
		TopDonors:      top,
	}
	if totals.Donors > 0 {
		summary.AverageDonation = totals.TotalDonations / float64(totals.Donors)
		summary.EngagementRate = float64(totals.EngagedDonors) / float64(totals.Donors) * 100
	}
	summary.DonationTrend = donationTrend(pool, totals.TotalDonations, now, analyticsTrendMonth)
	summary.EngagementBreakdown = engagementBreakdown(pool, totals.Donors, summary.EngagementRate)

	uc.logger.Donor("analytics summary built", "donors", totals.Donors, "events", events.Total)
	return summary, nil
}

// donorSegments buckets donors by segmentRules, largest total first.
func donorSegments(pool []*data.Donor) []DonorSegment {
	segments := make([]DonorSegment, len(segmentRules))
	for i, rule := range segmentRules {
		segments[i] = DonorSegment{Segment: rule.key, Label: rule.label, Description: rule.description}
	}

	last := len(segmentRules) - 1
	for _, d := range pool {
		idx := last
		for i, rule := range segmentRules[:last] {
			if d.TotalDonations >= rule.min && (rule.max == 0 || d.TotalDonations <= rule.max) {
				idx = i
				break
			}
		}
		segments[idx].Count++
		segments[idx].TotalDonations += d.TotalDonations
	}

	for i := range segments {
		if segments[i].Count > 0 {
			segments[i].AverageDonation = segments[i].TotalDonations / float64(segments[i].Count)
		}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].TotalDonations > segments[j].TotalDonations
	})
	return segments
}

// topInterests counts interests as written. Ties keep first-seen order.
func topInterests(pool []*data.Donor, limit int) []InterestCount {
	counts := make([]InterestCount, 0)
	index := make(map[string]int)
	for _, d := range pool {
		for _, interest := range d.Interests {
			i, ok := index[interest]
			if !ok {
				i = len(counts)
				index[interest] = i
				counts = append(counts, InterestCount{Interest: interest})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// donationTrend sums last gifts per calendar month for the months ending at
// now. When no month in the window has giving but donors have given, a
// gently rising baseline spread from the lifetime total is returned instead.
func donationTrend(pool []*data.Donor, totalDonations float64, now time.Time, months int) []TrendPoint {
	byMonth := make(map[string]float64)
	for _, d := range pool {
		if d.LastGiftDate == nil {
			continue
		}
		byMonth[monthKey(d.LastGiftDate.In(now.Location()))] += d.LastGiftAmount
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	points := make([]TrendPoint, 0, months)
	cumulative := 0.0
	hasGiving := false
	for i := months - 1; i >= 0; i-- {
		month := start.AddDate(0, -i, 0)
		key := monthKey(month)
		total := byMonth[key]
		if total > 0 {
			hasGiving = true
		}
		cumulative += total
		points = append(points, TrendPoint{Key: key, Label: month.Format("Jan"), Total: total, Cumulative: cumulative})
	}

	if hasGiving || totalDonations <= 0 || months == 0 {
		return points
	}

	average := totalDonations / float64(months)
	cumulative = 0
	for i := range points {
		total := math.Max(0, average*(1+trendSmoothing*float64(i)))
		cumulative += total
		points[i].Total = total
		points[i].Cumulative = cumulative
	}
	return points
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// engagementBreakdown splits donors by channel. When the pool shows no
// subscribers but the aggregate rate says otherwise, the split is estimated
// from the rate.
func engagementBreakdown(pool []*data.Donor, totalDonors int64, engagementRate float64) EngagementBreakdown {
	var b EngagementBreakdown
	for _, d := range pool {
		switch {
		case d.SubscriptionNewsletter && d.SubscriptionEventsInPerson:
			b.OmnichannelSubscribers++
		case d.SubscriptionNewsletter:
			b.NewsletterSubscribers++
		case d.SubscriptionEventsInPerson:
			b.EventSubscribers++
		default:
			b.Unengaged++
		}
	}

	if totalDonors == 0 || engagementRate <= 0 ||
		b.NewsletterSubscribers+b.EventSubscribers+b.OmnichannelSubscribers > 0 {
		return b
	}

	engaged := int(math.Round(engagementRate / 100 * float64(totalDonors)))
	omni := int(math.Round(float64(engaged) * 0.35))
	events := int(math.Round(float64(engaged) * 0.25))
	return EngagementBreakdown{
		NewsletterSubscribers:  max(engaged-omni-events, 0),
		EventSubscribers:       events,
		OmnichannelSubscribers: omni,
		Unengaged:              max(int(totalDonors)-engaged, 0),
	}
}
