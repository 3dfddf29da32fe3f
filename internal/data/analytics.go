package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// DonorTotals aggregates the active donor pool.
type DonorTotals struct {
	Donors         int64
	RecentDonors   int64
	EngagedDonors  int64
	TotalDonations float64
}

// CityTotal is the donor count and giving of one city.
type CityTotal struct {
	City           string
	Count          int64
	TotalDonations float64
}

// EventCounts counts all events and those still ahead.
type EventCounts struct {
	Total    int64
	Upcoming int64
}

// AnalyticsRepo runs the aggregate queries behind the dashboard summary.
type AnalyticsRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewAnalyticsRepo creates a new analytics repository.
func NewAnalyticsRepo(db *gorm.DB, logger log.Logger) *AnalyticsRepo {
	return &AnalyticsRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

func (r *AnalyticsRepo) activeDonors(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&Donor{}).Where("deceased = ? AND exclude = ?", false, false)
}

// DonorTotals counts active donors, those who gave on or after since, and
// those subscribed to any channel, and sums their lifetime giving.
func (r *AnalyticsRepo) DonorTotals(ctx context.Context, since time.Time) (*DonorTotals, error) {
	var row struct {
		Donors  int64
		Recent  *float64
		Engaged *float64
		Total   *float64
	}
	err := r.activeDonors(ctx).
		Select(
			"COUNT(*) AS donors, "+
				"SUM(CASE WHEN last_gift_date >= ? THEN 1 ELSE 0 END) AS recent, "+
				"SUM(CASE WHEN subscription_events_in_person = ? OR subscription_newsletter = ? THEN 1 ELSE 0 END) AS engaged, "+
				"SUM(total_donations) AS total",
			since.UTC(), true, true,
		).
		Scan(&row).Error
	if err != nil {
		r.logger.Errorw("msg", "failed to aggregate donor totals", "error", err, "type", "database")
		return nil, fmt.Errorf("failed to aggregate donor totals: %w", err)
	}

	totals := &DonorTotals{Donors: row.Donors}
	if row.Recent != nil {
		totals.RecentDonors = int64(*row.Recent)
	}
	if row.Engaged != nil {
		totals.EngagedDonors = int64(*row.Engaged)
	}
	if row.Total != nil {
		totals.TotalDonations = *row.Total
	}
	return totals, nil
}

// EventCounts counts every event and those dated at or after now.
func (r *AnalyticsRepo) EventCounts(ctx context.Context, now time.Time) (*EventCounts, error) {
	var row struct {
		Total    int64
		Upcoming *float64
	}
	err := r.db.WithContext(ctx).Model(&Event{}).
		Select("COUNT(*) AS total, SUM(CASE WHEN date >= ? THEN 1 ELSE 0 END) AS upcoming", now.UTC()).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	counts := &EventCounts{Total: row.Total}
	if row.Upcoming != nil {
		counts.Upcoming = int64(*row.Upcoming)
	}
	return counts, nil
}

// TopCities groups active donors by city, most donors first.
func (r *AnalyticsRepo) TopCities(ctx context.Context, limit int) ([]*CityTotal, error) {
	var rows []struct {
		City  string
		Count int64
		Total *float64
	}
	err := r.activeDonors(ctx).
		Select("city, COUNT(*) AS count, SUM(total_donations) AS total").
		Where("city IS NOT NULL AND city <> ''").
		Group("city").
		Order("count DESC, city ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group donors by city: %w", err)
	}

	out := make([]*CityTotal, 0, len(rows))
	for _, row := range rows {
		c := &CityTotal{City: row.City, Count: row.Count}
		if row.Total != nil {
			c.TotalDonations = *row.Total
		}
		out = append(out, c)
	}
	return out, nil
}

// TopDonors returns the active donors with the highest lifetime giving.
func (r *AnalyticsRepo) TopDonors(ctx context.Context, limit int) ([]*Donor, error) {
	var donors []*Donor
	if err := r.activeDonors(ctx).
		Order("total_donations DESC, id ASC").
		Limit(limit).
		Find(&donors).Error; err != nil {
		return nil, fmt.Errorf("failed to list top donors: %w", err)
	}
	return donors, nil
}
