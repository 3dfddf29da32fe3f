package data

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAnalytics(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()
	recent := now.AddDate(0, -1, 0)
	old := now.AddDate(-2, 0, 0)
	donors := []*Donor{
		{FirstName: "Ada", LastName: "Lovelace", City: "Toronto", TotalDonations: 90000, LastGiftDate: &recent, SubscriptionNewsletter: true},
		{FirstName: "Grace", LastName: "Hopper", City: "Toronto", TotalDonations: 30000, LastGiftDate: &old, SubscriptionEventsInPerson: true},
		{FirstName: "Alan", LastName: "Turing", City: "Ottawa", TotalDonations: 30000},
		{FirstName: "Nameless", LastName: "Donor", TotalDonations: 100},
		{FirstName: "Gone", LastName: "Donor", City: "Ottawa", TotalDonations: 500000, LastGiftDate: &recent, Deceased: true},
		{FirstName: "Opted", LastName: "Out", City: "Toronto", TotalDonations: 400000, Exclude: true, SubscriptionNewsletter: true},
	}
	for _, d := range donors {
		require.NoError(t, db.Create(d).Error)
	}
	events := []*Event{
		{Name: "Past", Date: now.AddDate(0, -3, 0), Status: EventStatusCompleted},
		{Name: "Next", Date: now.AddDate(0, 1, 0), Status: EventStatusPlanned},
		{Name: "Later", Date: now.AddDate(0, 6, 0), Status: EventStatusPlanned},
	}
	for _, e := range events {
		require.NoError(t, db.Create(e).Error)
	}
}

func TestAnalyticsRepo_Aggregates(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	seedAnalytics(t, db, now)
	repo := NewAnalyticsRepo(db, log.DefaultLogger)
	ctx := context.Background()

	totals, err := repo.DonorTotals(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, &DonorTotals{Donors: 4, RecentDonors: 1, EngagedDonors: 2, TotalDonations: 150100}, totals)

	counts, err := repo.EventCounts(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, &EventCounts{Total: 3, Upcoming: 2}, counts)

	cities, err := repo.TopCities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cities, 2, "blank cities are not grouped")
	assert.Equal(t, CityTotal{City: "Toronto", Count: 2, TotalDonations: 120000}, *cities[0])
	assert.Equal(t, CityTotal{City: "Ottawa", Count: 1, TotalDonations: 30000}, *cities[1])

	cities, err = repo.TopCities(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cities, 1)

	top, err := repo.TopDonors(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Ada", top[0].FirstName)
	assert.Equal(t, "Grace", top[1].FirstName, "ties keep insertion order")
	assert.Equal(t, "Alan", top[2].FirstName)
}

func TestAnalyticsRepo_EmptyTables(t *testing.T) {
	repo := NewAnalyticsRepo(newTestDB(t), log.DefaultLogger)
	ctx := context.Background()

	totals, err := repo.DonorTotals(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, &DonorTotals{}, totals)

	counts, err := repo.EventCounts(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, &EventCounts{}, counts)

	cities, err := repo.TopCities(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, cities)
}
