package data

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDonorRepo(t *testing.T) (*DonorRepo, *miniredis.Miniredis) {
	t.Helper()
	d, mr := newTestData(t)
	repo, err := NewDonorRepo(d, newTestDB(t), log.DefaultLogger)
	require.NoError(t, err)
	return repo, mr
}

func TestDonorRepo_CRUD(t *testing.T) {
	repo, _ := newTestDonorRepo(t)
	ctx := context.Background()

	lastGift := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	donor := &Donor{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.org",
		City:           "Toronto",
		Interests:      StringList{"education", "science"},
		TotalDonations: 120000,
		LargestGift:    40000,
		LastGiftDate:   &lastGift,
	}
	require.NoError(t, repo.CreateDonor(ctx, donor))
	require.NotZero(t, donor.ID)

	got, err := repo.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName())
	assert.Equal(t, StringList{"education", "science"}, got.Interests)
	require.NotNil(t, got.LastGiftDate)
	assert.True(t, lastGift.Equal(*got.LastGiftDate))

	// Mutating a returned copy must not leak into the local cache.
	got.City = "Ottawa"
	again, err := repo.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toronto", again.City)

	got.Notes = "prefers email"
	require.NoError(t, repo.UpdateDonor(ctx, got))
	updated, err := repo.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ottawa", updated.City)
	assert.Equal(t, "prefers email", updated.Notes)

	require.NoError(t, repo.DeleteDonor(ctx, donor.ID))
	_, err = repo.GetDonor(ctx, donor.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteDonor(ctx, donor.ID), ErrNotFound)
}

func TestDonorRepo_ListDonors(t *testing.T) {
	repo, _ := newTestDonorRepo(t)
	ctx := context.Background()

	for _, d := range []*Donor{
		{FirstName: "Grace", LastName: "Hopper", City: "Toronto", Organization: "Navy"},
		{FirstName: "Alan", LastName: "Turing", City: "Ottawa"},
		{FirstName: "Katherine", LastName: "Johnson", City: "North toronto", Email: "kj@nasa.gov"},
		{FirstName: "Hidden", LastName: "Excluded", City: "Toronto", Exclude: true},
		{FirstName: "Late", LastName: "Deceased", City: "Toronto", Deceased: true},
	} {
		require.NoError(t, repo.CreateDonor(ctx, d))
	}

	donors, total, err := repo.ListDonors(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "excluded and deceased donors are not listed")
	assert.Len(t, donors, 3)

	donors, total, err = repo.ListDonors(ctx, &DonorFilter{City: "TORONTO"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, donors, 2)
	assert.Equal(t, "Hopper", donors[0].LastName)
	assert.Equal(t, "Johnson", donors[1].LastName)

	donors, total, err = repo.ListDonors(ctx, &DonorFilter{Search: "NASA"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Katherine", donors[0].FirstName)

	_, total, err = repo.ListDonors(ctx, &DonorFilter{Search: "navy"})
	require.NoError(t, err)
	assert.Zero(t, total, "organization is not searched")

	filter := &DonorFilter{Page: 2, PageSize: 2}
	donors, total, err = repo.ListDonors(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, donors, 1)
	assert.Equal(t, "Johnson", donors[0].LastName)

	filter = &DonorFilter{Page: -1, PageSize: 1000}
	_, _, err = repo.ListDonors(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 50, filter.PageSize)
}

func TestDonorRepo_ListDonors_InterestFilter(t *testing.T) {
	repo, _ := newTestDonorRepo(t)
	ctx := context.Background()

	for _, d := range []*Donor{
		{FirstName: "A", LastName: "Arts", Interests: StringList{"Arts", "education"}},
		{FirstName: "B", LastName: "Artsy", Interests: StringList{"artsy"}},
		{FirstName: "C", LastName: "Health", Interests: StringList{"health"}},
		{FirstName: "D", LastName: "None"},
	} {
		require.NoError(t, repo.CreateDonor(ctx, d))
	}

	tests := []struct {
		interest string
		want     []string
	}{
		{"arts", []string{"Arts"}},
		{"EDUCATION", []string{"Arts"}},
		{"health", []string{"Health"}},
		{"music", nil},
	}
	for _, tt := range tests {
		t.Run(tt.interest, func(t *testing.T) {
			donors, _, err := repo.ListDonors(ctx, &DonorFilter{Interest: tt.interest})
			require.NoError(t, err)
			var got []string
			for _, d := range donors {
				got = append(got, d.LastName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDonorRepo_ListDonors_Sort(t *testing.T) {
	repo, _ := newTestDonorRepo(t)
	ctx := context.Background()

	day := func(d int) *time.Time {
		v := time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	for _, d := range []*Donor{
		{FirstName: "ada", LastName: "byron", TotalDonations: 500, LastGiftAmount: 100, LastGiftDate: day(5)},
		{FirstName: "Zed", LastName: "Adams", TotalDonations: 9000, LastGiftAmount: 50},
		{FirstName: "Bea", LastName: "Adams", TotalDonations: 9000, LastGiftAmount: 100, LastGiftDate: day(20)},
		{FirstName: "Cy", LastName: "Cole", TotalDonations: 100, LastGiftAmount: 300, LastGiftDate: day(1)},
	} {
		require.NoError(t, repo.CreateDonor(ctx, d))
	}

	tests := []struct {
		sort DonorSort
		want []string
	}{
		{DonorSortTotalDonations, []string{"Bea", "Zed", "ada", "Cy"}},
		{"unknown", []string{"Bea", "Zed", "ada", "Cy"}},
		{DonorSortLastGiftDate, []string{"Bea", "ada", "Cy", "Zed"}},
		{DonorSortLastGiftAmount, []string{"Cy", "Bea", "ada", "Zed"}},
		{DonorSortAlphabetical, []string{"Bea", "Zed", "ada", "Cy"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			donors, _, err := repo.ListDonors(ctx, &DonorFilter{Sort: tt.sort})
			require.NoError(t, err)
			got := make([]string, 0, len(donors))
			for _, d := range donors {
				got = append(got, d.FirstName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDonorRepo_ListActiveDonors_UsesRedisPool(t *testing.T) {
	repo, mr := newTestDonorRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateDonor(ctx, &Donor{FirstName: "A", LastName: "Active"}))
	require.NoError(t, repo.CreateDonor(ctx, &Donor{FirstName: "E", LastName: "Excluded", Exclude: true}))
	require.NoError(t, repo.CreateDonor(ctx, &Donor{FirstName: "D", LastName: "Deceased", Deceased: true}))

	pool, err := repo.ListActiveDonors(ctx)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "Active", pool[0].LastName)

	_, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(activeDonorsKey), "pool should be cached after first read")
	assert.True(t, mr.Exists(donorStatsKey))

	// A write invalidates the pool and the stats.
	require.NoError(t, repo.CreateDonor(ctx, &Donor{FirstName: "B", LastName: "Active"}))
	assert.False(t, mr.Exists(activeDonorsKey))
	assert.False(t, mr.Exists(donorStatsKey))

	pool, err = repo.ListActiveDonors(ctx)
	require.NoError(t, err)
	assert.Len(t, pool, 2)

	active, err := repo.CountDonors(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)
	all, err := repo.CountDonors(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all)
}

func TestDonorRepo_Stats(t *testing.T) {
	repo, _ := newTestDonorRepo(t)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &DonorStats{}, stats)

	for _, d := range []*Donor{
		{FirstName: "A", LastName: "One", TotalDonations: 1000},
		{FirstName: "B", LastName: "Two", TotalDonations: 3000},
		{FirstName: "C", LastName: "Gone", TotalDonations: 99000, Deceased: true},
	} {
		require.NoError(t, repo.CreateDonor(ctx, d))
	}

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDonors)
	assert.InDelta(t, 4000, stats.TotalDonations, 0.001)
	assert.InDelta(t, 2000, stats.AverageDonation, 0.001)
	assert.InDelta(t, 3000, stats.LargestDonation, 0.001)
}

func TestDonorRepo_ListActiveDonors_WithoutRedis(t *testing.T) {
	d, cleanup, err := NewData(nil, log.DefaultLogger, nil, NewCacheClient(nil))
	require.NoError(t, err)
	defer cleanup()

	repo, err := NewDonorRepo(d, newTestDB(t), log.DefaultLogger)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.CreateDonor(ctx, &Donor{FirstName: "No", LastName: "Cache"}))
	pool, err := repo.ListActiveDonors(ctx)
	require.NoError(t, err)
	assert.Len(t, pool, 1)
}
