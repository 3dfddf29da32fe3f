package biz

import (
	"context"
	"encoding/json"
	"testing"

	"DonorLane/internal/conf"
	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv wires the usecases against in-memory SQLite repositories and a
// recording audit sink.
type testEnv struct {
	donors     *DonorUsecase
	events     *EventUsecase
	baseline   *BaselineTask
	audit      *AuditTrailUsecase
	sink       *recordingSink
	metrics    *MatchMetrics
	donorRepo  *data.DonorRepo
	eventRepo  *data.EventRepo
	inviteRepo *data.EventDonorRepo
	auditRepo  *data.AuditLogRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := log.DefaultLogger

	db, cleanup, err := data.NewDB(&conf.Data{
		Database: &conf.Data_Database{Driver: "sqlite", Source: ":memory:", AutoMigrate: true},
	}, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	d, dataCleanup, err := data.NewData(nil, logger, nil, data.NewCacheClient(nil))
	require.NoError(t, err)
	t.Cleanup(dataCleanup)

	donorRepo, err := data.NewDonorRepo(d, db, logger)
	require.NoError(t, err)
	eventRepo := data.NewEventRepo(db, logger)
	inviteRepo := data.NewEventDonorRepo(db, logger)
	auditRepo := data.NewAuditLogRepo(db, logger)

	sink := &recordingSink{}
	audit := NewAuditTrailUsecase(auditRepo, sink, NewDefaultAuditCodec(), logger)
	metrics := NewMatchMetrics(prometheus.NewRegistry())
	engine := newTestEngine()
	donors := NewDonorUsecase(donorRepo, engine, audit, metrics, logger)
	events := NewEventUsecase(eventRepo, inviteRepo, donors, audit, logger)

	return &testEnv{
		donors:     donors,
		events:     events,
		baseline:   NewBaselineTask(audit, eventRepo, donorRepo, logger),
		audit:      audit,
		sink:       sink,
		metrics:    metrics,
		donorRepo:  donorRepo,
		eventRepo:  eventRepo,
		inviteRepo: inviteRepo,
		auditRepo:  auditRepo,
	}
}

func decodeChanges(t *testing.T, entry *data.AuditLog) map[string]interface{} {
	t.Helper()
	require.NotNil(t, entry.Changes)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(*entry.Changes), &out))
	return out
}

func TestDonorUsecase_CRUDIsAudited(t *testing.T) {
	env := newTestEnv(t)
	actor := int64(9)
	ctx := pkglog.WithRequestContext(context.Background(), "req", &actor, "10.1.2.3")

	created, err := env.donors.CreateDonor(ctx, &data.Donor{
		FirstName: " Grace ",
		LastName:  "Hopper",
		Email:     "grace@example.org",
		City:      "Toronto",
		Interests: data.StringList{"science"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", created.FirstName)

	updated, err := env.donors.UpdateDonor(ctx, created.ID, &data.Donor{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.org",
		City:      "Ottawa",
		Interests: data.StringList{"science"},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := env.donors.GetDonor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ottawa", got.City)

	require.NoError(t, env.donors.DeleteDonor(ctx, created.ID))
	_, err = env.donors.GetDonor(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries := env.sink.all()
	require.Len(t, entries, 3)
	assert.Equal(t, data.AuditActionCreate, entries[0].Action)
	assert.Equal(t, data.AuditActionUpdate, entries[1].Action)
	assert.Equal(t, data.AuditActionDelete, entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, EntityDonor, e.EntityType)
		assert.Equal(t, created.ID, *e.EntityID)
		assert.Equal(t, actor, *e.UserID)
		assert.Equal(t, "10.1.2.3", *e.IPAddress)
	}

	diff := decodeChanges(t, entries[1])["diff"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"city": map[string]interface{}{"before": "Toronto", "after": "Ottawa"},
	}, diff)

	deleted := decodeChanges(t, entries[2])
	assert.Contains(t, deleted, "before")
	assert.NotContains(t, deleted, "after")
}

func TestDonorUsecase_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.donors.CreateDonor(ctx, &data.Donor{FirstName: "Only"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.donors.CreateDonor(ctx, &data.Donor{FirstName: "A", LastName: "B", TotalDonations: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.donors.CreateDonor(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.donors.UpdateDonor(ctx, 404, &data.Donor{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, env.donors.DeleteDonor(ctx, 404), ErrNotFound)
	assert.Empty(t, env.sink.all())
}

func TestDonorUsecase_MatchDonors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, d := range []*data.Donor{
		{FirstName: "Arts", LastName: "Patron", City: "Toronto", Interests: data.StringList{"arts"}, TotalDonations: 20000},
		{FirstName: "Sports", LastName: "Fan", City: "Ottawa", Interests: data.StringList{"sports"}, TotalDonations: 50000},
		{FirstName: "Excluded", LastName: "Donor", City: "Toronto", Interests: data.StringList{"arts"}, Exclude: true},
	} {
		require.NoError(t, env.donorRepo.CreateDonor(ctx, d))
	}

	_, err := env.donors.MatchDonors(ctx, MatchCriteria{}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.donors.MatchDonors(ctx, MatchCriteria{EventType: []string{"arts"}, TargetAttendees: -1}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	matches, err := env.donors.MatchDonors(ctx, MatchCriteria{
		EventType:  []string{"arts"},
		Location:   "Toronto",
		EventFocus: FocusAttendees,
	}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2, "excluded donors never enter the pool")
	assert.Equal(t, "Patron", matches[0].Donor.LastName)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.requests.WithLabelValues("attendees")))

	_, err = env.donors.MatchDonors(ctx, MatchCriteria{EventType: []string{"arts"}, EventFocus: "bogus"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.requests.WithLabelValues("fundraising")))
}

func TestDonorUsecase_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.donorRepo.CreateDonor(ctx, &data.Donor{FirstName: "A", LastName: "A", TotalDonations: 100}))
	stats, err := env.donors.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDonors)
	assert.InDelta(t, 100, stats.LargestDonation, 0.001)
}

func TestDonorUsecase_FilterOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	opts, err := env.donors.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, opts.Cities)
	assert.Empty(t, opts.Interests)

	for _, d := range []*data.Donor{
		{FirstName: "A", LastName: "A", City: "victoria", Interests: data.StringList{" Arts", "health"}},
		{FirstName: "B", LastName: "B", City: "Vancouver", Interests: data.StringList{"arts", "Arts"}},
		{FirstName: "C", LastName: "C", City: "Vancouver", Interests: data.StringList{""}},
		{FirstName: "D", LastName: "D", City: "Kelowna", Interests: data.StringList{"music"}, Exclude: true},
		{FirstName: "E", LastName: "E"},
	} {
		require.NoError(t, env.donorRepo.CreateDonor(ctx, d))
	}

	opts, err = env.donors.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vancouver", "victoria"}, opts.Cities)
	assert.Equal(t, []string{"Arts", "arts", "health"}, opts.Interests)
}
