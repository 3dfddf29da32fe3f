package biz

import (
	"context"
	"testing"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGala() *data.Event {
	return &data.Event{
		Name:              "Spring Gala",
		Date:              time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Location:          "Toronto",
		EventType:         data.StringList{"arts"},
		TargetAmount:      50000,
		ExpectedAttendees: 2,
	}
}

func TestEventUsecase_CRUDIsAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.events.CreateEvent(ctx, newGala())
	require.NoError(t, err)
	assert.Equal(t, data.EventStatusPlanned, event.Status)

	active := data.EventStatusActive
	target := 75000.0
	_, err = env.events.UpdateEvent(ctx, event.ID, &EventPatch{Status: &active, TargetAmount: &target})
	require.NoError(t, err)

	updated, err := env.events.UpdateEvent(ctx, event.ID, &EventPatch{TargetAmount: &target})
	require.NoError(t, err)
	assert.Equal(t, data.EventStatusActive, updated.Status, "omitted status keeps the stored one")

	require.NoError(t, env.events.DeleteEvent(ctx, event.ID))
	_, err = env.events.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries := env.sink.all()
	require.Len(t, entries, 4)

	createdPayload := decodeChanges(t, entries[0])
	assert.Equal(t, map[string]interface{}{"status": "planned"}, createdPayload["metadata"])

	updatePayload := decodeChanges(t, entries[1])
	assert.Equal(t, map[string]interface{}{
		"status":       map[string]interface{}{"before": "planned", "after": "active"},
		"targetAmount": map[string]interface{}{"before": 50000.0, "after": 75000.0},
	}, updatePayload["diff"])
	assert.Equal(t, []interface{}{"targetAmount", "status"},
		updatePayload["metadata"].(map[string]interface{})["updatedFields"])

	noop := decodeChanges(t, entries[2])
	assert.NotContains(t, noop, "diff")
	assert.Equal(t, []interface{}{"targetAmount"}, noop["metadata"].(map[string]interface{})["updatedFields"])
}

func TestEventUsecase_UpdateIsPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gala := newGala()
	gala.Description = "Annual fundraiser"
	gala.Notes = "VIP table"
	gala.ActualAmount = 1200
	event, err := env.events.CreateEvent(ctx, gala)
	require.NoError(t, err)

	completed := data.EventStatusCompleted
	updated, err := env.events.UpdateEvent(ctx, event.ID, &EventPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, data.EventStatusCompleted, updated.Status)

	stored, err := env.events.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, data.EventStatusCompleted, stored.Status)
	assert.Equal(t, "Spring Gala", stored.Name)
	assert.Equal(t, "Annual fundraiser", stored.Description)
	assert.Equal(t, "VIP table", stored.Notes)
	assert.Equal(t, data.StringList{"arts"}, stored.EventType)
	assert.Equal(t, 1200.0, stored.ActualAmount)
	assert.True(t, gala.Date.Equal(stored.Date))

	entries := env.sink.all()
	require.Len(t, entries, 2)
	payload := decodeChanges(t, entries[1])
	assert.Equal(t, map[string]interface{}{
		"status": map[string]interface{}{"before": "planned", "after": "completed"},
	}, payload["diff"])
	assert.Equal(t, []interface{}{"status"}, payload["metadata"].(map[string]interface{})["updatedFields"])

	// an empty list clears the event types
	cleared, err := env.events.UpdateEvent(ctx, event.ID, &EventPatch{EventType: []string{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.EventType)
}

func TestEventUsecase_UpdateValidatesMergedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.events.CreateEvent(ctx, newGala())
	require.NoError(t, err)

	blank := "  "
	archived := data.EventStatus("archived")
	empty := data.EventStatus("")
	negative := -1.0
	for name, patch := range map[string]*EventPatch{
		"blank name":      {Name: &blank},
		"unknown status":  {Status: &archived},
		"empty status":    {Status: &empty},
		"negative target": {TargetAmount: &negative},
		"zero date":       {Date: &time.Time{}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.events.UpdateEvent(ctx, event.ID, patch)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	stored, err := env.events.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Gala", stored.Name)
	assert.Len(t, env.sink.all(), 1, "rejected updates are not recorded")
}

func TestEventPatch_Fields(t *testing.T) {
	var nilPatch *EventPatch
	assert.Empty(t, nilPatch.Fields())

	name := "Gala"
	notes := ""
	assert.Equal(t, []string{"name", "eventType", "notes"},
		(&EventPatch{Name: &name, EventType: []string{}, Notes: &notes}).Fields())
}

func TestEventUsecase_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		event *data.Event
	}{
		{"nil", nil},
		{"missing name", &data.Event{Date: time.Now()}},
		{"missing date", &data.Event{Name: "x"}},
		{"bad status", &data.Event{Name: "x", Date: time.Now(), Status: "archived"}},
		{"negative target", &data.Event{Name: "x", Date: time.Now(), TargetAmount: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.events.CreateEvent(ctx, tt.event)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	name := "x"
	_, err := env.events.UpdateEvent(ctx, 404, &EventPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.events.DeleteEvent(ctx, 404), ErrNotFound)
}

func TestEventUsecase_Invitations(t *testing.T) {
	env := newTestEnv(t)
	actor := int64(3)
	ctx := pkglog.WithRequestContext(context.Background(), "req", &actor, "")

	event, err := env.events.CreateEvent(ctx, newGala())
	require.NoError(t, err)

	var ids []int64
	for _, name := range []string{"Ann", "Ben", "Cal"} {
		d := &data.Donor{FirstName: name, LastName: "Donor", City: "Toronto", Interests: data.StringList{"arts"}}
		require.NoError(t, env.donorRepo.CreateDonor(ctx, d))
		ids = append(ids, d.ID)
	}

	res, err := env.events.AddDonors(ctx, event.ID, []int64{ids[0], ids[1], ids[0]}, map[int64]float64{ids[0]: 88.5})
	require.NoError(t, err)
	require.Len(t, res.Added, 2)
	assert.Equal(t, 1, res.Skipped)

	res, err = env.events.AddDonors(ctx, event.ID, []int64{ids[0]}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, 1, res.Skipped)

	res, err = env.events.AddDonors(ctx, event.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Added)

	_, err = env.events.AddDonors(ctx, 404, ids, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := env.events.ListEventDonors(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ids[0], rows[0].DonorID)
	assert.Equal(t, 88.5, rows[0].MatchScore)
	assert.Equal(t, 0.0, rows[1].MatchScore)

	suggestions, err := env.events.SuggestDonors(ctx, event.ID, FocusAttendees)
	require.NoError(t, err)
	require.Len(t, suggestions, 1, "invited donors are not suggested again")
	assert.Equal(t, ids[2], suggestions[0].Donor.ID)

	fixed := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	env.events.now = func() time.Time { return fixed }

	row, err := env.events.UpdateDonorStatus(ctx, event.ID, ids[1], data.InvitationConfirmed, "table 4")
	require.NoError(t, err)
	assert.Equal(t, data.InvitationConfirmed, row.Status)
	require.NotNil(t, row.RespondedAt)
	assert.True(t, fixed.Equal(*row.RespondedAt))

	row, err = env.events.UpdateDonorStatus(ctx, event.ID, ids[1], data.InvitationAttended, "")
	require.NoError(t, err)
	assert.Equal(t, "table 4", row.Notes, "blank notes keep the stored ones")

	_, err = env.events.UpdateDonorStatus(ctx, event.ID, ids[1], "maybe", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.events.UpdateDonorStatus(ctx, event.ID, ids[2], data.InvitationDeclined, "")
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := env.events.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalInvited)
	assert.Equal(t, 1, stats.Attended)
	assert.Equal(t, 0, stats.Confirmed)
	assert.Equal(t, 50000.0, stats.TargetAmount)

	require.NoError(t, env.events.RemoveDonor(ctx, event.ID, ids[0]))
	assert.ErrorIs(t, env.events.RemoveDonor(ctx, event.ID, ids[0]), ErrNotFound)

	var bulk *data.AuditLog
	for _, e := range env.sink.all() {
		if e.EntityType == EntityEventDonor && e.Action == data.AuditActionCreate {
			bulk = e
		}
	}
	require.NotNil(t, bulk, "bulk invite is audited once")
	assert.Equal(t, event.ID, *bulk.EntityID)
	assert.Nil(t, bulk.IPAddress)
	payload := decodeChanges(t, bulk)
	added := payload["after"].(map[string]interface{})["added"].([]interface{})
	assert.Len(t, added, 2)
	assert.Equal(t, map[string]interface{}{
		"source": "bulk_invite",
		"actor":  map[string]interface{}{"id": 3.0},
	}, payload["metadata"])

	var invites int
	for _, e := range env.sink.all() {
		if e.EntityType == EntityEventDonor {
			invites++
		}
	}
	assert.Equal(t, 4, invites, "one bulk invite, two status updates and one removal")
}
