package main

import (
	"context"
	"testing"
	"time"

	"DonorLane/internal/biz"
	"DonorLane/internal/conf"
	"DonorLane/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"
)

func newTestBaseline(t *testing.T) (*biz.BaselineTask, *data.AuditLogRepo, *data.EventRepo) {
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
	auditRepo := data.NewAuditLogRepo(db, logger)

	writer, closeWriter := data.NewAuditWriter(db, &conf.Audit{BufferSize: 10}, prometheus.NewRegistry(), logger)
	t.Cleanup(closeWriter)

	trail := biz.NewAuditTrailUsecase(auditRepo, writer, biz.NewDefaultAuditCodec(), logger)
	return biz.NewBaselineTask(trail, eventRepo, donorRepo, logger), auditRepo, eventRepo
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := newScheduler(nil, nil, log.DefaultLogger)
	assert.Equal(t, defaultBaselineTimeout, s.timeout)
	assert.False(t, s.jobs.SeedOnStartup)

	s = newScheduler(&conf.Jobs{BaselineTimeout: durationpb.New(10 * time.Second)}, nil, log.DefaultLogger)
	assert.Equal(t, 10*time.Second, s.timeout)
}

func TestScheduler_StartSeedsAndSchedules(t *testing.T) {
	task, auditRepo, eventRepo := newTestBaseline(t)
	ctx := context.Background()
	require.NoError(t, eventRepo.CreateEvent(ctx, &data.Event{Name: "Gala", Date: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}))

	s := newScheduler(&conf.Jobs{SeedOnStartup: true, BaselineSpec: "0 0 2 * * *"}, task, log.DefaultLogger)
	require.NoError(t, s.Start(ctx))
	assert.Len(t, s.cron.Entries(), 1)
	require.NoError(t, s.Stop(ctx))

	assert.Eventually(t, func() bool {
		n, err := auditRepo.Count(ctx)
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	s := newScheduler(&conf.Jobs{BaselineSpec: "every day"}, nil, log.DefaultLogger)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_RunBaselineWritesEntry(t *testing.T) {
	task, auditRepo, _ := newTestBaseline(t)
	s := newScheduler(&conf.Jobs{}, task, log.DefaultLogger)

	s.runBaseline()

	assert.Eventually(t, func() bool {
		n, err := auditRepo.Count(context.Background())
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)
}
