package biz

import (
	"context"
	"fmt"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// BaselineTask writes baseline audit entries so that the trail has a
// starting state to diff later changes against.
type BaselineTask struct {
	audit  *AuditTrailUsecase
	events EventRepo
	donors DonorRepo
	logger *pkglog.LogHelper
}

// NewBaselineTask 创建审计基线任务
func NewBaselineTask(audit *AuditTrailUsecase, events EventRepo, donors DonorRepo, logger log.Logger) *BaselineTask {
	return &BaselineTask{
		audit:  audit,
		events: events,
		donors: donors,
		logger: pkglog.NewLogHelper(logger),
	}
}

// SeedIfEmpty records one baseline entry per event and one for the donor
// collection, but only while the audit trail is still empty. It reports
// whether anything was seeded.
func (t *BaselineTask) SeedIfEmpty(ctx context.Context) (bool, error) {
	existing, err := t.audit.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count audit logs: %w", err)
	}
	if existing > 0 {
		t.logger.Scheduler("audit trail already seeded", "entries", existing)
		return false, nil
	}

	events, err := t.events.ListEvents(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list events: %w", err)
	}
	donorCount, err := t.donors.CountDonors(ctx, false)
	if err != nil {
		return false, err
	}

	for _, event := range events {
		t.audit.Log(ctx, AuditRecord{
			Action:     data.AuditActionBaseline,
			EntityType: EntityEvent,
			EntityID:   idPtr(event.ID),
			After:      EventSnapshot(event),
			Metadata:   bootstrapMetadata(),
		})
	}

	// 没有捐赠人时不写集合基线
	if donorCount > 0 {
		t.audit.Log(ctx, AuditRecord{
			Action:     data.AuditActionBaseline,
			EntityType: EntityDonorCollection,
			After:      map[string]interface{}{"totalDonors": donorCount},
			Metadata:   bootstrapMetadata(),
		})
	}

	t.logger.Scheduler("baseline audit entries queued", "events", len(events), "donors", donorCount)
	return true, nil
}

// RecordDonorBaseline records the current active donor count.
func (t *BaselineTask) RecordDonorBaseline(ctx context.Context) error {
	active, err := t.donors.CountDonors(ctx, true)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	t.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionBaseline,
		EntityType: EntityDonorCollection,
		After:      map[string]interface{}{"totalDonors": active},
		Metadata:   map[string]interface{}{"source": "scheduled", "runId": runID},
	})

	t.logger.Scheduler("donor baseline recorded", "run_id", runID, "active_donors", active)
	return nil
}

func bootstrapMetadata() map[string]interface{} {
	return map[string]interface{}{"seeded": true, "source": "bootstrap"}
}
