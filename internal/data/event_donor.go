package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "DonorLane/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// EventDonor is the GORM model for the event_donors table: one invitation
// of one donor to one event.
type EventDonor struct {
	ID          int64            `gorm:"primaryKey;column:id" json:"id"`
	EventID     int64            `gorm:"column:event_id;not null;uniqueIndex:idx_event_donor" json:"eventId"`
	DonorID     int64            `gorm:"column:donor_id;not null;uniqueIndex:idx_event_donor;index" json:"donorId"`
	Status      InvitationStatus `gorm:"column:status;type:varchar(20);default:'invited';not null" json:"status"`
	MatchScore  float64          `gorm:"column:match_score;type:decimal(6,2);default:0;not null" json:"matchScore"`
	Notes       string           `gorm:"column:notes;type:text" json:"notes,omitempty"`
	InvitedAt   time.Time        `gorm:"column:invited_at;autoCreateTime" json:"invitedAt"`
	RespondedAt *time.Time       `gorm:"column:responded_at" json:"respondedAt,omitempty"`
}

// TableName specifies the table name for GORM.
func (EventDonor) TableName() string {
	return "event_donors"
}

// EventDonorRepo persists event invitations.
type EventDonorRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewEventDonorRepo creates a new event donor repository.
func NewEventDonorRepo(db *gorm.DB, logger log.Logger) *EventDonorRepo {
	return &EventDonorRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// ListByEvent returns the invitations of an event ordered by match score.
func (r *EventDonorRepo) ListByEvent(ctx context.Context, eventID int64) ([]*EventDonor, error) {
	var rows []*EventDonor
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("match_score DESC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list event donors: %w", err)
	}
	return rows, nil
}

// ExistingDonorIDs returns the subset of donorIDs already invited to eventID.
func (r *EventDonorRepo) ExistingDonorIDs(ctx context.Context, eventID int64, donorIDs []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool)
	if len(donorIDs) == 0 {
		return existing, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).Model(&EventDonor{}).
		Where("event_id = ? AND donor_id IN ?", eventID, donorIDs).
		Pluck("donor_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing invitations: %w", err)
	}
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

// CreateBatch inserts invitations in one statement.
func (r *EventDonorRepo) CreateBatch(ctx context.Context, rows []*EventDonor) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("msg", "failed to create event donors", "count", len(rows), "kind", dbErr.Kind(), "error", dbErr.Error())
		return dbErr
	}
	return nil
}

// Get retrieves the invitation of donorID to eventID.
func (r *EventDonorRepo) Get(ctx context.Context, eventID, donorID int64) (*EventDonor, error) {
	var row EventDonor
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND donor_id = ?", eventID, donorID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event donor not found: event=%d donor=%d: %w", eventID, donorID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event donor: %w", err)
	}
	return &row, nil
}

// Update saves every column of row.
func (r *EventDonorRepo) Update(ctx context.Context, row *EventDonor) error {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update event donor: %w", err)
	}
	return nil
}

// Delete removes the invitation of donorID to eventID.
func (r *EventDonorRepo) Delete(ctx context.Context, eventID, donorID int64) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND donor_id = ?", eventID, donorID).
		Delete(&EventDonor{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event donor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event donor not found: event=%d donor=%d: %w", eventID, donorID, ErrNotFound)
	}
	return nil
}
