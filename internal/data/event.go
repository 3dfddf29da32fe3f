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

// Event is the GORM model for the events table.
type Event struct {
	ID                int64       `gorm:"primaryKey;column:id" json:"id"`
	Name              string      `gorm:"column:name;size:255;not null" json:"name"`
	Description       string      `gorm:"column:description;type:text" json:"description,omitempty"`
	Date              time.Time   `gorm:"column:date;not null;index" json:"date"`
	Location          string      `gorm:"column:location;size:255" json:"location,omitempty"`
	EventType         StringList  `gorm:"column:event_type;type:text" json:"eventType"`
	TargetAmount      float64     `gorm:"column:target_amount;type:decimal(12,2);default:0;not null" json:"targetAmount"`
	ExpectedAttendees int         `gorm:"column:expected_attendees;default:0;not null" json:"expectedAttendees"`
	Status            EventStatus `gorm:"column:status;type:varchar(20);default:'planned';not null" json:"status"`
	ActualAmount      float64     `gorm:"column:actual_amount;type:decimal(12,2);default:0;not null" json:"actualAmount"`
	ActualAttendees   int         `gorm:"column:actual_attendees;default:0;not null" json:"actualAttendees"`
	Notes             string      `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt         time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// EventRepo persists events.
type EventRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *gorm.DB, logger log.Logger) *EventRepo {
	return &EventRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// CreateEvent inserts an event; an empty status becomes planned.
func (r *EventRepo) CreateEvent(ctx context.Context, event *Event) error {
	if event.Status == "" {
		event.Status = EventStatusPlanned
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("msg", "failed to create event", "name", event.Name, "kind", dbErr.Kind(), "error", dbErr.Error())
		return dbErr
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (r *EventRepo) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var event Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event not found: id=%d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// ListEvents returns every event ordered by date.
func (r *EventRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	var events []*Event
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent saves every column of event.
func (r *EventRepo) UpdateEvent(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("msg", "failed to update event", "id", event.ID, "kind", dbErr.Kind(), "error", dbErr.Error())
		return dbErr
	}
	return nil
}

// DeleteEvent removes an event together with its invitations.
func (r *EventRepo) DeleteEvent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&EventDonor{}).Error; err != nil {
			return fmt.Errorf("failed to delete event donors: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("event not found: id=%d: %w", id, ErrNotFound)
		}
		return nil
	})
}
