package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// AuditLog is the GORM model for the audit_logs table. Rows are written once
// and never updated.
type AuditLog struct {
	ID         int64       `gorm:"primaryKey;column:id"`
	Action     AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	EntityType string      `gorm:"column:entity_type;size:100;not null;index"`
	EntityID   *int64      `gorm:"column:entity_id"`
	UserID     *int64      `gorm:"column:user_id;index"`
	IPAddress  *string     `gorm:"column:ip_address;size:64"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime;index"`
	Changes    *string     `gorm:"column:changes;type:text"` // JSON payload, nil when nothing was recorded
}

// TableName specifies the table name for GORM.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter narrows audit reads. Nil and empty fields are ignored;
// StartDate and EndDate are inclusive.
type AuditLogFilter struct {
	Action     AuditAction
	EntityType string
	UserID     *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// AuditLogRepo reads and synchronously writes audit entries.
type AuditLogRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewAuditLogRepo creates a new audit log repository.
func NewAuditLogRepo(db *gorm.DB, logger log.Logger) *AuditLogRepo {
	return &AuditLogRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// Create inserts one entry.
func (r *AuditLogRepo) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns one page of entries matching filter, newest first, and the
// total number of matching entries.
func (r *AuditLogRepo) List(ctx context.Context, filter *AuditLogFilter, offset, limit int) ([]*AuditLog, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&AuditLog{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var entries []*AuditLog
	if err := query.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, total, nil
}

// Export returns every entry matching filter, newest first.
func (r *AuditLogRepo) Export(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error) {
	var entries []*AuditLog
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&AuditLog{}), filter).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to export audit logs: %w", err)
	}
	return entries, nil
}

// Get retrieves one entry by ID.
func (r *AuditLogRepo) Get(ctx context.Context, id int64) (*AuditLog, error) {
	var entry AuditLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("audit log not found: id=%d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	return &entry, nil
}

// Count returns the total number of entries.
func (r *AuditLogRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&AuditLog{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return n, nil
}

func (r *AuditLogRepo) applyFilter(query *gorm.DB, filter *AuditLogFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		query = query.Where("created_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	case filter.StartDate != nil:
		query = query.Where("created_at >= ?", *filter.StartDate)
	case filter.EndDate != nil:
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	return query
}
