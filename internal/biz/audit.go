package biz

import (
	"context"
	"fmt"
	"math"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// Audit pagination bounds.
const (
	DefaultAuditPageSize = 25
	MaxAuditPageSize     = 200
)

// AuditLogRepo reads persisted audit entries.
type AuditLogRepo interface {
	List(ctx context.Context, filter *data.AuditLogFilter, offset, limit int) ([]*data.AuditLog, int64, error)
	Export(ctx context.Context, filter *data.AuditLogFilter) ([]*data.AuditLog, error)
	Get(ctx context.Context, id int64) (*data.AuditLog, error)
	Count(ctx context.Context) (int64, error)
}

// AuditSink accepts entries for asynchronous persistence. Enqueue never blocks
// and reports whether the entry was accepted.
type AuditSink interface {
	Enqueue(ctx context.Context, entry *data.AuditLog) bool
}

// AuditRecord is one change to be written to the audit trail.
type AuditRecord struct {
	Action     data.AuditAction
	EntityType string
	EntityID   *int64
	Before     map[string]interface{}
	After      map[string]interface{}
	Metadata   map[string]interface{}
}

// AuditEntry is a stored audit entry with its payload decoded.
type AuditEntry struct {
	ID         int64
	Action     data.AuditAction
	EntityType string
	EntityID   *int64
	UserID     *int64
	IPAddress  *string
	CreatedAt  time.Time
	Changes    *AuditChanges
}

// AuditQuery selects one page of audit entries.
type AuditQuery struct {
	Page   int
	Limit  int
	Filter data.AuditLogFilter
}

// AuditPage is one page of audit entries.
type AuditPage struct {
	Items      []*AuditEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AuditTrailUsecase records entity changes and serves the audit trail.
type AuditTrailUsecase struct {
	repo   AuditLogRepo
	sink   AuditSink
	codec  *AuditCodec
	logger *pkglog.LogHelper
}

// NewAuditTrailUsecase creates a new audit trail usecase.
func NewAuditTrailUsecase(repo AuditLogRepo, sink AuditSink, codec *AuditCodec, logger log.Logger) *AuditTrailUsecase {
	return &AuditTrailUsecase{
		repo:   repo,
		sink:   sink,
		codec:  codec,
		logger: pkglog.NewLogHelper(logger),
	}
}

// Log encodes rec and hands it to the writer. The actor and client IP come
// from the request context. Failures are logged and never returned.
func (uc *AuditTrailUsecase) Log(ctx context.Context, rec AuditRecord) {
	changes, err := uc.codec.BuildChanges(rec.Before, rec.After, rec.Metadata)
	if err != nil {
		uc.logger.WithContext(ctx).Warnw("msg", "failed to encode audit changes",
			"action", rec.Action, "entity_type", rec.EntityType, "error", err)
		changes = nil
	}

	entry := &data.AuditLog{
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		UserID:     pkglog.GetActorID(ctx),
		Changes:    changes,
	}
	if ip := pkglog.GetClientIP(ctx); ip != "" {
		entry.IPAddress = &ip
	}

	if uc.sink.Enqueue(ctx, entry) {
		uc.logger.Audit("audit entry queued",
			"action", rec.Action, "entity_type", rec.EntityType, "entity_id", rec.EntityID)
	}
}

// List returns one page of entries, newest first. Out-of-range paging falls
// back to defaults.
func (uc *AuditTrailUsecase) List(ctx context.Context, q AuditQuery) (*AuditPage, error) {
	page, limit := normalizeAuditPaging(q.Page, q.Limit)

	rows, total, err := uc.repo.List(ctx, &q.Filter, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return &AuditPage{
		Items:      uc.decodeAll(ctx, rows),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: auditTotalPages(total, limit),
	}, nil
}

// FindOne returns a single entry or an ErrNotFound-wrapped error.
func (uc *AuditTrailUsecase) FindOne(ctx context.Context, id int64) (*AuditEntry, error) {
	row, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.decode(ctx, row), nil
}

// Export returns every matching entry, newest first.
func (uc *AuditTrailUsecase) Export(ctx context.Context, filter data.AuditLogFilter) ([]*AuditEntry, error) {
	rows, err := uc.repo.Export(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("failed to export audit logs: %w", err)
	}
	return uc.decodeAll(ctx, rows), nil
}

// Count returns the number of stored entries.
func (uc *AuditTrailUsecase) Count(ctx context.Context) (int64, error) {
	return uc.repo.Count(ctx)
}

func (uc *AuditTrailUsecase) decodeAll(ctx context.Context, rows []*data.AuditLog) []*AuditEntry {
	out := make([]*AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, uc.decode(ctx, row))
	}
	return out
}

func (uc *AuditTrailUsecase) decode(ctx context.Context, row *data.AuditLog) *AuditEntry {
	changes, err := uc.codec.ParseChanges(row.Changes)
	if err != nil {
		uc.logger.WithContext(ctx).Warnw("msg", "malformed audit payload", "id", row.ID, "error", err)
		changes = nil
	}
	return &AuditEntry{
		ID:         row.ID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		UserID:     row.UserID,
		IPAddress:  row.IPAddress,
		CreatedAt:  row.CreatedAt,
		Changes:    changes,
	}
}

func normalizeAuditPaging(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit < 1 || limit > MaxAuditPageSize {
		limit = DefaultAuditPageSize
	}
	return page, limit
}

func auditTotalPages(total int64, limit int) int {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		return 1
	}
	return pages
}

// actorMetadata merges the request actor into extra.
func actorMetadata(ctx context.Context, extra map[string]interface{}) map[string]interface{} {
	md := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		md[k] = v
	}
	if actor := pkglog.GetActorID(ctx); actor != nil {
		md["actor"] = map[string]interface{}{"id": *actor}
	}
	return md
}

func idPtr(id int64) *int64 {
	return &id
}
