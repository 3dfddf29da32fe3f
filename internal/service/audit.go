package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	v1 "DonorLane/api/v1"
	"DonorLane/internal/biz"
	"DonorLane/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

var _ v1.AuditServiceHTTPServer = (*AuditService)(nil)

const (
	exportFormatCSV  = "csv"
	exportFormatJSON = "json"
)

var auditCSVHeader = []string{"id", "action", "entityType", "entityId", "userId", "ipAddress", "createdAt", "changes"}

// AuditService implements the admin audit-log HTTP API.
type AuditService struct {
	uc     *biz.AuditTrailUsecase
	logger *log.Helper
	now    func() time.Time
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(uc *biz.AuditTrailUsecase, logger log.Logger) *AuditService {
	return &AuditService{
		uc:     uc,
		logger: log.NewHelper(logger),
		now:    time.Now,
	}
}

// ListAuditLogs returns one page of the audit trail, newest first.
func (s *AuditService) ListAuditLogs(ctx context.Context, req *v1.ListAuditLogsRequest) (*v1.ListAuditLogsReply, error) {
	q := biz.AuditQuery{
		Page:   parseQueryInt(req.Page, 1),
		Limit:  parseQueryInt(req.Limit, biz.DefaultAuditPageSize),
		Filter: auditFilter(req.Action, req.EntityType, req.UserId, req.StartDate, req.EndDate),
	}
	page, err := s.uc.List(ctx, q)
	if err != nil {
		s.logger.Errorw("failed to list audit logs", "error", err)
		return nil, toHTTPError(err)
	}

	return &v1.ListAuditLogsReply{
		Items:      toAuditEntries(page.Items),
		Total:      page.Total,
		Page:       int32(page.Page),
		Limit:      int32(page.Limit),
		TotalPages: int32(page.TotalPages),
	}, nil
}

// GetAuditLog retrieves one entry.
func (s *AuditService) GetAuditLog(ctx context.Context, req *v1.GetAuditLogRequest) (*v1.AuditLogEntry, error) {
	entry, err := s.uc.FindOne(ctx, req.Id)
	if err != nil {
		s.logger.Errorw("failed to get audit log", "id", req.Id, "error", err)
		return nil, toHTTPError(err)
	}
	return toAuditEntry(entry), nil
}

// ExportAuditLogs renders every matching entry. Any format other than json
// is exported as csv.
func (s *AuditService) ExportAuditLogs(ctx context.Context, req *v1.ExportAuditLogsRequest) (*v1.ExportAuditLogsReply, error) {
	format := exportFormatCSV
	if req.Format == exportFormatJSON {
		format = exportFormatJSON
	}

	entries, err := s.uc.Export(ctx, auditFilter(req.Action, req.EntityType, req.UserId, req.StartDate, req.EndDate))
	if err != nil {
		s.logger.Errorw("failed to export audit logs", "error", err)
		return nil, toHTTPError(err)
	}

	reply := &v1.ExportAuditLogsReply{
		Format:   format,
		Filename: exportFilename(s.now(), format),
		Items:    toAuditEntries(entries),
	}
	if format == exportFormatCSV {
		content, err := renderAuditCSV(reply.Items)
		if err != nil {
			s.logger.Errorw("failed to render audit csv", "error", err)
			return nil, toHTTPError(err)
		}
		reply.Content = content
	}
	s.logger.Infow("audit logs exported", "format", format, "entries", len(reply.Items))
	return reply, nil
}

// auditFilter builds a filter from raw query values, ignoring any value that
// does not parse.
func auditFilter(action, entityType, userID, startDate, endDate string) data.AuditLogFilter {
	f := data.AuditLogFilter{
		EntityType: strings.TrimSpace(entityType),
		UserID:     parseQueryID(userID),
		StartDate:  parseQueryTime(startDate),
		EndDate:    parseQueryTime(endDate),
	}
	if a, ok := data.ParseAuditAction(action); ok {
		f.Action = a
	}
	return f
}

// exportFilename stamps the file with the UTC export time, colons replaced
// so the name is valid on every filesystem.
func exportFilename(now time.Time, format string) string {
	stamp := strings.ReplaceAll(now.UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
	return fmt.Sprintf("audit-logs-%s.%s", stamp, format)
}

// renderAuditCSV ends every record with CRLF. A field is quoted when it holds a
// quote, comma, CR or LF, or starts with whitespace.
func renderAuditCSV(items []*v1.AuditLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(auditCSVHeader); err != nil {
		return nil, err
	}
	for _, item := range items {
		changes := ""
		if item.Changes != nil {
			raw, err := json.Marshal(item.Changes)
			if err != nil {
				return nil, fmt.Errorf("encode changes of audit log %d: %w", item.Id, err)
			}
			changes = string(raw)
		}
		row := []string{
			strconv.FormatInt(item.Id, 10),
			item.Action,
			item.EntityType,
			optionalID(item.EntityId),
			optionalID(item.UserId),
			optionalString(item.IpAddress),
			item.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
			changes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toAuditEntries(entries []*biz.AuditEntry) []*v1.AuditLogEntry {
	out := make([]*v1.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntry(e))
	}
	return out
}

func toAuditEntry(e *biz.AuditEntry) *v1.AuditLogEntry {
	return &v1.AuditLogEntry{
		Id:         e.ID,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityId:   e.EntityID,
		UserId:     e.UserID,
		IpAddress:  e.IPAddress,
		CreatedAt:  e.CreatedAt,
		Changes:    toAuditChanges(e.Changes),
	}
}

// toAuditChanges copies only the parts the entry recorded; assigning a nil
// map to an interface field would encode as null.
func toAuditChanges(c *biz.AuditChanges) *v1.AuditChanges {
	if c == nil {
		return nil
	}
	out := &v1.AuditChanges{}
	if c.Before != nil {
		out.Before = c.Before
	}
	if c.After != nil {
		out.After = c.After
	}
	if c.Diff != nil {
		diff := make(map[string]v1.FieldChange, len(c.Diff))
		for k, fc := range c.Diff {
			diff[k] = v1.FieldChange{Before: fc.Before, After: fc.After}
		}
		out.Diff = diff
	}
	if c.Metadata != nil {
		out.Metadata = c.Metadata
	}
	return out
}
