package v1

import "time"

// FieldChange is one changed attribute of an audited entity.
type FieldChange struct {
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// AuditChanges is the decoded change payload of an audit entry. Each field
// holds a JSON object and is omitted when the entry did not record it; an
// empty but recorded snapshot is kept as {}.
type AuditChanges struct {
	Before   interface{} `json:"before,omitempty"`
	After    interface{} `json:"after,omitempty"`
	Diff     interface{} `json:"diff,omitempty"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// AuditLogEntry is one audit trail entry.
type AuditLogEntry struct {
	Id         int64         `json:"id"`
	Action     string        `json:"action"`
	EntityType string        `json:"entityType"`
	EntityId   *int64        `json:"entityId"`
	UserId     *int64        `json:"userId"`
	IpAddress  *string       `json:"ipAddress"`
	CreatedAt  time.Time     `json:"createdAt"`
	Changes    *AuditChanges `json:"changes"`
}

// ListAuditLogsRequest filters and pages the audit trail. All fields arrive
// as raw query strings; malformed values are ignored.
type ListAuditLogsRequest struct {
	Page       string `json:"page"`
	Limit      string `json:"limit"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	UserId     string `json:"userId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// ListAuditLogsReply is one page of the audit trail, newest first.
type ListAuditLogsReply struct {
	Items      []*AuditLogEntry `json:"items"`
	Total      int64            `json:"total"`
	Page       int32            `json:"page"`
	Limit      int32            `json:"limit"`
	TotalPages int32            `json:"totalPages"`
}

// GetAuditLogRequest addresses one entry.
type GetAuditLogRequest struct {
	Id int64 `json:"id"`
}

// ExportAuditLogsRequest exports every matching entry as csv or json.
type ExportAuditLogsRequest struct {
	Format     string `json:"format"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	UserId     string `json:"userId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// ExportAuditLogsReply is an export ready for download. Content carries the
// rendered csv document; json exports are rendered from Items.
type ExportAuditLogsReply struct {
	Format   string           `json:"format"`
	Filename string           `json:"filename"`
	Items    []*AuditLogEntry `json:"items"`
	Content  []byte           `json:"-"`
}
