package data

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringList is an ordered list of tags persisted as a comma-joined column.
type StringList []string

// Scan implements sql.Scanner interface for StringList.
func (l *StringList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan type %T into StringList", value)
	}

	if raw == "" {
		*l = StringList{}
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}

// Value implements driver.Valuer interface for StringList.
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// EventStatus represents the lifecycle state of an event.
type EventStatus string

// Event status constants.
const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPlanned   EventStatus = "planned"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPlanned, EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// Scan implements sql.Scanner interface for EventStatus.
func (s *EventStatus) Scan(value interface{}) error {
	str, err := scanString(value, "EventStatus")
	*s = EventStatus(str)
	return err
}

// Value implements driver.Valuer interface for EventStatus.
func (s EventStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// InvitationStatus represents a donor's response to an event invitation.
type InvitationStatus string

// Invitation status constants.
const (
	InvitationInvited    InvitationStatus = "invited"
	InvitationConfirmed  InvitationStatus = "confirmed"
	InvitationAttended   InvitationStatus = "attended"
	InvitationDeclined   InvitationStatus = "declined"
	InvitationNoResponse InvitationStatus = "no_response"
)

// Valid reports whether s is a known invitation status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationInvited, InvitationConfirmed, InvitationAttended, InvitationDeclined, InvitationNoResponse:
		return true
	}
	return false
}

// Scan implements sql.Scanner interface for InvitationStatus.
func (s *InvitationStatus) Scan(value interface{}) error {
	str, err := scanString(value, "InvitationStatus")
	*s = InvitationStatus(str)
	return err
}

// Value implements driver.Valuer interface for InvitationStatus.
func (s InvitationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// AuditAction is the kind of change an audit entry records.
type AuditAction string

// Audit action constants.
const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionDelete   AuditAction = "delete"
	AuditActionLogin    AuditAction = "login"
	AuditActionLogout   AuditAction = "logout"
	AuditActionBaseline AuditAction = "baseline"
)

// ParseAuditAction lowercases raw and reports whether it names a known action.
func ParseAuditAction(raw string) (AuditAction, bool) {
	a := AuditAction(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionLogin, AuditActionLogout, AuditActionBaseline:
		return a, true
	}
	return "", false
}

// Scan implements sql.Scanner interface for AuditAction.
func (a *AuditAction) Scan(value interface{}) error {
	str, err := scanString(value, "AuditAction")
	*a = AuditAction(str)
	return err
}

// Value implements driver.Valuer interface for AuditAction.
func (a AuditAction) Value() (driver.Value, error) {
	return string(a), nil
}

func scanString(value interface{}, typeName string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("cannot scan type %T into %s", value, typeName)
	}
}
