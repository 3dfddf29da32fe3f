// Package service adapts the usecases in biz to the api/v1 HTTP surface.
package service

import (
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"DonorLane/internal/biz"
	pkgerrors "DonorLane/pkg/errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewDonorService, NewEventService, NewAuditService, NewAnalyticsService)

// toHTTPError maps usecase errors onto kratos errors so the transport picks
// the right status code. Unknown errors surface as 500 without their text.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, biz.ErrNotFound):
		return errors.NotFound("NOT_FOUND", err.Error())
	case stderrors.Is(err, biz.ErrInvalidArgument):
		return errors.BadRequest("INVALID_ARGUMENT", err.Error())
	case pkgerrors.IsDuplicateKeyError(err):
		return errors.Conflict("ALREADY_EXISTS", "record already exists")
	}
	if se := new(errors.Error); stderrors.As(err, &se) {
		return se
	}
	return errors.InternalServer("INTERNAL", "internal server error").WithCause(err)
}

// parseQueryInt returns the integer value of raw, or fallback when raw is
// blank or not a base-10 integer.
func parseQueryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// parseQueryID returns a pointer to the id in raw, or nil when raw is not one.
func parseQueryID(raw string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

var queryTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseQueryTime accepts RFC 3339 timestamps, bare local date-times and
// plain dates. Values without a zone are read as UTC.
func parseQueryTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
