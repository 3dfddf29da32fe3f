// Package biz contains business logic layer implementations.
// This layer holds the matching engine, the audit codec and the usecases
// built on them.
package biz

import (
	"errors"

	"DonorLane/internal/data"

	"github.com/google/wire"
)

var (
	// ErrNotFound is wrapped by repositories when a requested entity does not exist.
	ErrNotFound = data.ErrNotFound
	// ErrInvalidArgument is wrapped when caller input fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewMatchingEngine,
	NewDefaultAuditCodec,
	NewMatchMetrics,
	NewAuditTrailUsecase,
	NewDonorUsecase,
	NewEventUsecase,
	NewBaselineTask,
	NewAnalyticsUsecase,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(DonorRepo), new(*data.DonorRepo)),
	wire.Bind(new(EventRepo), new(*data.EventRepo)),
	wire.Bind(new(EventDonorRepo), new(*data.EventDonorRepo)),
	wire.Bind(new(AuditLogRepo), new(*data.AuditLogRepo)),
	wire.Bind(new(AuditSink), new(*data.AuditWriter)),
	wire.Bind(new(AnalyticsRepo), new(*data.AnalyticsRepo)),
)
