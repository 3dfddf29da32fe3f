package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// DonorRepo defines the interface for donor data access.
type DonorRepo interface {
	CreateDonor(ctx context.Context, donor *data.Donor) error
	GetDonor(ctx context.Context, id int64) (*data.Donor, error)
	ListDonors(ctx context.Context, filter *data.DonorFilter) ([]*data.Donor, int64, error)
	UpdateDonor(ctx context.Context, donor *data.Donor) error
	DeleteDonor(ctx context.Context, id int64) error
	ListActiveDonors(ctx context.Context) ([]*data.Donor, error)
	CountDonors(ctx context.Context, activeOnly bool) (int64, error)
	Stats(ctx context.Context) (*data.DonorStats, error)
}

// DonorUsecase implements donor management and matching.
type DonorUsecase struct {
	repo    DonorRepo
	engine  *MatchingEngine
	audit   *AuditTrailUsecase
	metrics *MatchMetrics
	logger  *pkglog.LogHelper
}

// NewDonorUsecase creates a new donor usecase.
func NewDonorUsecase(repo DonorRepo, engine *MatchingEngine, audit *AuditTrailUsecase, metrics *MatchMetrics, logger log.Logger) *DonorUsecase {
	return &DonorUsecase{
		repo:    repo,
		engine:  engine,
		audit:   audit,
		metrics: metrics,
		logger:  pkglog.NewLogHelper(logger),
	}
}

// CreateDonor validates and stores a donor, recording the creation.
func (uc *DonorUsecase) CreateDonor(ctx context.Context, donor *data.Donor) (*data.Donor, error) {
	if err := validateDonor(donor); err != nil {
		return nil, err
	}
	donor.ID = 0

	if err := uc.repo.CreateDonor(ctx, donor); err != nil {
		return nil, fmt.Errorf("failed to create donor: %w", err)
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionCreate,
		EntityType: EntityDonor,
		EntityID:   idPtr(donor.ID),
		After:      DonorSnapshot(donor),
		Metadata:   actorMetadata(ctx, nil),
	})
	uc.logger.Donor("donor created", "id", donor.ID)
	return donor, nil
}

// GetDonor retrieves a donor by ID.
func (uc *DonorUsecase) GetDonor(ctx context.Context, id int64) (*data.Donor, error) {
	return uc.repo.GetDonor(ctx, id)
}

// ListDonors returns a filtered page of donors and the total count.
func (uc *DonorUsecase) ListDonors(ctx context.Context, filter *data.DonorFilter) ([]*data.Donor, int64, error) {
	return uc.repo.ListDonors(ctx, filter)
}

// UpdateDonor replaces the stored donor with id by donor, recording the diff.
func (uc *DonorUsecase) UpdateDonor(ctx context.Context, id int64, donor *data.Donor) (*data.Donor, error) {
	if err := validateDonor(donor); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetDonor(ctx, id)
	if err != nil {
		return nil, err
	}
	before := DonorSnapshot(existing)

	donor.ID = id
	donor.CreatedAt = existing.CreatedAt
	if err := uc.repo.UpdateDonor(ctx, donor); err != nil {
		return nil, fmt.Errorf("failed to update donor: %w", err)
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionUpdate,
		EntityType: EntityDonor,
		EntityID:   idPtr(id),
		Before:     before,
		After:      DonorSnapshot(donor),
		Metadata:   actorMetadata(ctx, nil),
	})
	uc.logger.Donor("donor updated", "id", id)
	return donor, nil
}

// DeleteDonor removes a donor, recording its last state.
func (uc *DonorUsecase) DeleteDonor(ctx context.Context, id int64) error {
	existing, err := uc.repo.GetDonor(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.DeleteDonor(ctx, id); err != nil {
		return err
	}

	uc.audit.Log(ctx, AuditRecord{
		Action:     data.AuditActionDelete,
		EntityType: EntityDonor,
		EntityID:   idPtr(id),
		Before:     DonorSnapshot(existing),
		Metadata:   actorMetadata(ctx, nil),
	})
	uc.logger.Donor("donor deleted", "id", id)
	return nil
}

// DonorFilterOptions lists the values the donor list can be filtered by.
type DonorFilterOptions struct {
	Cities    []string
	Interests []string
}

// FilterOptions collects the distinct cities and interests of active donors,
// sorted case-insensitively.
func (uc *DonorUsecase) FilterOptions(ctx context.Context) (*DonorFilterOptions, error) {
	pool, err := uc.repo.ListActiveDonors(ctx)
	if err != nil {
		return nil, err
	}

	cities := make(map[string]struct{})
	interests := make(map[string]struct{})
	for _, d := range pool {
		if d.City != "" {
			cities[d.City] = struct{}{}
		}
		for _, interest := range d.Interests {
			if interest = strings.TrimSpace(interest); interest != "" {
				interests[interest] = struct{}{}
			}
		}
	}
	return &DonorFilterOptions{
		Cities:    sortedKeys(cities),
		Interests: sortedKeys(interests),
	}, nil
}

// sortedKeys orders case-insensitively, breaking ties on the raw value.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// Stats summarizes giving across active donors.
func (uc *DonorUsecase) Stats(ctx context.Context) (*data.DonorStats, error) {
	return uc.repo.Stats(ctx)
}

// MatchDonors ranks the active donor pool against criteria.
func (uc *DonorUsecase) MatchDonors(ctx context.Context, criteria MatchCriteria, overrides *WeightOverrides) ([]ScoredDonor, error) {
	if len(criteria.EventType) == 0 {
		return nil, fmt.Errorf("%w: eventType must not be empty", ErrInvalidArgument)
	}
	if criteria.MinTotalDonations < 0 || criteria.TargetAttendees < 0 {
		return nil, fmt.Errorf("%w: minTotalDonations and targetAttendees must not be negative", ErrInvalidArgument)
	}
	return uc.match(ctx, criteria, overrides, nil)
}

// match scores the active pool minus the excluded donor IDs.
func (uc *DonorUsecase) match(ctx context.Context, criteria MatchCriteria, overrides *WeightOverrides, exclude map[int64]bool) ([]ScoredDonor, error) {
	pool, err := uc.repo.ListActiveDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load donor pool: %w", err)
	}
	if len(exclude) > 0 {
		kept := pool[:0:0]
		for _, d := range pool {
			if !exclude[d.ID] {
				kept = append(kept, d)
			}
		}
		pool = kept
	}

	start := time.Now()
	matches := uc.engine.FindMatches(criteria, pool, overrides)
	elapsed := time.Since(start)

	uc.metrics.observe(criteria.EventFocus, len(pool), elapsed.Seconds())
	uc.logger.Match("donor pool scored",
		"focus", criteria.EventFocus,
		"event_types", strings.Join(criteria.EventType, ","),
		"candidates", len(pool),
		"matches", len(matches),
		"duration_ms", elapsed.Milliseconds())
	return matches, nil
}

func validateDonor(d *data.Donor) error {
	if d == nil {
		return fmt.Errorf("%w: donor is required", ErrInvalidArgument)
	}
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	if d.FirstName == "" || d.LastName == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrInvalidArgument)
	}
	if d.TotalDonations < 0 || d.LargestGift < 0 || d.LastGiftAmount < 0 {
		return fmt.Errorf("%w: donation amounts must not be negative", ErrInvalidArgument)
	}
	return nil
}
