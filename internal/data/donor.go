package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "DonorLane/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by repositories when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// donorLocalCacheSize bounds the in-process donor-by-id cache.
const donorLocalCacheSize = 1024

// Donor is the GORM model for the donors table.
type Donor struct {
	ID                         int64      `gorm:"primaryKey;column:id" json:"id"`
	FirstName                  string     `gorm:"column:first_name;size:100;not null" json:"firstName"`
	LastName                   string     `gorm:"column:last_name;size:100;not null" json:"lastName"`
	Email                      string     `gorm:"column:email;size:255;index" json:"email,omitempty"`
	Phone                      string     `gorm:"column:phone;size:50" json:"phone,omitempty"`
	Organization               string     `gorm:"column:organization;size:255" json:"organization,omitempty"`
	AddressLine1               string     `gorm:"column:address_line1;size:255" json:"addressLine1,omitempty"`
	AddressLine2               string     `gorm:"column:address_line2;size:255" json:"addressLine2,omitempty"`
	City                       string     `gorm:"column:city;size:100;index" json:"city,omitempty"`
	Province                   string     `gorm:"column:province;size:100" json:"province,omitempty"`
	PostalCode                 string     `gorm:"column:postal_code;size:20" json:"postalCode,omitempty"`
	Interests                  StringList `gorm:"column:interests;type:text" json:"interests"`
	TotalDonations             float64    `gorm:"column:total_donations;type:decimal(12,2);default:0;not null" json:"totalDonations"`
	LargestGift                float64    `gorm:"column:largest_gift;type:decimal(12,2);default:0;not null" json:"largestGift"`
	FirstGiftDate              *time.Time `gorm:"column:first_gift_date" json:"firstGiftDate,omitempty"`
	LastGiftDate               *time.Time `gorm:"column:last_gift_date" json:"lastGiftDate,omitempty"`
	LastGiftAmount             float64    `gorm:"column:last_gift_amount;type:decimal(12,2);default:0;not null" json:"lastGiftAmount"`
	SubscriptionEventsInPerson bool       `gorm:"column:subscription_events_in_person;not null" json:"subscriptionEventsInPerson"`
	SubscriptionNewsletter     bool       `gorm:"column:subscription_newsletter;not null" json:"subscriptionNewsletter"`
	Exclude                    bool       `gorm:"column:exclude;not null;index" json:"exclude"`
	Deceased                   bool       `gorm:"column:deceased;not null" json:"deceased"`
	Notes                      string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt                  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt                  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Donor) TableName() string {
	return "donors"
}

// FullName joins first and last name.
func (d *Donor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Donor) clone() *Donor {
	cp := *d
	cp.Interests = append(StringList(nil), d.Interests...)
	return &cp
}

// DonorSort selects the ordering of ListDonors.
type DonorSort string

// Donor list orderings. Any other value sorts by lifetime giving.
const (
	DonorSortTotalDonations DonorSort = ""
	DonorSortLastGiftDate   DonorSort = "lastGiftDate-desc"
	DonorSortLastGiftAmount DonorSort = "lastGiftAmount-desc"
	DonorSortAlphabetical   DonorSort = "alphabetical-asc"
)

// DonorFilter narrows ListDonors. Only active donors are listed.
type DonorFilter struct {
	Page     int
	PageSize int
	City     string
	Search   string
	Interest string
	Sort     DonorSort
}

// DonorRepo persists donors. Single donors are kept in an in-process LRU and
// the matching pool of active donors is cached in Redis.
type DonorRepo struct {
	db      *gorm.DB
	cache   CacheClient
	local   *lru.Cache[int64, *Donor]
	poolTTL time.Duration
	logger  *log.Helper
}

// NewDonorRepo creates a new donor repository.
func NewDonorRepo(data *Data, db *gorm.DB, logger log.Logger) (*DonorRepo, error) {
	local, err := lru.New[int64, *Donor](donorLocalCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create donor cache: %w", err)
	}
	return &DonorRepo{
		db:      db,
		cache:   data.GetCache(),
		local:   local,
		poolTTL: data.DonorCacheTTL(),
		logger:  log.NewHelper(logger),
	}, nil
}

// CreateDonor inserts a donor and invalidates the active pool.
func (r *DonorRepo) CreateDonor(ctx context.Context, donor *Donor) error {
	if err := r.db.WithContext(ctx).Create(donor).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("msg", "failed to create donor", "kind", dbErr.Kind(), "error", dbErr.Error())
		return dbErr
	}
	r.invalidatePool(ctx)
	return nil
}

// GetDonor retrieves a donor by ID, consulting the in-process cache first.
func (r *DonorRepo) GetDonor(ctx context.Context, id int64) (*Donor, error) {
	if d, ok := r.local.Get(id); ok {
		return d.clone(), nil
	}

	var donor Donor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&donor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("donor not found: id=%d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get donor: %w", err)
	}

	r.local.Add(id, donor.clone())
	return &donor, nil
}

// ListDonors pages through active donors. City matches as a case-insensitive
// substring and Interest as a whole tag.
func (r *DonorRepo) ListDonors(ctx context.Context, filter *DonorFilter) ([]*Donor, int64, error) {
	if filter == nil {
		filter = &DonorFilter{}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	query := r.db.WithContext(ctx).Model(&Donor{}).
		Where("deceased = ? AND exclude = ?", false, false)
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}
	if interest := strings.TrimSpace(filter.Interest); interest != "" {
		query = query.Where("LOWER("+r.wrapTags("interests")+") LIKE ?", "%,"+strings.ToLower(interest)+",%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count donors: %w", err)
	}

	var donors []*Donor
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Offset(offset).Limit(filter.PageSize).
		Order(donorOrder(filter.Sort)).
		Find(&donors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list donors: %w", err)
	}

	return donors, total, nil
}

func donorOrder(sort DonorSort) string {
	switch sort {
	case DonorSortLastGiftDate:
		return "last_gift_date IS NULL ASC, last_gift_date DESC, id ASC"
	case DonorSortLastGiftAmount:
		return "last_gift_amount DESC, last_gift_date IS NULL ASC, last_gift_date DESC, id ASC"
	case DonorSortAlphabetical:
		return "LOWER(last_name) ASC, LOWER(first_name) ASC, id ASC"
	default:
		return "total_donations DESC, last_gift_date IS NULL ASC, last_gift_date DESC, id ASC"
	}
}

// wrapTags surrounds a comma-joined column with commas so a single tag can be
// matched with LIKE '%,tag,%'. MySQL treats || as OR.
func (r *DonorRepo) wrapTags(column string) string {
	if r.db.Dialector.Name() == "mysql" {
		return "CONCAT(','," + column + ",',')"
	}
	return "',' || " + column + " || ','"
}

// UpdateDonor saves every column of donor and clears its caches.
func (r *DonorRepo) UpdateDonor(ctx context.Context, donor *Donor) error {
	if err := r.db.WithContext(ctx).Save(donor).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("msg", "failed to update donor", "id", donor.ID, "kind", dbErr.Kind(), "error", dbErr.Error())
		return dbErr
	}
	r.local.Remove(donor.ID)
	r.invalidatePool(ctx)
	return nil
}

// DeleteDonor removes a donor and clears its caches.
func (r *DonorRepo) DeleteDonor(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Donor{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete donor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("donor not found: id=%d: %w", id, ErrNotFound)
	}
	r.local.Remove(id)
	r.invalidatePool(ctx)
	return nil
}

// ListActiveDonors returns every donor that is neither excluded nor deceased.
// The pool is cached in Redis; cache failures fall back to the database.
func (r *DonorRepo) ListActiveDonors(ctx context.Context) ([]*Donor, error) {
	return readThrough(ctx, r.cache, r.logger, activeDonorsKey, r.poolTTL, func(ctx context.Context) ([]*Donor, error) {
		var donors []*Donor
		if err := r.db.WithContext(ctx).
			Where("exclude = ? AND deceased = ?", false, false).
			Order("id ASC").
			Find(&donors).Error; err != nil {
			return nil, fmt.Errorf("failed to list active donors: %w", err)
		}
		return donors, nil
	})
}

// CountDonors counts all donors, or only active ones.
func (r *DonorRepo) CountDonors(ctx context.Context, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&Donor{})
	if activeOnly {
		query = query.Where("exclude = ? AND deceased = ?", false, false)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count donors: %w", err)
	}
	return n, nil
}

// DonorStats aggregates giving totals over active donors.
type DonorStats struct {
	TotalDonors     int64
	TotalDonations  float64
	AverageDonation float64
	LargestDonation float64
}

// Stats aggregates active donors in one query. The result is cached with the
// active pool and invalidated with it.
func (r *DonorRepo) Stats(ctx context.Context) (*DonorStats, error) {
	return readThrough(ctx, r.cache, r.logger, donorStatsKey, r.poolTTL, r.aggregate)
}

func (r *DonorRepo) aggregate(ctx context.Context) (*DonorStats, error) {
	var row struct {
		Total int64
		Sum   *float64
		Avg   *float64
		Max   *float64
	}
	err := r.db.WithContext(ctx).Model(&Donor{}).
		Select("COUNT(*) AS total, SUM(total_donations) AS sum, AVG(total_donations) AS avg, MAX(total_donations) AS max").
		Where("exclude = ? AND deceased = ?", false, false).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate donors: %w", err)
	}

	stats := &DonorStats{TotalDonors: row.Total}
	if row.Sum != nil {
		stats.TotalDonations = *row.Sum
	}
	if row.Avg != nil {
		stats.AverageDonation = *row.Avg
	}
	if row.Max != nil {
		stats.LargestDonation = *row.Max
	}
	return stats, nil
}

func (r *DonorRepo) invalidatePool(ctx context.Context) {
	if err := r.cache.Delete(ctx, activeDonorsKey, donorStatsKey); err != nil {
		r.logger.Warnw("msg", "failed to invalidate donor caches", "error", err)
	}
}
