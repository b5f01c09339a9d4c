package gateway

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/app/repository"
)

// Mode is fixed at construction and never re-evaluated: a gateway is either
// connected to the remote store or serving the embedded sample dataset for
// its whole lifetime. Individual connected reads still fall back to samples
// when the store errors mid-flight; that fallback is operation-scoped.
type Mode int

const (
	ModeConnected Mode = iota
	ModeDegraded
)

func (m Mode) String() string {
	if m == ModeConnected {
		return "connected"
	}
	return "degraded"
}

// ErrUnavailable wraps store failures so callers can decide between
// fallback and propagation explicitly.
var ErrUnavailable = errors.New("gateway: remote store unavailable")

// Gateway is the single data-access facade over categories, locations,
// subscription plans, user subscriptions and login activity. Construct it
// once and inject it; there is no global instance.
type Gateway struct {
	mode    Mode
	repos   *repository.Repositories
	samples *SampleData
}

// NewConnected builds a gateway backed by the remote store.
func NewConnected(db *gorm.DB) *Gateway {
	return &Gateway{
		mode:    ModeConnected,
		repos:   repository.NewRepositories(db),
		samples: DefaultSampleData(),
	}
}

// NewDegraded builds a gateway serving only the embedded sample dataset.
// Writes silently no-op.
func NewDegraded() *Gateway {
	return &Gateway{
		mode:    ModeDegraded,
		samples: DefaultSampleData(),
	}
}

// Mode returns the mode selected at construction.
func (g *Gateway) Mode() Mode {
	return g.mode
}

// GetCategories returns all categories. Store failures fall back to the
// sample dataset and are never surfaced to the caller.
func (g *Gateway) GetCategories() []models.Category {
	if g.mode == ModeConnected {
		categories, err := g.repos.Category.GetAll()
		if err == nil {
			return categories
		}
		log.Printf("gateway: category read failed, serving samples: %v", err)
	}
	return append([]models.Category(nil), g.samples.Categories...)
}

// GetCategory returns a category by id, or nil when it does not exist.
func (g *Gateway) GetCategory(id string) *models.Category {
	if g.mode == ModeConnected {
		category, err := g.repos.Category.GetByID(id)
		if err == nil {
			return category
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		log.Printf("gateway: category read failed, serving samples: %v", err)
	}
	for i := range g.samples.Categories {
		if g.samples.Categories[i].ID == id {
			category := g.samples.Categories[i]
			return &category
		}
	}
	return nil
}

// GetLocations returns locations matching the filter, paginated in store
// order. Store failures fall back to the sample dataset.
func (g *Gateway) GetLocations(filter repository.LocationFilter) []models.Location {
	if g.mode == ModeConnected {
		locations, err := g.repos.Location.List(filter)
		if err == nil {
			return locations
		}
		log.Printf("gateway: location read failed, serving samples: %v", err)
	}
	return filterSampleLocations(g.samples.Locations, filter)
}

// GetLocation returns a location by id, or nil when it does not exist.
func (g *Gateway) GetLocation(id uint) *models.Location {
	if g.mode == ModeConnected {
		location, err := g.repos.Location.GetByID(id)
		if err == nil {
			return location
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		log.Printf("gateway: location read failed, serving samples: %v", err)
	}
	for i := range g.samples.Locations {
		if g.samples.Locations[i].ID == id {
			location := g.samples.Locations[i]
			return &location
		}
	}
	return nil
}

// CreateLocation persists a new location. Returns nil when the write was
// rejected or the gateway is degraded; the caller decides whether that is
// a 5xx. A failed write is never retried and never falls back.
func (g *Gateway) CreateLocation(location *models.Location) *models.Location {
	if g.mode != ModeConnected {
		return nil
	}
	if err := g.repos.Location.Create(location); err != nil {
		log.Printf("gateway: location create rejected: %v", err)
		return nil
	}
	return location
}

// UpdateLocation saves an existing location, refreshing updated_at. Returns
// nil on rejection or in degraded mode.
func (g *Gateway) UpdateLocation(location *models.Location) *models.Location {
	if g.mode != ModeConnected {
		return nil
	}
	if err := g.repos.Location.Update(location); err != nil {
		log.Printf("gateway: location update rejected: %v", err)
		return nil
	}
	return location
}

// DeleteLocation removes a location. False on rejection or in degraded mode.
func (g *Gateway) DeleteLocation(id uint) bool {
	if g.mode != ModeConnected {
		return false
	}
	if err := g.repos.Location.Delete(id); err != nil {
		log.Printf("gateway: location delete rejected: %v", err)
		return false
	}
	return true
}

// GetSubscriptionPlans returns the plan reference data.
func (g *Gateway) GetSubscriptionPlans() []models.SubscriptionPlan {
	if g.mode == ModeConnected {
		plans, err := g.repos.Subscription.GetPlans()
		if err == nil {
			return plans
		}
		log.Printf("gateway: plan read failed, serving samples: %v", err)
	}
	return append([]models.SubscriptionPlan(nil), g.samples.Plans...)
}

// GetUserSubscription returns the user's active subscription, (nil, nil)
// when the user is on the implicit free plan, and ErrUnavailable when the
// store could not answer. Callers must treat the error as "not premium".
func (g *Gateway) GetUserSubscription(userID string) (*models.UserSubscription, error) {
	if g.mode != ModeConnected {
		return nil, nil
	}
	sub, err := g.repos.Subscription.GetActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return sub, nil
}

// AddLocationViews applies a batched view-counter increment. No-op in
// degraded mode.
func (g *Gateway) AddLocationViews(id uint, views int64) error {
	if g.mode != ModeConnected {
		return nil
	}
	return g.repos.Location.AddViews(id, views)
}

// CountEntities returns total location and category counts for the stats
// surface. Store failures fall back to the sample dataset sizes.
func (g *Gateway) CountEntities() (locations int64, categories int64) {
	if g.mode == ModeConnected {
		locationCount, locErr := g.repos.Location.Count()
		categoryCount, catErr := g.repos.Category.Count()
		if locErr == nil && catErr == nil {
			return locationCount, categoryCount
		}
		log.Printf("gateway: entity count failed, serving sample sizes: %v %v", locErr, catErr)
	}
	return int64(len(g.samples.Locations)), int64(len(g.samples.Categories))
}

// CountLoginsSince returns the number of audited login attempts at or after
// the given instant. Zero in degraded mode or on store failure.
func (g *Gateway) CountLoginsSince(since time.Time) int64 {
	if g.mode != ModeConnected {
		return 0
	}
	count, err := g.repos.LoginActivity.CountSince(since)
	if err != nil {
		log.Printf("gateway: login count failed: %v", err)
		return 0
	}
	return count
}

// LogLoginActivity appends an audit row, best-effort. It always returns a
// record whose login_status matches the input: when the underlying write is
// rejected (row-level security, outage, degraded mode) the attempt is
// logged locally and an unpersisted record is synthesized so the caller's
// flow is never interrupted by audit bookkeeping.
func (g *Gateway) LogLoginActivity(activity *models.LoginActivity) *models.LoginActivity {
	if activity.AuditID == "" {
		activity.AuditID = uuid.NewString()
	}
	if activity.UserID == "" {
		activity.UserID = models.UNKNOWN_USER_ID
	}

	if g.mode == ModeConnected {
		err := g.repos.LoginActivity.Create(activity)
		if err == nil {
			return activity
		}
		log.Printf("gateway: login activity write rejected, synthesizing record: %v", err)
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	return activity
}

// filterSampleLocations applies the same filter semantics as the remote
// store to the embedded dataset: category equality, case-insensitive
// substring search over name OR description, then offset/limit.
func filterSampleLocations(locations []models.Location, filter repository.LocationFilter) []models.Location {
	matched := make([]models.Location, 0, len(locations))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, location := range locations {
		if filter.CategoryID != "" && location.CategoryID != filter.CategoryID {
			continue
		}
		if filter.PremiumOnly != nil && location.PremiumOnly != *filter.PremiumOnly {
			continue
		}
		if search != "" {
			name := strings.ToLower(location.Name)
			description := strings.ToLower(location.Description)
			if !strings.Contains(name, search) && !strings.Contains(description, search) {
				continue
			}
		}
		matched = append(matched, location)
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []models.Location{}
	}
	matched = matched[offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched
}
