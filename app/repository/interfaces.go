package repository

import (
	"time"

	"github.com/kurasimap/KurasiMap/app/models"
	"gorm.io/gorm"
)

// LocationFilter narrows List queries. Zero values mean "no filter"; Limit
// and Offset are applied after filtering, in store order.
type LocationFilter struct {
	CategoryID  string
	Search      string
	PremiumOnly *bool
	Limit       int
	Offset      int
}

// CategoryRepository defines category lookups against the remote store.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Count() (int64, error)
}

// LocationRepository defines location reads and admin writes.
type LocationRepository interface {
	List(filter LocationFilter) ([]models.Location, error)
	GetByID(id uint) (*models.Location, error)
	Create(location *models.Location) error
	Update(location *models.Location) error
	Delete(id uint) error
	Count() (int64, error)
	AddViews(id uint, views int64) error
}

// SubscriptionRepository covers plan reference data and per-user subscriptions.
type SubscriptionRepository interface {
	GetPlans() ([]models.SubscriptionPlan, error)
	GetPlanByID(id string) (*models.SubscriptionPlan, error)
	GetActiveByUserID(userID string) (*models.UserSubscription, error)
}

// LoginActivityRepository appends audit rows. There is deliberately no
// update or delete.
type LoginActivityRepository interface {
	Create(activity *models.LoginActivity) error
	CountSince(since time.Time) (int64, error)
}

// Repositories bundles all repository instances for injection.
type Repositories struct {
	Category      CategoryRepository
	Location      LocationRepository
	Subscription  SubscriptionRepository
	LoginActivity LoginActivityRepository
}

// NewRepositories creates all repositories over one GORM handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Category:      NewCategoryRepository(db),
		Location:      NewLocationRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		LoginActivity: NewLoginActivityRepository(db),
	}
}
