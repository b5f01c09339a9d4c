package repository

import (
	"github.com/kurasimap/KurasiMap/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetPlans returns all subscription plans in store order.
func (r *subscriptionRepository) GetPlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Find(&plans).Error
	return plans, err
}

// GetPlanByID retrieves a single plan by its id
func (r *subscriptionRepository) GetPlanByID(id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetActiveByUserID returns the user's active subscription, or
// gorm.ErrRecordNotFound when the user is on the implicit free plan.
func (r *subscriptionRepository) GetActiveByUserID(userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
