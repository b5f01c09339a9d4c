package repository

import (
	"strings"
	"time"

	"github.com/kurasimap/KurasiMap/app/models"
	"gorm.io/gorm"
)

// locationRepository implements the LocationRepository interface
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository instance
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// List returns locations matching the filter, paginated in store order.
func (r *locationRepository) List(filter LocationFilter) ([]models.Location, error) {
	query := r.db.Model(&models.Location{})

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.PremiumOnly != nil {
		query = query.Where("premium_only = ?", *filter.PremiumOnly)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var locations []models.Location
	err := query.Find(&locations).Error
	return locations, err
}

// GetByID retrieves a location by its ID
func (r *locationRepository) GetByID(id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.First(&location, id).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// Create inserts a new location; GORM fills CreatedAt/UpdatedAt.
func (r *locationRepository) Create(location *models.Location) error {
	return r.db.Create(location).Error
}

// Update saves a location and refreshes UpdatedAt.
func (r *locationRepository) Update(location *models.Location) error {
	location.UpdatedAt = time.Now()
	return r.db.Save(location).Error
}

// Delete removes a location by its ID
func (r *locationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Location{}, id).Error
}

// Count returns the total number of locations
func (r *locationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Location{}).Count(&count).Error
	return count, err
}

// AddViews applies a batched view-counter increment.
func (r *locationRepository) AddViews(id uint, views int64) error {
	return r.db.Model(&models.Location{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", views)).Error
}
