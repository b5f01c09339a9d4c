package repository

import (
	"time"

	"github.com/kurasimap/KurasiMap/app/models"
	"gorm.io/gorm"
)

// loginActivityRepository implements the LoginActivityRepository interface
type loginActivityRepository struct {
	db *gorm.DB
}

// NewLoginActivityRepository creates a new login activity repository instance
func NewLoginActivityRepository(db *gorm.DB) LoginActivityRepository {
	return &loginActivityRepository{db: db}
}

// Create appends an audit row.
func (r *loginActivityRepository) Create(activity *models.LoginActivity) error {
	return r.db.Create(activity).Error
}

// CountSince counts login attempts recorded at or after the given instant.
func (r *loginActivityRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.LoginActivity{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
