package models

import (
	"github.com/go-playground/validator/v10"
)

// Category groups locations on the map. The ID is a stable slug ("cafes",
// "restaurants") referenced by Location.CategoryID and by the free-category
// allow-list.
type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(100)" json:"id" validate:"required,min=2,max=100"`
	Name        string `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"type:varchar(100)" json:"icon"`
	PremiumOnly bool   `gorm:"default:false" json:"premium_only"`
}

func (c *Category) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
