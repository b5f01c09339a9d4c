package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Location is a single curated point of interest. OperatingHours and Images
// are stored as JSON columns; use the typed accessors instead of reading the
// raw strings.
type Location struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Description     string    `gorm:"type:text" json:"description"`
	CategoryID      string    `gorm:"type:varchar(100);not null;index" json:"category_id" validate:"required"`
	Latitude        float64   `gorm:"type:double;not null" json:"latitude" validate:"min=-90,max=90"`
	Longitude       float64   `gorm:"type:double;not null" json:"longitude" validate:"min=-180,max=180"`
	Address         string    `gorm:"type:varchar(255)" json:"address"`
	OperatingHours  string    `gorm:"type:text" json:"-"`
	Instagram       string    `gorm:"type:varchar(100)" json:"instagram,omitempty"`
	Phone           string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Website         string    `gorm:"type:varchar(255)" json:"website,omitempty"`
	TypicalSpending string    `gorm:"type:varchar(100)" json:"typical_spending,omitempty"`
	Images          string    `gorm:"type:text" json:"-"`
	PremiumOnly     bool      `gorm:"default:false;index" json:"premium_only"`
	ViewCount       int64     `gorm:"default:0" json:"view_count"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *Location) Validate() error {
	v := validator.New()

	return v.Struct(l)
}

// GetOperatingHours decodes the weekly hours map (day name -> "HH:MM - HH:MM").
func (l *Location) GetOperatingHours() map[string]string {
	hours := map[string]string{}
	if l.OperatingHours == "" {
		return hours
	}
	if err := json.Unmarshal([]byte(l.OperatingHours), &hours); err != nil {
		return map[string]string{}
	}
	return hours
}

// SetOperatingHours encodes the weekly hours map into the JSON column.
func (l *Location) SetOperatingHours(hours map[string]string) error {
	if hours == nil {
		l.OperatingHours = ""
		return nil
	}
	raw, err := json.Marshal(hours)
	if err != nil {
		return err
	}
	l.OperatingHours = string(raw)
	return nil
}

// GetImages decodes the image URL list stored in the JSON column.
func (l *Location) GetImages() []string {
	if l.Images == "" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(l.Images), &images); err != nil {
		return nil
	}
	return images
}

// SetImages encodes the image URL list into the JSON column.
func (l *Location) SetImages(images []string) error {
	if len(images) == 0 {
		l.Images = ""
		return nil
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}
	l.Images = string(raw)
	return nil
}

// MarshalJSON exposes the decoded hours and images in API responses.
func (l Location) MarshalJSON() ([]byte, error) {
	type Alias Location
	return json.Marshal(struct {
		Alias
		OperatingHours map[string]string `json:"operating_hours"`
		Images         []string          `json:"images"`
	}{
		Alias:          Alias(l),
		OperatingHours: l.GetOperatingHours(),
		Images:         l.GetImages(),
	})
}
