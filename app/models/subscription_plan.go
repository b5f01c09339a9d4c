package models

import "encoding/json"

const (
	PLAN_FREE    = "free"
	PLAN_PREMIUM = "premium"
)

// SubscriptionPlan is immutable reference data describing a purchasable tier.
type SubscriptionPlan struct {
	ID          string  `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:double;not null;default:0" json:"price"`
	Features    string  `gorm:"type:text" json:"-"`
}

// GetFeatures decodes the ordered feature list stored in the JSON column.
func (p *SubscriptionPlan) GetFeatures() []string {
	if p.Features == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return nil
	}
	return features
}

// SetFeatures encodes the ordered feature list into the JSON column.
func (p *SubscriptionPlan) SetFeatures(features []string) error {
	if len(features) == 0 {
		p.Features = ""
		return nil
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.Features = string(raw)
	return nil
}

// MarshalJSON exposes the decoded feature list in API responses.
func (p SubscriptionPlan) MarshalJSON() ([]byte, error) {
	type Alias SubscriptionPlan
	return json.Marshal(struct {
		Alias
		Features []string `json:"features"`
	}{
		Alias:    Alias(p),
		Features: p.GetFeatures(),
	})
}
