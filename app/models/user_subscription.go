package models

import "time"

// UserSubscription links an identity-provider user id to a plan. A user
// without an active row is on the free plan.
type UserSubscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(64);not null;index" json:"user_id"`
	PlanID    string     `gorm:"type:varchar(50);not null;index" json:"plan_id"`
	StartDate time.Time  `gorm:"autoCreateTime" json:"start_date"`
	EndDate   *time.Time `gorm:"type:timestamp;default:null" json:"end_date,omitempty"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
}
