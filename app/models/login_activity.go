package models

import "time"

const (
	LOGIN_STATUS_SUCCESS = "success"
	LOGIN_STATUS_FAILED  = "failed"

	// UNKNOWN_USER_ID is recorded for failed attempts where no identity was
	// resolved before the failure.
	UNKNOWN_USER_ID = "unknown"
)

// LoginActivity is an append-only audit record. Rows are never updated or
// deleted by the application.
type LoginActivity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AuditID       string    `gorm:"type:varchar(36);index" json:"audit_id"`
	UserID        string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Email         string    `gorm:"type:varchar(200)" json:"email"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent     string    `gorm:"type:varchar(255)" json:"user_agent"`
	LoginStatus   string    `gorm:"type:varchar(20);not null" json:"login_status"`
	LoginLocation string    `gorm:"type:varchar(100)" json:"login_location,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
