package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 3
const retryDelay = 3 * time.Second

// ErrNotConfigured is returned when no store credentials are present; the
// caller is expected to fall back to the degraded sample dataset.
var ErrNotConfigured = errors.New("database: DB_USER/DB_NAME not configured")

// IsConfigured reports whether remote-store credentials are present.
func IsConfigured() bool {
	return env.GetEnv("DB_USER", "") != "" && env.GetEnv("DB_NAME", "") != ""
}

// Connect opens the MySQL store and migrates the schema. The handle is
// returned for explicit injection; there is no package-level client.
func Connect() (*gorm.DB, error) {
	if !IsConfigured() {
		return nil, ErrNotConfigured
	}

	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,   // data source name
			DefaultStringSize:         256,   // default size for string fields
			DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
		}), &gorm.Config{})
		if err == nil {
			if migrateErr := db.AutoMigrate(
				&models.Category{},
				&models.Location{},
				&models.SubscriptionPlan{},
				&models.UserSubscription{},
				&models.LoginActivity{},
			); migrateErr != nil {
				return nil, migrateErr
			}
			return db, nil
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, err
}
