package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresDB *gorm.DB

// InitPostgres connects to the Supabase Postgres instance. The schema is
// owned by Supabase migrations; nothing is auto-migrated here.
func InitPostgres() error {
	uri := os.Getenv("DATABASE_URL")
	if uri == "" {
		uri = os.Getenv("POSTGRES_URI")
	}
	if uri == "" {
		return errors.New("DATABASE_URL (or POSTGRES_URI) environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	PostgresDB = db
	return nil
}
