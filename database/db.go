package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the Postgres connection with pooling and retry. The DSN is the
// DATABASE_URL the hosted Postgres provider hands out.
func Connect(dsn, env string) (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	// GORM logger: verbose in development
	var gormLogger logger.Interface
	if strings.ToLower(env) == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	// Retry connection with exponential backoff
	var db *gorm.DB
	var err error
	backoff := time.Second
	for attempt := 0; attempt < 5; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	DB = db
	return DB, nil
}
