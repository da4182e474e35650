package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dashboard_backend/internal/feature/datasets/adapters"
)

// OpenDB opens the datasets database. Postgres is used when DATABASE_URL is
// set; otherwise a local SQLite file (DB_PATH, default "dashboard.db").
func OpenDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")

	var (
		db  *gorm.DB
		err error
	)

	if dsn != "" {
		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "dashboard.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&adapters.DatasetModel{},
			&adapters.ObservationModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
