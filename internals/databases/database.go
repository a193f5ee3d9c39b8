package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	acsModel "checkride_backend/internals/features/acs/templates/model"
	ledgerModel "checkride_backend/internals/features/evaluation/ledger/model"
	sessionModel "checkride_backend/internals/features/evaluation/sessions/model"
	userModel "checkride_backend/internals/features/users/users/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[INFO] connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=checkride&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // works with PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("[ERROR] DB connect failed: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate runs gorm auto-migration for every table the app owns.
// gen_random_uuid() needs pgcrypto (or PG >= 13 built-in).
func Migrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&acsModel.TemplateModel{},
		&acsModel.AreaModel{},
		&acsModel.TaskModel{},
		&acsModel.ElementModel{},
		&sessionModel.SessionModel{},
		&sessionModel.TaskFeedbackModel{},
		&ledgerModel.SessionElementModel{},
	); err != nil {
		log.Fatalf("[ERROR] auto-migration failed: %v", err)
	}
	log.Println("[INFO] migrations applied.")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
