package db

import (
	"log"
	"os"
	"strings"

	"codeask/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the database named by DATABASE_URL and runs migrations.
// postgres:// selects the Postgres driver, sqlite:// the pure-Go SQLite one.
func Init() (*gorm.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "sqlite://codeask.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://codeask.db'")
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		dialector = postgres.Open(dbURL)
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		log.Println("Connecting to SQLite database at", dsn)
	default:
		log.Fatalf("Invalid DATABASE_URL prefix, must start with 'postgres://' or 'sqlite://'")
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Database connection established")

	if err := Migrate(database); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	seedTags(database)
	return database, nil
}

// Migrate runs the schema migration for every entity the core owns.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Bookmark{},
		&models.Notification{},
	)
}

func seedTags(database *gorm.DB) {
	var count int64
	database.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		return
	}

	// Starter vocabulary so the tag autocomplete is not empty on first boot.
	for _, name := range []string{"go", "python", "javascript", "databases", "devops"} {
		if err := database.Create(&models.Tag{Name: name}).Error; err != nil {
			log.Printf("Failed to seed tag %s: %v", name, err)
		}
	}
	log.Println("Initial tags created")
}
