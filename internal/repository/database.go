package repository

import (
	"errors"
	"fmt"
	"os"

	"github.com/halcyonchat/halcyon-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Find* operations when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a uniqueness constraint rejects a write.
var ErrConflict = errors.New("record already exists")

func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.ReadCursor{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
