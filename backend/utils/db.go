package utils

import (
	"errors"
	"fmt"

	"habittracker/backend/config"
	"habittracker/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection, runs migrations and seeds the
// badge reference data. TranslateError is required so unique index
// violations surface as gorm.ErrDuplicatedKey.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and seeds badges. Split out so tests can run
// it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.Habit{},
		&models.HabitCompletion{},
		&models.Badge{},
		&models.UserBadge{},
		&models.CalendarEvent{},
	)
	if err != nil {
		return err
	}

	return SeedBadges(db)
}

// SeedBadges inserts the built-in badge rows. New badges are added here as
// rows; the evaluator picks them up without code changes.
func SeedBadges(db *gorm.DB) error {
	badges := []models.Badge{
		{Name: "Beginner", Description: "Complete a habit 5 times", CriteriaType: models.CriteriaTotalCompletions, CriteriaValue: 5},
		{Name: "Consistency", Description: "Keep a 7-day streak going", CriteriaType: models.CriteriaCurrentStreak, CriteriaValue: 7},
		{Name: "Pro", Description: "Complete a habit 30 times", CriteriaType: models.CriteriaTotalCompletions, CriteriaValue: 30},
	}

	for _, badge := range badges {
		var existing models.Badge
		err := db.Where("name = ?", badge.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
	}

	return nil
}
