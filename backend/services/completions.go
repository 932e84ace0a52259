package services

import (
	"errors"
	"log"
	"time"

	"habittracker/backend/models"

	"gorm.io/gorm"
)

// CompletionService is the completion ledger. Recording a completion is a
// single transaction covering the uniqueness check, the insert and the
// streak update; the unique (habit_id, date_completed) index decides the
// winner when two requests race on the same day.
type CompletionService struct {
	DB           *gorm.DB
	Log          *log.Logger
	Gamification *GamificationService
	Calendar     *CalendarService
}

func NewCompletionService(db *gorm.DB, logger *log.Logger) *CompletionService {
	return &CompletionService{
		DB:           db,
		Log:          logger,
		Gamification: NewGamificationService(db),
		Calendar:     NewCalendarService(db, logger),
	}
}

// RecordCompletion marks habitID done on the given day for userID. A nil
// day means today. Future days and days earlier than the habit's last
// completion are rejected with ErrInvalidDate before anything is written.
func (s *CompletionService) RecordCompletion(habitID, userID uint, day *time.Time) (*models.HabitCompletion, error) {
	date := models.Today()
	if day != nil {
		date = models.DateOf(*day)
	}
	if date.After(models.Today()) {
		return nil, ErrInvalidDate
	}

	var completion models.HabitCompletion
	var habit models.Habit

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if habit.LastCompleted != nil && date.Before(*habit.LastCompleted) {
			return ErrInvalidDate
		}

		var existing int64
		if err := tx.Model(&models.HabitCompletion{}).
			Where("habit_id = ? AND date_completed = ?", habitID, date).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateCompletion
		}

		completion = models.HabitCompletion{
			HabitID:       habit.ID,
			UserID:        userID,
			DateCompleted: date,
		}
		if err := tx.Create(&completion).Error; err != nil {
			// a concurrent request won the unique index race
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCompletion
			}
			return err
		}

		habit.ApplyCompletion(date)
		return tx.Save(&habit).Error
	})
	if err != nil {
		return nil, err
	}

	// Secondary effects run outside the transaction. A failure here is
	// logged and never undoes the recorded completion.
	if err := s.Gamification.EvaluateAndAward(userID, &habit); err != nil {
		s.Log.Printf("badge evaluation failed for user %d habit %d: %v", userID, habit.ID, err)
	}
	s.Calendar.HabitCompleted(userID, &habit)

	return &completion, nil
}

// DeleteCompletion removes a completion the user owns. Streak counters are
// not recomputed; the streak is a forward-only counter, not an aggregate
// derived from history.
func (s *CompletionService) DeleteCompletion(completionID, userID uint) error {
	var completion models.HabitCompletion
	err := s.DB.Where("id = ? AND user_id = ?", completionID, userID).First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// hard delete: a soft-deleted row would still hold the unique
	// (habit_id, date_completed) slot and block re-completing the day
	return s.DB.Unscoped().Delete(&completion).Error
}
