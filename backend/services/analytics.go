package services

import (
	"errors"
	"math"
	"time"

	"habittracker/backend/models"

	"gorm.io/gorm"
)

// WindowStats is the rolling-window summary for one habit: how many of
// the last N days were completed, as a count, a percentage and a per-day
// presence series ordered oldest to newest.
type WindowStats struct {
	WindowDays       int       `json:"window_days"`
	TotalCompletions int       `json:"total_completions"`
	CompletionRate   float64   `json:"completion_rate"`
	Daily            []bool    `json:"daily"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
}

// MaxWindowDays bounds the window size so a single request cannot ask
// for an arbitrarily large per-day series.
const MaxWindowDays = 365

// AnalyticsService derives read-only statistics from the completion
// ledger. It never touches streak or badge state.
type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// HabitWindowStats computes completion stats over the windowDays-day
// window ending on referenceDate, inclusive.
func (a *AnalyticsService) HabitWindowStats(habitID, userID uint, windowDays int, referenceDate time.Time) (*WindowStats, error) {
	if windowDays <= 0 || windowDays > MaxWindowDays {
		return nil, ErrValidation
	}

	var habit models.Habit
	if err := a.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	end := models.DateOf(referenceDate)
	start := end.AddDate(0, 0, -(windowDays - 1))

	var completions []models.HabitCompletion
	err := a.DB.Where("habit_id = ? AND date_completed BETWEEN ? AND ?", habitID, start, end).
		Find(&completions).Error
	if err != nil {
		return nil, err
	}

	daily := make([]bool, windowDays)
	for _, completion := range completions {
		idx := int(models.DateOf(completion.DateCompleted).Sub(start).Hours() / 24)
		if idx >= 0 && idx < windowDays {
			daily[idx] = true
		}
	}

	total := len(completions)
	rate := float64(total) / float64(windowDays) * 100

	return &WindowStats{
		WindowDays:       windowDays,
		TotalCompletions: total,
		CompletionRate:   math.Round(rate*100) / 100,
		Daily:            daily,
		StartDate:        start,
		EndDate:          end,
	}, nil
}
