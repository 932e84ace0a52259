package models

import (
	"time"

	"gorm.io/gorm"
)

type Habit struct {
	gorm.Model
	UserID        uint   `gorm:"index;not null" json:"user_id"`
	Name          string `gorm:"not null" json:"name"`
	CurrentStreak int    `gorm:"default:0" json:"current_streak"`
	LongestStreak int    `gorm:"default:0" json:"longest_streak"`
	LastCompleted *time.Time        `json:"last_completed"`
	Completions   []HabitCompletion `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type HabitCompletion struct {
	gorm.Model
	HabitID       uint      `gorm:"not null;uniqueIndex:idx_habit_completion_date" json:"habit_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	DateCompleted time.Time `gorm:"type:date;not null;uniqueIndex:idx_habit_completion_date" json:"date_completed"`
}

// Today returns the current UTC calendar date at midnight. All completion
// dates are normalized to this form so date comparisons stay exact.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyCompletion advances the habit's streak counters for a completion on
// the given day. Days must be normalized via DateOf. A completion for the
// same day as LastCompleted is a no-op; the ledger rejects those before
// this runs.
func (h *Habit) ApplyCompletion(day time.Time) {
	if h.LastCompleted == nil {
		h.CurrentStreak = 1
	} else {
		delta := int(day.Sub(*h.LastCompleted).Hours() / 24)
		switch {
		case delta == 0:
			return
		case delta == 1:
			h.CurrentStreak++
		default:
			// gap of two or more days breaks the streak
			h.CurrentStreak = 1
		}
	}

	if h.CurrentStreak > h.LongestStreak {
		h.LongestStreak = h.CurrentStreak
	}
	h.LastCompleted = &day
}
