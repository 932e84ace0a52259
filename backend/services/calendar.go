package services

import (
	"log"

	"habittracker/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarService queues calendar events for the external calendar
// collaborator. Events are written after the completion transaction has
// committed; a failed write is logged and never affects the completion.
type CalendarService struct {
	DB  *gorm.DB
	Log *log.Logger
}

func NewCalendarService(db *gorm.DB, logger *log.Logger) *CalendarService {
	return &CalendarService{DB: db, Log: logger}
}

// HabitCompleted queues a "completed" event for the habit.
func (cs *CalendarService) HabitCompleted(userID uint, habit *models.Habit) {
	event := models.CalendarEvent{
		EventID: uuid.NewString(),
		UserID:  userID,
		HabitID: habit.ID,
		Summary: habit.Name + " - Completed",
		Status:  "pending",
	}
	if err := cs.DB.Create(&event).Error; err != nil {
		cs.Log.Printf("calendar event for habit %d not queued: %v", habit.ID, err)
	}
}
