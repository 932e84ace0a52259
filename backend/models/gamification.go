package models

import (
	"time"

	"gorm.io/gorm"
)

// Badge criteria types. Each badge row carries one of these plus a
// threshold value; the evaluator never branches on badge names.
const (
	CriteriaTotalCompletions = "total_completions"
	CriteriaCurrentStreak    = "current_streak"
)

type Badge struct {
	gorm.Model
	Name          string `gorm:"unique;not null" json:"name"`
	Description   string `json:"description"`
	CriteriaType  string `gorm:"not null" json:"criteria_type"`
	CriteriaValue int    `gorm:"not null" json:"criteria_value"`
}

type UserBadge struct {
	gorm.Model
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge     Badge     `json:"badge"`
	AwardedAt time.Time `json:"awarded_at"`
}

// CalendarEvent is an outbox row for the external calendar collaborator.
// Rows are written fire-and-forget after a completion commits; the sync
// worker that drains them lives outside this service.
type CalendarEvent struct {
	gorm.Model
	EventID string `gorm:"unique;not null" json:"event_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	HabitID uint   `json:"habit_id"`
	Summary string `json:"summary"`
	Status  string `gorm:"default:pending" json:"status"`
}
