package services

import (
	"errors"
	"time"

	"habittracker/backend/models"

	"gorm.io/gorm"
)

// GamificationService evaluates the badge table against a user's
// completion history. Badges are rows with a criteria type and threshold;
// adding a badge is an insert, not a code change.
type GamificationService struct {
	DB *gorm.DB
}

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{DB: db}
}

// EvaluateAndAward checks every badge rule for the user and issues the
// ones newly earned. Idempotent: already-held badges are skipped, and the
// unique (user_id, badge_id) index catches any race on the insert.
func (g *GamificationService) EvaluateAndAward(userID uint, habit *models.Habit) error {
	var badges []models.Badge
	if err := g.DB.Find(&badges).Error; err != nil {
		return err
	}

	for _, badge := range badges {
		var held int64
		if err := g.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", userID, badge.ID).
			Count(&held).Error; err != nil {
			return err
		}
		if held > 0 {
			continue
		}

		qualified, err := g.qualifies(userID, habit, badge)
		if err != nil {
			return err
		}
		if !qualified {
			continue
		}

		userBadge := models.UserBadge{
			UserID:    userID,
			BadgeID:   badge.ID,
			AwardedAt: time.Now().UTC(),
		}
		if err := g.DB.Create(&userBadge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}

	return nil
}

func (g *GamificationService) qualifies(userID uint, habit *models.Habit, badge models.Badge) (bool, error) {
	switch badge.CriteriaType {
	case models.CriteriaTotalCompletions:
		var count int64
		err := g.DB.Model(&models.HabitCompletion{}).
			Where("habit_id = ? AND user_id = ?", habit.ID, userID).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		return count >= int64(badge.CriteriaValue), nil
	case models.CriteriaCurrentStreak:
		return habit.CurrentStreak >= badge.CriteriaValue, nil
	default:
		// unknown criteria rows are ignored rather than failing the run
		return false, nil
	}
}
