package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"habittracker/backend/config"
	"habittracker/backend/models"
	"habittracker/backend/services"
	"habittracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *services.AnalyticsService
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{
		DB:      db,
		Cfg:     cfg,
		Service: services.NewAnalyticsService(db),
	}
}

// GetHabitAnalytics возвращает статистику привычки за скользящее окно
// @Summary Habit window analytics
// @Description Completion count and rate over the trailing N-day window
// @Tags analytics
// @Produce json
// @Param id path int true "Habit ID"
// @Param days query int false "Window size in days (default 30)"
// @Param date query string false "Reference date YYYY-MM-DD (default today)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id}/analytics [get]
func (ac *AnalyticsController) GetHabitAnalytics(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid habit ID")
	}

	windowDays := 30
	if raw := c.Query("days"); raw != "" {
		windowDays, err = strconv.Atoi(raw)
		if err != nil {
			return utils.BadRequest(c, "Invalid days parameter")
		}
	}

	referenceDate := models.Today()
	if raw := c.Query("date"); raw != "" {
		referenceDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		}
	}

	stats, err := ac.Service.HabitWindowStats(uint(habitID), userID, windowDays, referenceDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.NotFound(c, "Habit not found")
		case errors.Is(err, services.ErrValidation):
			return utils.ValidationError(c, map[string]string{
				"days": fmt.Sprintf("Window must be between 1 and %d days", services.MaxWindowDays),
			})
		default:
			return utils.InternalServerError(c, "Could not compute analytics")
		}
	}

	var habit models.Habit
	if err := ac.DB.First(&habit, habitID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"habit":     habit,
		"analytics": stats,
	})
}
