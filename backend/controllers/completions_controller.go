package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"habittracker/backend/config"
	"habittracker/backend/models"
	"habittracker/backend/services"
	"habittracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompletionsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *services.CompletionService
}

func NewCompletionsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *CompletionsController {
	return &CompletionsController{
		DB:      db,
		Cfg:     cfg,
		Service: services.NewCompletionService(db, logger),
	}
}

type CompletionInput struct {
	HabitID       uint   `json:"habit_id"`
	DateCompleted string `json:"date_completed"`
}

// GetCompletions godoc
// @Summary List completions
// @Description Returns all habit completions for the authenticated user
// @Tags completions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /completions [get]
func (cc *CompletionsController) GetCompletions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var completions []models.HabitCompletion
	if err := cc.DB.Where("user_id = ?", userID).Order("date_completed").Find(&completions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"completions": completions})
}

// CreateCompletion godoc
// @Summary Record completion
// @Description Marks a habit completed for a date (today when omitted)
// @Tags completions
// @Accept json
// @Produce json
// @Param completion body CompletionInput true "Completion data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /completions [post]
func (cc *CompletionsController) CreateCompletion(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CompletionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.HabitID == 0 {
		return utils.BadRequest(c, "habit_id is required")
	}

	var day *time.Time
	if input.DateCompleted != "" {
		parsed, err := time.Parse("2006-01-02", input.DateCompleted)
		if err != nil {
			return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		}
		day = &parsed
	}

	completion, err := cc.Service.RecordCompletion(input.HabitID, userID, day)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return utils.NotFound(c, "Habit not found")
		case errors.Is(err, services.ErrDuplicateCompletion):
			return utils.Conflict(c, "Habit already marked as completed for this date")
		case errors.Is(err, services.ErrInvalidDate):
			return utils.BadRequest(c, "Completion date must not be in the future or before the last completion")
		default:
			return utils.InternalServerError(c, "Could not record completion")
		}
	}

	return utils.Created(c, fiber.Map{"completion": completion})
}

// GetCompletion godoc
// @Summary Get completion
// @Description Returns a single completion owned by the authenticated user
// @Tags completions
// @Produce json
// @Param id path int true "Completion ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /completions/{id} [get]
func (cc *CompletionsController) GetCompletion(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	completionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid completion ID")
	}

	var completion models.HabitCompletion
	if err := cc.DB.Where("id = ? AND user_id = ?", completionID, userID).First(&completion).Error; err != nil {
		return utils.NotFound(c, "Completion not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"completion": completion})
}

// DeleteCompletion godoc
// @Summary Delete completion
// @Description Removes a completion; streaks are not recomputed
// @Tags completions
// @Produce json
// @Param id path int true "Completion ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /completions/{id} [delete]
func (cc *CompletionsController) DeleteCompletion(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	completionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid completion ID")
	}

	if err := cc.Service.DeleteCompletion(uint(completionID), userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFound(c, "Completion not found")
		}
		return utils.InternalServerError(c, "Could not delete completion")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Completion deleted successfully"})
}
