package controllers

import (
	"errors"
	"strconv"
	"strings"

	"habittracker/backend/config"
	"habittracker/backend/models"
	"habittracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HabitsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHabitsController(db *gorm.DB, cfg *config.Config) *HabitsController {
	return &HabitsController{DB: db, Cfg: cfg}
}

type HabitInput struct {
	Name string `json:"name"`
}

// GetHabits godoc
// @Summary List habits
// @Description Returns all habits for the authenticated user
// @Tags habits
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [get]
func (hc *HabitsController) GetHabits(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var habits []models.Habit
	if err := hc.DB.Where("user_id = ?", userID).Order("created_at").Find(&habits).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"habits": habits})
}

// CreateHabit godoc
// @Summary Create habit
// @Description Creates a new habit for the authenticated user
// @Tags habits
// @Accept json
// @Produce json
// @Param habit body HabitInput true "Habit data"
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits [post]
func (hc *HabitsController) CreateHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input HabitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Name) == "" {
		return utils.ValidationError(c, map[string]string{"name": "Habit name is required"})
	}

	habit := models.Habit{
		UserID: userID,
		Name:   strings.TrimSpace(input.Name),
	}
	if err := hc.DB.Create(&habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not create habit")
	}

	return utils.Created(c, fiber.Map{"habit": habit})
}

// GetHabit godoc
// @Summary Get habit
// @Description Returns a single habit owned by the authenticated user
// @Tags habits
// @Produce json
// @Param id path int true "Habit ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [get]
func (hc *HabitsController) GetHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid habit ID")
	}

	var habit models.Habit
	if err := hc.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"habit": habit})
}

// UpdateHabit godoc
// @Summary Update habit
// @Description Renames a habit; streak fields are owned by the ledger
// @Tags habits
// @Accept json
// @Produce json
// @Param id path int true "Habit ID"
// @Param habit body HabitInput true "Habit data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [put]
func (hc *HabitsController) UpdateHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid habit ID")
	}

	var habit models.Habit
	if err := hc.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return utils.NotFound(c, "Habit not found")
	}

	var input HabitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Name) == "" {
		return utils.ValidationError(c, map[string]string{"name": "Habit name is required"})
	}

	habit.Name = strings.TrimSpace(input.Name)
	if err := hc.DB.Save(&habit).Error; err != nil {
		return utils.InternalServerError(c, "Could not update habit")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"habit": habit})
}

// DeleteHabit godoc
// @Summary Delete habit
// @Description Deletes a habit and all of its completions
// @Tags habits
// @Produce json
// @Param id path int true "Habit ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{id} [delete]
func (hc *HabitsController) DeleteHabit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, hc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habitID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid habit ID")
	}

	var habit models.Habit
	if err := hc.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Habit not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	err = hc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("habit_id = ?", habit.ID).Delete(&models.HabitCompletion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&habit).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete habit")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Habit deleted successfully"})
}
