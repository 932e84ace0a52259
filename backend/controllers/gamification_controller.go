package controllers

import (
	"habittracker/backend/config"
	"habittracker/backend/models"
	"habittracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GamificationController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewGamificationController(db *gorm.DB, cfg *config.Config) *GamificationController {
	return &GamificationController{DB: db, Cfg: cfg}
}

// GetBadges godoc
// @Summary List badges
// @Description Returns all badge definitions
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /gamification/badges [get]
func (gc *GamificationController) GetBadges(c *fiber.Ctx) error {
	var badges []models.Badge
	if err := gc.DB.Find(&badges).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"badges": badges})
}

// GetUserBadges godoc
// @Summary List earned badges
// @Description Returns badges awarded to the authenticated user
// @Tags gamification
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/user_badges [get]
func (gc *GamificationController) GetUserBadges(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var userBadges []models.UserBadge
	if err := gc.DB.Preload("Badge").Where("user_id = ?", userID).Find(&userBadges).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"user_badges": userBadges})
}
