package routes

import (
	"log"

	"habittracker/backend/config"
	"habittracker/backend/controllers"
	"habittracker/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)

	// Habit routes
	habitsController := controllers.NewHabitsController(db, cfg)
	habits := app.Group("/api/habits", authMiddleware)
	habits.Get("/", habitsController.GetHabits)
	habits.Post("/", habitsController.CreateHabit)
	habits.Get("/:id", habitsController.GetHabit)
	habits.Put("/:id", habitsController.UpdateHabit)
	habits.Delete("/:id", habitsController.DeleteHabit)

	// Completion routes
	completionsController := controllers.NewCompletionsController(db, cfg, logger)
	completions := app.Group("/api/completions", authMiddleware)
	completions.Get("/", completionsController.GetCompletions)
	completions.Post("/", completionsController.CreateCompletion)
	completions.Get("/:id", completionsController.GetCompletion)
	completions.Delete("/:id", completionsController.DeleteCompletion)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	habits.Get("/:id/analytics", analyticsController.GetHabitAnalytics)

	// Gamification routes
	gamificationController := controllers.NewGamificationController(db, cfg)
	app.Get("/api/gamification/badges", gamificationController.GetBadges)
	app.Get("/api/gamification/user_badges", authMiddleware, gamificationController.GetUserBadges)
}
