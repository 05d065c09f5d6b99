package routes

import (
	"codetrack/backend/activity"
	"codetrack/backend/config"
	"codetrack/backend/controllers"
	"codetrack/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *activity.Service) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, svc)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/platforms", authMiddleware, userController.ListPlatforms)
	app.Put("/api/user/platforms", authMiddleware, userController.LinkPlatform)
	app.Delete("/api/user/platforms/:platform", authMiddleware, userController.UnlinkPlatform)

	// Activity routes
	activityController := controllers.NewActivityController(db, cfg, svc)
	act := app.Group("/api/activity", authMiddleware)
	act.Get("/heatmap", activityController.GetHeatmap)
	act.Get("/streak", activityController.GetStreak)
	act.Get("/solved", activityController.GetTotalSolved)
	act.Post("/refresh", activityController.Refresh)

	// Submission intake
	app.Post("/api/submissions", authMiddleware, activityController.RecordSubmission)

	// Admin routes
	app.Post("/api/admin/users/:id/refresh", authMiddleware, adminMiddleware, activityController.RefreshUser)
}
