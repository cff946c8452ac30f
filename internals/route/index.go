package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack_backend/internals/middlewares"
	routeDetails "labtrack_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	log.Info("Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db)

	log.Info("Setting up LabRoutes (dicts, kits, samples)...")
	routeDetails.LabRoutes(api, db)
}
