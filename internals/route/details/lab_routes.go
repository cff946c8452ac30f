package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dictRoute "labtrack_backend/internals/features/dicts/route"
	kitRoute "labtrack_backend/internals/features/kits/route"
	sampleRoute "labtrack_backend/internals/features/samples/route"
	"labtrack_backend/internals/middlewares/auth"
)

// LabRoutes: semua endpoint lab butuh login; mutasi dicek per route (RequireEditor)
//
//	/api/dicts/:resource
//	/api/kits/*
//	/api/samples/*
func LabRoutes(api fiber.Router, db *gorm.DB) {
	authMw := auth.AuthMiddleware(db)

	dictRoute.DictRoutes(api.Group("/dicts", authMw, auth.RequireAuth()), db)
	kitRoute.KitRoutes(api.Group("/kits", authMw, auth.RequireAuth()), db)
	sampleRoute.SampleRoutes(api.Group("/samples", authMw, auth.RequireAuth()), db)
}
