package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labtrack_backend/internals/features/kits/controller"
	"labtrack_backend/internals/features/kits/repository"
	"labtrack_backend/internals/features/kits/service"
	"labtrack_backend/internals/middlewares/auth"
)

// Panggil dengan: KitRoutes(api.Group("/kits", authMw, auth.RequireAuth()), db)
// Hasil endpoint:
//
//	GET  /api/kits/availability
//	POST /api/kits/bulk-create  (editor)
//	POST /api/kits/bulk-adjust  (editor)
func KitRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewKitController(service.NewLedger(repository.NewKitRepository(db)))

	r.Get("/availability", ctl.Availability)
	r.Post("/bulk-create", auth.RequireEditor(), ctl.BulkCreate)
	r.Post("/bulk-adjust", auth.RequireEditor(), ctl.BulkAdjust)
}
