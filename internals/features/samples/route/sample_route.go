package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labtrack_backend/internals/features/samples/controller"
	"labtrack_backend/internals/features/samples/repository"
	"labtrack_backend/internals/features/samples/service"
	"labtrack_backend/internals/middlewares/auth"
)

// Panggil dengan: SampleRoutes(api.Group("/samples", authMw, auth.RequireAuth()), db)
// Route statis didaftarkan sebelum /:id.
func SampleRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSampleController(service.NewService(repository.NewSampleRepository(db)))

	r.Get("/next-code", ctl.NextCode)
	r.Get("/export", ctl.Export)
	r.Get("/", ctl.List)
	r.Post("/", auth.RequireEditor(), ctl.Create)

	r.Get("/:id", ctl.Get)
	r.Patch("/:id", auth.RequireEditor(), ctl.Update)
	r.Patch("/:id/results", auth.RequireEditor(), ctl.ReplaceResults)
	r.Get("/:id/report-message", ctl.ReportMessage)
}
