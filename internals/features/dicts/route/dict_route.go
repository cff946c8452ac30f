package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labtrack_backend/internals/features/dicts/controller"
	"labtrack_backend/internals/features/dicts/repository"
	"labtrack_backend/internals/features/dicts/service"
)

// Panggil dengan: DictRoutes(api.Group("/dicts", authGuard), db)
// Hasil endpoint: GET /api/dicts/:resource
func DictRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDictController(service.New(repository.NewDictRepository(db)))
	r.Get("/:resource", ctl.List)
}
