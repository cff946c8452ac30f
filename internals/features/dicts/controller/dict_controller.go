package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/features/dicts/service"
	helper "labtrack_backend/internals/helpers"
)

type DictController struct {
	Svc *service.Service
}

func NewDictController(svc *service.Service) *DictController {
	return &DictController{Svc: svc}
}

// GET /api/dicts/:resource?search=&active=
// active default true; active=false → semua baris
func (h *DictController) List(c *fiber.Ctx) error {
	resource := strings.ToLower(strings.TrimSpace(c.Params("resource")))

	q := service.Query{
		ActiveOnly: !strings.EqualFold(strings.TrimSpace(c.Query("active")), "false"),
		Search:     c.Query("search"),
	}

	rows, err := h.Svc.List(c.UserContext(), resource, q)
	if err != nil {
		return helper.FromFiberError(c, err, service.FailMessage(resource))
	}
	return helper.JsonOK(c, rows)
}
