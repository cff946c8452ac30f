package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"labtrack_backend/internals/constants"
	"labtrack_backend/internals/features/kits/dto"
	"labtrack_backend/internals/features/kits/service"
	helper "labtrack_backend/internals/helpers"
)

type KitController struct {
	Ledger *service.Ledger
}

func NewKitController(ledger *service.Ledger) *KitController {
	return &KitController{Ledger: ledger}
}

// =========================================================
// GET /api/kits/availability?kit_type_id=
// =========================================================
func (h *KitController) Availability(c *fiber.Ctx) error {
	var kitTypeID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("kit_type_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, dto.BulkAdjustMessages["kit_type_id"])
		}
		kitTypeID = &id
	}

	items, err := h.Ledger.Availability(c.UserContext(), kitTypeID)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, items)
}

// =========================================================
// POST /api/kits/bulk-create (editor)
// =========================================================
func (h *KitController) BulkCreate(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	var req dto.BulkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Normalize()
	if msg := helper.ValidateStruct(&req, dto.BulkCreateMessages); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	res, err := h.Ledger.BulkCreate(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonCreated(c, res)
}

// =========================================================
// POST /api/kits/bulk-adjust (editor)
// =========================================================
func (h *KitController) BulkAdjust(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	var req dto.BulkAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Normalize()
	if msg := helper.ValidateStruct(&req, dto.BulkAdjustMessages); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	res, err := h.Ledger.BulkAdjust(c.UserContext(), actor, uuid.MustParse(req.KitTypeID), *req.Delta, req.Reason)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, res)
}
