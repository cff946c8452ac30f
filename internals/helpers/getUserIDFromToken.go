package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"labtrack_backend/internals/constants"
)

// Ambil user_id dari c.Locals("user_id") (diisi AuthMiddleware).
// Return 401 kalau belum login.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgLoginRequired)
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}
		return t, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil || id == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgLoginRequired)
	}
}

// ParseUUIDParam: path param → uuid (error 400 dengan pesan yang diberikan)
func ParseUUIDParam(c *fiber.Ctx, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, message)
	}
	return id, nil
}
