// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/constants"
)

/* ===============================
   Error helpers (standard shape)
=================================*/

// Semua error ke klien: {"error": "<pesan>"}
type ErrorResponse struct {
	Error string `json:"error"`
}

// JsonError: error generic. Pesan kosong → pesan generik.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = constants.MsgGenericError
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// JsonValidationError: khusus error validasi (422), hanya pelanggaran pertama.
func JsonValidationError(c *fiber.Ctx, message string) error {
	if strings.TrimSpace(message) == "" {
		message = constants.MsgInvalidInput
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: message})
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonOK: {"data": ...}
func JsonOK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": data,
	})
}

// JsonCreated: {"data": ...} dengan 201
func JsonCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": data,
	})
}

// JsonList: list + pagination
func JsonList(c *fiber.Ctx, data any, pagination Pagination) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":       data,
		"pagination": pagination,
	})
}

// JsonWithCount: list tanpa paging tapi dengan jumlah item
func JsonWithCount(c *fiber.Ctx, data any, count int) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  data,
		"count": count,
	})
}
