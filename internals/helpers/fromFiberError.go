package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FromFiberError mengubah error dari service (biasanya *fiber.Error)
// menjadi response JSON konsisten via JsonError.
// Jika bukan *fiber.Error, detail hanya di-log dan klien menerima fallback.
func FromFiberError(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("path", c.Path()),
				zap.Int("status", fe.Code),
				zap.String("message", fe.Message),
			)
			return JsonError(c, fe.Code, fallback)
		}
		return JsonError(c, fe.Code, fe.Message)
	}
	zap.L().Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("reqid", c.Locals("reqid")),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, fallback)
}
