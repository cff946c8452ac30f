package auth

import (
	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/constants"
	helper "labtrack_backend/internals/helpers"
)

// RoleMiddlewareWithCustomError: role dari Locals("userRole") (diisi AuthMiddleware)
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = constants.MsgForbidden
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}

// RequireAuth: role apa pun yang dikenal (editor / viewer)
func RequireAuth() fiber.Handler {
	return RoleMiddlewareWithCustomError(constants.AllRoles, constants.MsgForbidden)
}

// RequireEditor: mutasi data hanya untuk editor
func RequireEditor() fiber.Handler {
	return RoleMiddlewareWithCustomError(constants.EditorOnly, constants.MsgForbidden)
}
