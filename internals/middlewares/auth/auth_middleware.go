package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack_backend/internals/configs"
	"labtrack_backend/internals/constants"
	authRepo "labtrack_backend/internals/features/users/auth/repository"
	helper "labtrack_backend/internals/helpers"
)

const expirySkew = 30 * time.Second

// TokenStore: cek blacklist & status user per request
type TokenStore interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	IsUserActive(ctx context.Context, id uuid.UUID) (bool, error)
}

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return Middleware(authRepo.NewAuthRepository(db))
}

// Middleware: token (header/cookie) → verifikasi HS256 → exp → blacklist → user aktif.
// Locals: user_id (string), userRole, user_email, raw_token.
func Middleware(store TokenStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := zap.L().With(zap.String("path", c.Path()))

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}

		secretKey := strings.TrimSpace(configs.JWTSecret)
		if secretKey == "" {
			log.Error("JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, constants.MsgMissingSecret)
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Debug("token parse error", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}

		if err := validateTokenExpiry(claims, expirySkew); err != nil {
			log.Debug("token expired", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}

		ctx := c.UserContext()
		blacklisted, err := store.IsBlacklisted(ctx, tokenString)
		if err != nil {
			log.Error("blacklist check failed", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, constants.MsgGenericError)
		}
		if blacklisted {
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}

		userID, err := extractUserID(claims)
		if err != nil {
			log.Debug("invalid user id claim", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}

		active, err := store.IsUserActive(ctx, userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusUnauthorized, constants.MsgLoginRequired)
		case err != nil:
			log.Error("user lookup failed", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, constants.MsgGenericError)
		case !active:
			return helper.JsonError(c, fiber.StatusForbidden, constants.MsgAccountLocked)
		}

		c.Locals("user_id", userID.String())
		storeBasicClaimsToLocals(c, claims)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}
