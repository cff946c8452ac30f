package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"labtrack_backend/internals/constants"
	helper "labtrack_backend/internals/helpers"
)

// nil → storage memory bawaan limiter
var limiterStorage fiber.Storage

// UseLimiterStorage dipanggil sekali di main sebelum route dipasang
func UseLimiterStorage(s fiber.Storage) {
	limiterStorage = s
}

func newLimiter(max int, exp time.Duration, keyPrefix string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: exp,
		KeyGenerator: func(c *fiber.Ctx) string {
			return keyPrefix + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, constants.MsgTooManyRequest)
		},
		Storage: limiterStorage,
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(300, time.Minute, "global:")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "login:")
}
