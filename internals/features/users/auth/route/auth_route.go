package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"labtrack_backend/internals/configs"
	"labtrack_backend/internals/features/users/auth/controller"
	"labtrack_backend/internals/features/users/auth/repository"
	"labtrack_backend/internals/features/users/auth/service"
	"labtrack_backend/internals/middlewares"
	"labtrack_backend/internals/middlewares/auth"
)

// Base: /api/auth
//
//	POST /login   (publik, rate limited)
//	POST /logout  (auth)
//	GET  /me      (auth)
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	svc := service.NewService(repository.NewAuthRepository(db), configs.JWTSecret, configs.Cfg.JWTTTL())
	ctl := controller.NewAuthController(svc)

	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)

	protected := r.Group("", auth.AuthMiddleware(db), auth.RequireAuth())
	protected.Post("/logout", ctl.Logout)
	protected.Get("/me", ctl.Me)
}
