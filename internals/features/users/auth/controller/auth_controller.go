package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/configs"
	"labtrack_backend/internals/constants"
	"labtrack_backend/internals/features/users/auth/service"
	helper "labtrack_backend/internals/helpers"
)

type AuthController struct {
	Svc *service.Service
}

func NewAuthController(svc *service.Service) *AuthController {
	return &AuthController{Svc: svc}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var LoginMessages = map[string]string{
	"email":    "Email không hợp lệ",
	"password": "Mật khẩu không được để trống",
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Email = strings.TrimSpace(req.Email)
	if msg := helper.ValidateStruct(&req, LoginMessages); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	res, err := ac.Svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c)); err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	setAccessCookie(c, "", time.Now().Add(-time.Hour))
	return helper.JsonOK(c, fiber.Map{"logged_out": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	me, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, me)
}

func setAccessCookie(c *fiber.Ctx, token string, expires time.Time) {
	cookie := &fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   configs.Cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  expires,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.Cookie(cookie)
}
