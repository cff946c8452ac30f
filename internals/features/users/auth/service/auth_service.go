package service

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

	"labtrack_backend/internals/constants"
	userModel "labtrack_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault = 24 * time.Hour
	// masa blacklist minimal bila exp token tidak terbaca
	blacklistFallback = 2 * time.Minute
	blacklistGrace    = 60 * time.Second
)

type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	IsUserActive(ctx context.Context, id uuid.UUID) (bool, error)

	BlacklistToken(ctx context.Context, token string, until time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	CleanupExpiredBlacklist(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	store     Store
	secret    string
	accessTTL time.Duration
	Now       func() time.Time
}

func NewService(store Store, secret string, accessTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = accessTTLDefault
	}
	return &Service{store: store, secret: secret, accessTTL: accessTTL, Now: time.Now}
}

/* ==========================
   Response
========================== */

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName *string   `json:"full_name"`
	Role     string    `json:"role"`
}

func ToUserResponse(u userModel.UserModel) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

/* ==========================
   LOGIN
========================== */

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(s.secret) == "" {
		return nil, fiber.NewError(fiber.StatusInternalServerError, constants.MsgMissingSecret)
	}

	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgBadCredentials)
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgBadCredentials)
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.MsgAccountLocked)
	}

	now := s.Now().UTC()
	exp := now.Add(s.accessTTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(*user, now, exp)).
		SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	zap.L().Info("login", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: ToUserResponse(*user)}, nil
}

func buildAccessClaims(user userModel.UserModel, now, exp time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"typ":   "access",
		"sub":   user.ID.String(),
		"id":    user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if user.FullName != nil {
		claims["full_name"] = *user.FullName
	}
	return claims
}

/* ==========================
   LOGOUT
========================== */

// Logout mem-blacklist token sampai exp-nya lewat (idempotent; token kosong = no-op)
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	until := s.Now().UTC().Add(s.resolveBlacklistTTL(accessToken))
	return s.store.BlacklistToken(ctx, accessToken, until)
}

func (s *Service) resolveBlacklistTTL(accessToken string) time.Duration {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	}); err != nil {
		return blacklistFallback
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return blacklistFallback
	}
	until := time.Unix(int64(exp), 0).Sub(s.Now())
	if until <= 0 {
		return time.Minute
	}
	return until + blacklistGrace
}

/* ==========================
   ME
========================== */

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgLoginRequired)
		}
		return nil, err
	}
	out := ToUserResponse(*user)
	return &out, nil
}

/* ==========================
   CLEANUP
========================== */

// CleanupBlacklist: baris yang sudah expired lebih dari retention dihapus
func (s *Service) CleanupBlacklist(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.CleanupExpiredBlacklist(ctx, s.Now().Add(-retention))
}
