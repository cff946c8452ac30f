package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "labtrack_backend/internals/features/users/auth/model"
	"labtrack_backend/internals/features/users/auth/service"
	userModel "labtrack_backend/internals/features/users/user/model"
)

type AuthRepository struct {
	DB *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{DB: db}
}

var _ service.Store = (*AuthRepository)(nil)

/* ====================== USER ====================== */

func (r *AuthRepository) FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsUserActive: (false, gorm.ErrRecordNotFound) bila user tidak ada
func (r *AuthRepository) IsUserActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var row struct{ IsActive bool }
	err := r.DB.WithContext(ctx).
		Table("users").
		Select("is_active").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return false, err
	}
	return row.IsActive, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempotent: token yang sama tidak error
func (r *AuthRepository) BlacklistToken(ctx context.Context, token string, until time.Time) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{Token: token, ExpiredAt: until.UTC()}).Error
}

func (r *AuthRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var existing authModel.TokenBlacklist
	err := r.DB.WithContext(ctx).
		Select("id").
		Where("token = ?", token).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CleanupExpiredBlacklist menghapus permanen baris yang expired_at < before
func (r *AuthRepository) CleanupExpiredBlacklist(ctx context.Context, before time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Unscoped().
		Where("expired_at < ?", before.UTC()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
