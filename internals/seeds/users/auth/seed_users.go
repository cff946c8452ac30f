package user

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"labtrack_backend/internals/constants"
	authService "labtrack_backend/internals/features/users/auth/service"
	"labtrack_backend/internals/features/users/user/model"
)

type UserSeed struct {
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

func ParseUsers(data []byte) ([]UserSeed, error) {
	var inputs []UserSeed
	if err := sonic.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("decode user seed: %w", err)
	}
	for i, u := range inputs {
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return nil, fmt.Errorf("user seed #%d: email/password kosong", i)
		}
		if !constants.IsKnownRole(u.Role) {
			return nil, fmt.Errorf("user seed %s: role %q tidak dikenal", u.Email, u.Role)
		}
	}
	return inputs, nil
}

// SeedUsers: user yang email-nya sudah ada dilewati
func SeedUsers(db *gorm.DB, inputs []UserSeed, log *zap.Logger) (int, error) {
	inserted := 0
	for _, data := range inputs {
		var existing model.UserModel
		if err := db.Where("LOWER(email) = LOWER(?)", data.Email).Take(&existing).Error; err == nil {
			log.Info("ℹ️ user sudah ada, dilewati", zap.String("email", data.Email))
			continue
		}

		hashedPassword, err := authService.HashPassword(data.Password)
		if err != nil {
			return inserted, fmt.Errorf("hash password %s: %w", data.Email, err)
		}

		newUser := model.UserModel{
			ID:       uuid.New(),
			Email:    strings.ToLower(strings.TrimSpace(data.Email)),
			FullName: data.FullName,
			Password: hashedPassword,
			Role:     data.Role,
			IsActive: true,
		}
		if err := db.Create(&newUser).Error; err != nil {
			return inserted, fmt.Errorf("insert user %s: %w", data.Email, err)
		}
		inserted++
		log.Info("✅ user dibuat", zap.String("email", newUser.Email), zap.String("role", newUser.Role))
	}
	return inserted, nil
}
