package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel: akun lab; role editor|viewer
type UserModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"column:email;size:255;unique;not null" json:"email"`
	FullName  *string   `gorm:"column:full_name;size:150" json:"full_name"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'viewer'" json:"role"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u UserModel) IsEditor() bool { return u.Role == "editor" }
